package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) FetchPatientProfile(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	profile, err := h.Patients.Profile(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": profile})
}
