package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaclinic-api/internal/services"
)

func (h *Handler) CreateBilling(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req services.BillingInput
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Billing.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Billing created successfully", "billing": b})
}

func (h *Handler) Billings(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	bills, err := h.Billing.List(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"billings": emptyIfNil(bills)})
}

func (h *Handler) UpdateBilling(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "billingId", "billing")
	if !ok {
		return
	}
	var req services.BillingPatch
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Billing.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Billing updated successfully", "billing": b})
}

func (h *Handler) PatientBillings(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	bills, err := h.Billing.ForPatient(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"billings": emptyIfNil(bills)})
}
