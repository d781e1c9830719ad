package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaclinic-api/internal/services"
)

type clinicStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- PLATFORM (SuperAdmin) ---

func (h *Handler) SignupClientAdmin(c *gin.Context) {
	var req services.AccountInput
	if !bindJSON(c, &req) {
		return
	}
	user, profile, err := h.Admin.CreateClientAdmin(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "ClientAdmin created successfully",
		"user":        user.Identity(),
		"clientAdmin": profile,
	})
}

func (h *Handler) CreateAdmin(c *gin.Context) {
	var req services.AccountInput
	if !bindJSON(c, &req) {
		return
	}
	user, profile, err := h.Admin.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Admin created successfully",
		"user":    user.Identity(),
		"admin":   profile,
	})
}

func (h *Handler) ListClientAdmins(c *gin.Context) {
	admins, err := h.Admin.ListClientAdmins(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientAdmins": emptyIfNil(admins)})
}

func (h *Handler) ListAllClinics(c *gin.Context) {
	clinics, err := h.Admin.ListClinics(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clinics": emptyIfNil(clinics)})
}

func (h *Handler) SetClinicStatus(c *gin.Context) {
	id, ok := idParam(c, "id", "clinic")
	if !ok {
		return
	}
	var req clinicStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	clinic, err := h.Admin.SetClinicStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clinic": clinic})
}

// --- TENANT (ClientAdmin) ---
// SuperAdmins reach these with ?userId=<clientAdmin user id> on reads and a
// userId body field on writes.

func (h *Handler) ClientAdminProfile(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	profile, err := h.Admin.Profile(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientAdmin": profile})
}

func (h *Handler) AddClinic(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req services.ClinicInput
	if !bindJSON(c, &req) {
		return
	}
	clinic, err := h.Admin.AddClinic(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Clinic created successfully", "clinic": clinic})
}

func (h *Handler) ListClinics(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	clinics, err := h.Admin.Clinics(c.Request.Context(), caller, c.Query("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clinics": emptyIfNil(clinics)})
}

func (h *Handler) UpdateClinic(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "clinic")
	if !ok {
		return
	}
	var req services.ClinicPatch
	if !bindJSON(c, &req) {
		return
	}
	clinic, err := h.Admin.UpdateClinic(c.Request.Context(), caller, c.Query("userId"), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clinic": clinic})
}

func (h *Handler) AddDoctor(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req services.DoctorInput
	if !bindJSON(c, &req) {
		return
	}
	doctor, err := h.Admin.AddDoctor(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Doctor created successfully", "doctor": doctor})
}

func (h *Handler) AddReceptionist(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req services.ReceptionistInput
	if !bindJSON(c, &req) {
		return
	}
	rec, err := h.Admin.AddReceptionist(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Receptionist created successfully", "receptionist": rec})
}

func (h *Handler) ListDoctors(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	doctors, err := h.Admin.Doctors(c.Request.Context(), caller, c.Query("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": emptyIfNil(doctors)})
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "doctor")
	if !ok {
		return
	}
	var req services.DoctorPatch
	if !bindJSON(c, &req) {
		return
	}
	doctor, err := h.Admin.UpdateDoctor(c.Request.Context(), caller, c.Query("userId"), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctor": doctor})
}

func (h *Handler) ListReceptionists(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	recs, err := h.Admin.Receptionists(c.Request.Context(), caller, c.Query("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receptionists": emptyIfNil(recs)})
}
