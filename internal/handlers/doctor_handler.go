package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaclinic-api/internal/services"
)

func (h *Handler) FetchDoctorProfile(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	profile, err := h.Doctors.Profile(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctor": profile})
}

func (h *Handler) UpdateDoctorProfile(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req services.DoctorPatch
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.Doctors.UpdateProfile(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "doctor": profile})
}

func (h *Handler) AddPatient(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req services.PatientInput
	if !bindJSON(c, &req) {
		return
	}
	patient, err := h.Doctors.AddPatient(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Patient created successfully", "patient": patient})
}

func (h *Handler) ListPatients(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	patients, err := h.Doctors.Patients(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": emptyIfNil(patients)})
}

func (h *Handler) Patient(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "patient")
	if !ok {
		return
	}
	patient, err := h.Doctors.Patient(c.Request.Context(), caller, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": patient})
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "patient")
	if !ok {
		return
	}
	var req services.PatientPatch
	if !bindJSON(c, &req) {
		return
	}
	patient, err := h.Doctors.UpdatePatient(c.Request.Context(), caller, id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": patient})
}
