package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaclinic-api/internal/services"
)

// --- DOCTOR SIDE ---

func (h *Handler) CreateAppointment(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req services.AppointmentInput
	if !bindJSON(c, &req) {
		return
	}
	apt, err := h.Appointments.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Appointment created successfully", "appointment": apt})
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "appointment")
	if !ok {
		return
	}
	var req services.AppointmentPatch
	if !bindJSON(c, &req) {
		return
	}
	apt, err := h.Appointments.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment updated successfully", "appointment": apt})
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "appointment")
	if !ok {
		return
	}
	if err := h.Appointments.Delete(c.Request.Context(), caller, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully", "appointmentId": id.Hex()})
}

// FetchAppointments lists the doctor's appointments, optionally filtered by
// ?date=YYYY-MM-DD, ?status= and ?patientId=.
func (h *Handler) FetchAppointments(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var q services.AppointmentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	apts, err := h.Appointments.List(c.Request.Context(), caller, q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": emptyIfNil(apts)})
}

// --- PATIENT SIDE ---

func (h *Handler) PatientAppointments(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	apts, err := h.Appointments.ForPatient(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": emptyIfNil(apts)})
}

func (h *Handler) BookAppointment(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req services.BookingInput
	if !bindJSON(c, &req) {
		return
	}
	apt, err := h.Appointments.Book(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Appointment booked successfully", "appointment": apt})
}

// Availability reports the booked and free slots of a doctor's day.
func (h *Handler) Availability(c *gin.Context) {
	av, err := h.Appointments.Availability(c.Request.Context(), c.Query("doctorId"), c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, av)
}
