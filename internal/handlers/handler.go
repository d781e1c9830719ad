package handlers

import (
	"log/slog"

	"github.com/harentsoaR/dentaclinic-api/internal/services"
)

// Handler holds the services the HTTP handlers delegate to. Every handler
// is a method on it.
type Handler struct {
	Auth         *services.AuthService
	Admin        *services.AdminService
	Doctors      *services.DoctorService
	Patients     *services.PatientService
	Appointments *services.AppointmentService
	Billing      *services.BillingService
	Log          *slog.Logger
}

func NewHandler(
	auth *services.AuthService,
	admin *services.AdminService,
	doctors *services.DoctorService,
	patients *services.PatientService,
	appointments *services.AppointmentService,
	billing *services.BillingService,
	log *slog.Logger,
) *Handler {
	registerBindingNames()
	return &Handler{
		Auth:         auth,
		Admin:        admin,
		Doctors:      doctors,
		Patients:     patients,
		Appointments: appointments,
		Billing:      billing,
		Log:          log,
	}
}
