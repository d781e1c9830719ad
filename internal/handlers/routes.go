package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaclinic-api/internal/authz"
	"github.com/harentsoaR/dentaclinic-api/internal/middleware"
)

// RegisterRoutes mounts the /api tree. Everything outside /api/auth needs a
// bearer token, and each group is gated on the resource it touches.
func (h *Handler) RegisterRoutes(r gin.IRouter, enf *authz.Enforcer) {
	api := r.Group("/api")
	authed := middleware.AuthMiddleware(h.Auth)
	can := func(obj authz.Resource) gin.HandlerFunc {
		return middleware.Authorize(enf, obj, h.Log)
	}

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", h.Signup)
		authRoutes.GET("/checkSuperAdmin", h.CheckSuperAdmin)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/logout", authed, h.Logout)
		authRoutes.GET("/me", authed, h.Me)
	}

	protected := api.Group("", authed)

	superAdmin := protected.Group("/superAdmin", can(authz.ResPlatform))
	{
		superAdmin.POST("/admins", h.CreateAdmin)
		superAdmin.GET("/clientAdmins", h.ListClientAdmins)
		superAdmin.GET("/clinics", h.ListAllClinics)
		superAdmin.PATCH("/clinics/:id/status", h.SetClinicStatus)
	}

	protected.POST("/clientAdmin/signup", can(authz.ResPlatform), h.SignupClientAdmin)
	clientAdmin := protected.Group("/clientAdmin", can(authz.ResClinicAdmin))
	{
		clientAdmin.GET("/profile", h.ClientAdminProfile)
		clientAdmin.POST("/addClinic", h.AddClinic)
		clientAdmin.GET("/clinics", h.ListClinics)
		clientAdmin.PUT("/clinics/:id", h.UpdateClinic)
		clientAdmin.POST("/addDoctor", h.AddDoctor)
		clientAdmin.GET("/doctors", h.ListDoctors)
		clientAdmin.PUT("/doctors/:id", h.UpdateDoctor)
		clientAdmin.POST("/addReceptionist", h.AddReceptionist)
		clientAdmin.GET("/receptionists", h.ListReceptionists)
	}

	doctor := protected.Group("/doctor", can(authz.ResDoctor))
	{
		doctor.GET("/fetchProfile", h.FetchDoctorProfile)
		doctor.PUT("/updateProfile", h.UpdateDoctorProfile)
		doctor.POST("/addPatient", h.AddPatient)
		doctor.GET("/patients", h.ListPatients)
		doctor.GET("/patients/:id", h.Patient)
		doctor.PUT("/patients/:id", h.UpdatePatient)
	}

	appointments := protected.Group("/doctor/appointments", can(authz.ResAppointments))
	{
		appointments.POST("/add", h.CreateAppointment)
		appointments.PUT("/update/:id", h.UpdateAppointment)
		appointments.DELETE("/delete/:id", h.DeleteAppointment)
		appointments.GET("/fetchAppointments", h.FetchAppointments)
	}

	billing := protected.Group("/doctor/billing", can(authz.ResBilling))
	{
		billing.POST("/add", h.CreateBilling)
		billing.GET("/getAll", h.Billings)
		billing.PATCH("/update/:billingId", h.UpdateBilling)
	}

	// Open to every authenticated role.
	protected.GET("/patient/appointments/availability", can(authz.ResAvailability), h.Availability)

	patient := protected.Group("/patient", can(authz.ResPatient))
	{
		patient.GET("/fetchProfile", h.FetchPatientProfile)
		patient.POST("/updatePassword", h.UpdatePassword)
		patient.GET("/appointments", h.PatientAppointments)
		patient.POST("/appointments/book", h.BookAppointment)
		patient.GET("/billing", h.PatientBillings)
	}
}
