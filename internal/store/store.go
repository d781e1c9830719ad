// Package store declares the repositories the services persist through.
// mongostore implements them on MongoDB; memstore keeps everything in memory.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

type Users interface {
	Create(ctx context.Context, u *models.User) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsWithRole(ctx context.Context, role string) (bool, error)
	Update(ctx context.Context, u *models.User) error
	TouchLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Profiles stores one kind of AdminProfile (SuperAdmin, ClientAdmin, Admin).
type Profiles interface {
	Create(ctx context.Context, p *models.AdminProfile) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.AdminProfile, error)
	ByUserID(ctx context.Context, userID primitive.ObjectID) (*models.AdminProfile, error)
	List(ctx context.Context) ([]models.AdminProfile, error)
	Update(ctx context.Context, p *models.AdminProfile) error
}

type Clinics interface {
	Create(ctx context.Context, c *models.Clinic) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Clinic, error)
	ByClientAdmin(ctx context.Context, clientAdminID primitive.ObjectID) ([]models.Clinic, error)
	List(ctx context.Context) ([]models.Clinic, error)
	Update(ctx context.Context, c *models.Clinic) error
}

type Doctors interface {
	Create(ctx context.Context, d *models.Doctor) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	ByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error)
	ByClinics(ctx context.Context, clinicIDs []primitive.ObjectID) ([]models.Doctor, error)
	Update(ctx context.Context, d *models.Doctor) error
}

type Receptionists interface {
	Create(ctx context.Context, r *models.Receptionist) error
	ByClinics(ctx context.Context, clinicIDs []primitive.ObjectID) ([]models.Receptionist, error)
}

type Patients interface {
	Create(ctx context.Context, p *models.Patient) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error)
	ByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Patient, error)
	ByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.Patient, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, p *models.Patient) error
}

type AppointmentFilter struct {
	DoctorID  *primitive.ObjectID
	PatientID *primitive.ObjectID
	Day       *time.Time
	Status    string
}

type Appointments interface {
	Create(ctx context.Context, a *models.Appointment) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	List(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)
	// BookedSlots returns the time slots already taken for doctor on day,
	// ignoring cancelled appointments and the appointment named by exclude.
	BookedSlots(ctx context.Context, doctorID primitive.ObjectID, day time.Time, exclude *primitive.ObjectID) ([]string, error)
	Update(ctx context.Context, a *models.Appointment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type BillingFilter struct {
	DoctorID  *primitive.ObjectID
	PatientID *primitive.ObjectID
}

type Billings interface {
	Create(ctx context.Context, b *models.Billing) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Billing, error)
	List(ctx context.Context, f BillingFilter) ([]models.Billing, error)
	Update(ctx context.Context, b *models.Billing) error
}

type Settings interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// Counters hands out monotonically increasing sequence numbers.
type Counters interface {
	Next(ctx context.Context, name string) (int64, error)
	// Seed raises the counter to at least floor.
	Seed(ctx context.Context, name string, floor int64) error
}

// Sequence names.
const (
	SeqPatient = "patientId"
	SeqInvoice = "invoiceId"
)

type Store struct {
	Users         Users
	SuperAdmins   Profiles
	ClientAdmins  Profiles
	Admins        Profiles
	Clinics       Clinics
	Doctors       Doctors
	Receptionists Receptionists
	Patients      Patients
	Appointments  Appointments
	Billings      Billings
	Settings      Settings
	Counters      Counters
}
