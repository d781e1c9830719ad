package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/metrics"
	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
	"github.com/harentsoaR/dentaclinic-api/internal/utils"
)

type PatientInput struct {
	Email              string                   `json:"email" binding:"required,email"`
	Password           string                   `json:"password" binding:"required"`
	FullName           string                   `json:"fullName" binding:"required"`
	ContactNumber      string                   `json:"contactNumber"`
	Gender             string                   `json:"gender"`
	DateOfBirth        string                   `json:"dateOfBirth"`
	Age                int                      `json:"age"`
	Address            string                   `json:"address"`
	MedicalHistory     []string                 `json:"medicalHistory"`
	CurrentMedications []string                 `json:"currentMedications"`
	EmergencyContact   *models.EmergencyContact `json:"emergencyContact"`
}

type PatientPatch struct {
	FullName           *string                  `json:"fullName"`
	ContactNumber      *string                  `json:"contactNumber"`
	Gender             *string                  `json:"gender"`
	DateOfBirth        *string                  `json:"dateOfBirth"`
	Age                *int                     `json:"age"`
	Address            *string                  `json:"address"`
	MedicalHistory     *[]string                `json:"medicalHistory"`
	CurrentMedications *[]string                `json:"currentMedications"`
	EmergencyContact   *models.EmergencyContact `json:"emergencyContact"`
}

func (p *PatientPatch) apply(pt *models.Patient) error {
	if p.DateOfBirth != nil {
		dob, err := parseBirthDate(*p.DateOfBirth)
		if err != nil {
			return err
		}
		pt.DateOfBirth = dob
	}
	if p.FullName != nil {
		pt.FullName = *p.FullName
	}
	if p.ContactNumber != nil {
		pt.ContactNumber = utils.NormalizePhone(*p.ContactNumber)
	}
	if p.Gender != nil {
		pt.Gender = *p.Gender
	}
	if p.Age != nil {
		pt.Age = *p.Age
	}
	if p.Address != nil {
		pt.Address = *p.Address
	}
	if p.MedicalHistory != nil {
		pt.MedicalHistory = *p.MedicalHistory
	}
	if p.CurrentMedications != nil {
		pt.CurrentMedications = *p.CurrentMedications
	}
	if p.EmergencyContact != nil {
		pt.EmergencyContact = p.EmergencyContact
	}
	return nil
}

func parseBirthDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := models.ParseDay(s)
	if err != nil {
		return nil, invalid("dateOfBirth", "dateOfBirth: "+err.Error())
	}
	return &d, nil
}

// DoctorService covers what a doctor does to their own profile and patients.
type DoctorService struct {
	store    *store.Store
	accounts *accounts
	notifier Notifier
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func NewDoctorService(s *store.Store, hasher *utils.PasswordHasher, notifier Notifier, m *metrics.Metrics, log *slog.Logger) *DoctorService {
	return &DoctorService{
		store:    s,
		accounts: &accounts{users: s.Users, hasher: hasher, log: log},
		notifier: notifier,
		metrics:  m,
		log:      log,
	}
}

// doctorFor loads the Doctor record of the calling user.
func doctorFor(ctx context.Context, s *store.Store, caller Caller) (*models.Doctor, error) {
	if caller.Role != models.RoleDoctor {
		return nil, ErrForbidden
	}
	d, err := s.Doctors.ByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, notFound(err, ErrDoctorNotFound)
	}
	return d, nil
}

// patientOf loads a patient and checks it is under doctor d. Patients of
// other doctors are reported as missing.
func patientOf(ctx context.Context, s *store.Store, d *models.Doctor, id primitive.ObjectID) (*models.Patient, error) {
	p, err := s.Patients.ByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPatientNotFound)
	}
	if p.DoctorID != d.ID {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

func (s *DoctorService) Profile(ctx context.Context, caller Caller) (*models.DoctorProfile, error) {
	d, err := doctorFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	p := d.Profile()
	return &p, nil
}

func (s *DoctorService) UpdateProfile(ctx context.Context, caller Caller, patch DoctorPatch) (*models.DoctorProfile, error) {
	d, err := doctorFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	patch.apply(d)
	if err := checkDoc(d); err != nil {
		return nil, err
	}
	if err := s.store.Doctors.Update(ctx, d); err != nil {
		return nil, duplicate(notFound(err, ErrDoctorNotFound), ErrContactTaken)
	}
	s.metrics.Event("doctor", "updated")
	p := d.Profile()
	return &p, nil
}

// AddPatient creates the patient's login and record. The display id comes
// from an atomic counter so concurrent creations never share one.
func (s *DoctorService) AddPatient(ctx context.Context, caller Caller, in PatientInput) (*models.Patient, error) {
	d, err := doctorFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	dob, err := parseBirthDate(in.DateOfBirth)
	if err != nil {
		return nil, err
	}

	user, err := s.accounts.create(ctx, in.Email, in.Password, models.RolePatient)
	if err != nil {
		return nil, err
	}
	seq, err := s.store.Counters.Next(ctx, store.SeqPatient)
	if err != nil {
		return nil, s.accounts.rollback(ctx, user, err)
	}

	p := &models.Patient{
		UserID:             user.ID,
		DoctorID:           d.ID,
		ClinicID:           d.ClinicID,
		PatientID:          models.FormatPatientID(seq),
		FullName:           in.FullName,
		ContactNumber:      utils.NormalizePhone(in.ContactNumber),
		Gender:             in.Gender,
		DateOfBirth:        dob,
		Age:                in.Age,
		Address:            in.Address,
		MedicalHistory:     lo.Ternary(in.MedicalHistory == nil, []string{}, in.MedicalHistory),
		CurrentMedications: lo.Ternary(in.CurrentMedications == nil, []string{}, in.CurrentMedications),
		EmergencyContact:   in.EmergencyContact,
	}
	if err := checkDoc(p); err != nil {
		return nil, s.accounts.rollback(ctx, user, err)
	}
	if err := s.store.Patients.Create(ctx, p); err != nil {
		return nil, s.accounts.rollback(ctx, user, err)
	}

	s.metrics.Event("patient", "created")
	s.log.Info("patient created", "patientId", p.PatientID, "doctorId", d.ID.Hex())
	s.notifier.Welcome(user.Email, p.FullName, models.RolePatient)
	return p, nil
}

func (s *DoctorService) Patients(ctx context.Context, caller Caller) ([]models.Patient, error) {
	d, err := doctorFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	return s.store.Patients.ByDoctor(ctx, d.ID)
}

func (s *DoctorService) Patient(ctx context.Context, caller Caller, id primitive.ObjectID) (*models.Patient, error) {
	d, err := doctorFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	return patientOf(ctx, s.store, d, id)
}

func (s *DoctorService) UpdatePatient(ctx context.Context, caller Caller, id primitive.ObjectID, patch PatientPatch) (*models.Patient, error) {
	d, err := doctorFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	p, err := patientOf(ctx, s.store, d, id)
	if err != nil {
		return nil, err
	}
	if err := patch.apply(p); err != nil {
		return nil, err
	}
	if err := checkDoc(p); err != nil {
		return nil, err
	}
	if err := s.store.Patients.Update(ctx, p); err != nil {
		return nil, notFound(err, ErrPatientNotFound)
	}
	s.metrics.Event("patient", "updated")
	return p, nil
}

// PatientService is the patient's own view of their record.
type PatientService struct {
	store *store.Store
}

func NewPatientService(s *store.Store) *PatientService {
	return &PatientService{store: s}
}

// patientFor loads the Patient record of the calling user.
func patientFor(ctx context.Context, s *store.Store, caller Caller) (*models.Patient, error) {
	if caller.Role != models.RolePatient {
		return nil, ErrForbidden
	}
	p, err := s.Patients.ByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, notFound(err, ErrPatientNotFound)
	}
	return p, nil
}

type PatientProfile struct {
	*models.Patient
	Email string `json:"email"`
}

func (s *PatientService) Profile(ctx context.Context, caller Caller) (*PatientProfile, error) {
	p, err := patientFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	out := &PatientProfile{Patient: p, Email: caller.Email}
	if u, err := s.store.Users.ByID(ctx, p.UserID); err == nil {
		out.Email = u.Email
	}
	return out, nil
}
