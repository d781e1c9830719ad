package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/metrics"
	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
	"github.com/harentsoaR/dentaclinic-api/internal/utils"
)

type AccountInput struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	FullName      string `json:"fullName" binding:"required"`
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
}

type ClinicInput struct {
	// UserID names the owning ClientAdmin's user when a SuperAdmin acts on
	// their behalf. It is ignored for ClientAdmin callers.
	UserID             string                    `json:"userId"`
	Name               string                    `json:"name" binding:"required"`
	RegistrationNumber string                    `json:"registrationNumber" binding:"required"`
	Email              string                    `json:"email" binding:"required,email"`
	Phone              string                    `json:"phone"`
	Address            models.Address            `json:"address"`
	Services           []models.ClinicService    `json:"services"`
	BusinessHours      []models.BusinessHours    `json:"businessHours"`
	SubscriptionPlan   *models.SubscriptionPlan  `json:"subscriptionPlan"`
	AppointmentPolicy  *models.AppointmentPolicy `json:"appointmentPolicy"`
	PaymentDetails     *models.PaymentDetails    `json:"paymentDetails"`
}

type ClinicPatch struct {
	Name              *string                   `json:"name"`
	Email             *string                   `json:"email"`
	Phone             *string                   `json:"phone"`
	Address           *models.Address           `json:"address"`
	Services          *[]models.ClinicService   `json:"services"`
	BusinessHours     *[]models.BusinessHours   `json:"businessHours"`
	SubscriptionPlan  *models.SubscriptionPlan  `json:"subscriptionPlan"`
	AppointmentPolicy *models.AppointmentPolicy `json:"appointmentPolicy"`
	PaymentDetails    *models.PaymentDetails    `json:"paymentDetails"`
}

func (p *ClinicPatch) apply(c *models.Clinic) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = normalizeEmail(*p.Email)
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Services != nil {
		c.Services = *p.Services
	}
	if p.BusinessHours != nil {
		c.BusinessHours = *p.BusinessHours
	}
	if p.SubscriptionPlan != nil {
		c.SubscriptionPlan = p.SubscriptionPlan
	}
	if p.AppointmentPolicy != nil {
		c.AppointmentPolicy = p.AppointmentPolicy
	}
	if p.PaymentDetails != nil {
		c.PaymentDetails = p.PaymentDetails
	}
}

type DoctorInput struct {
	UserID          string                `json:"userId"`
	ClinicID        string                `json:"clinicId"`
	Email           string                `json:"email" binding:"required,email"`
	Password        string                `json:"password" binding:"required"`
	FullName        string                `json:"fullName" binding:"required"`
	Specialization  string                `json:"specialization"`
	ContactNumber   string                `json:"contactNumber"`
	Qualifications  []string              `json:"qualifications"`
	ExperienceYears int                   `json:"experienceYears"`
	WorkingHours    []models.WorkingHours `json:"workingHours"`
}

type ReceptionistInput struct {
	UserID        string `json:"userId"`
	ClinicID      string `json:"clinicId"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	FullName      string `json:"fullName" binding:"required"`
	ContactNumber string `json:"contactNumber"`
}

type DoctorPatch struct {
	FullName        *string                `json:"fullName"`
	Specialization  *string                `json:"specialization"`
	ContactNumber   *string                `json:"contactNumber"`
	Qualifications  *[]string              `json:"qualifications"`
	ExperienceYears *int                   `json:"experienceYears"`
	WorkingHours    *[]models.WorkingHours `json:"workingHours"`
}

func (p *DoctorPatch) apply(d *models.Doctor) {
	if p.FullName != nil {
		d.FullName = *p.FullName
	}
	if p.Specialization != nil {
		d.Specialization = *p.Specialization
	}
	if p.ContactNumber != nil {
		d.ContactNumber = utils.NormalizePhone(*p.ContactNumber)
	}
	if p.Qualifications != nil {
		d.Qualifications = *p.Qualifications
	}
	if p.ExperienceYears != nil {
		d.ExperienceYears = *p.ExperienceYears
	}
	if p.WorkingHours != nil {
		d.WorkingHours = *p.WorkingHours
	}
}

// AdminService holds the platform (SuperAdmin) and tenant (ClientAdmin)
// operations: accounts, clinics and clinic staff.
type AdminService struct {
	store    *store.Store
	accounts *accounts
	notifier Notifier
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func NewAdminService(s *store.Store, hasher *utils.PasswordHasher, notifier Notifier, m *metrics.Metrics, log *slog.Logger) *AdminService {
	return &AdminService{
		store:    s,
		accounts: &accounts{users: s.Users, hasher: hasher, log: log},
		notifier: notifier,
		metrics:  m,
		log:      log,
	}
}

func (s *AdminService) CreateClientAdmin(ctx context.Context, in AccountInput) (*models.User, *models.ClientAdmin, error) {
	return s.createProfile(ctx, in, models.RoleClientAdmin, s.store.ClientAdmins)
}

func (s *AdminService) CreateAdmin(ctx context.Context, in AccountInput) (*models.User, *models.Admin, error) {
	return s.createProfile(ctx, in, models.RoleAdmin, s.store.Admins)
}

func (s *AdminService) createProfile(ctx context.Context, in AccountInput, role string, profiles store.Profiles) (*models.User, *models.AdminProfile, error) {
	user, err := s.accounts.create(ctx, in.Email, in.Password, role)
	if err != nil {
		return nil, nil, err
	}
	p := &models.AdminProfile{
		UserID:        user.ID,
		FullName:      in.FullName,
		ContactNumber: utils.NormalizePhone(in.ContactNumber),
		Address:       in.Address,
		Permissions:   models.DefaultPermissions(role),
	}
	if err := checkDoc(p); err != nil {
		return nil, nil, s.accounts.rollback(ctx, user, err)
	}
	if err := profiles.Create(ctx, p); err != nil {
		return nil, nil, s.accounts.rollback(ctx, user, fmt.Errorf("create %s profile: %w", role, err))
	}

	s.metrics.Event(role, "created")
	s.notifier.Welcome(user.Email, p.FullName, role)
	return user, p, nil
}

func (s *AdminService) ListClientAdmins(ctx context.Context) ([]models.ClientAdmin, error) {
	return s.store.ClientAdmins.List(ctx)
}

func (s *AdminService) ListClinics(ctx context.Context) ([]models.Clinic, error) {
	return s.store.Clinics.List(ctx)
}

func (s *AdminService) SetClinicStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Clinic, error) {
	c, err := s.store.Clinics.ByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrClinicNotFound)
	}
	c.Status = status
	if err := checkDoc(c); err != nil {
		return nil, err
	}
	if err := s.store.Clinics.Update(ctx, c); err != nil {
		return nil, notFound(err, ErrClinicNotFound)
	}
	s.metrics.Event("clinic", "statusChanged")
	return c, nil
}

// ClientAdminFor resolves the ClientAdmin a request acts for. ClientAdmins
// act for themselves; SuperAdmins name the ClientAdmin's user id.
func (s *AdminService) ClientAdminFor(ctx context.Context, caller Caller, userIDHex string) (*models.ClientAdmin, error) {
	var userID primitive.ObjectID
	switch caller.Role {
	case models.RoleClientAdmin:
		userID = caller.UserID
	case models.RoleSuperAdmin:
		if userIDHex == "" {
			return nil, invalid("userId", "userId is required")
		}
		id, err := parseID("userId", userIDHex)
		if err != nil {
			return nil, err
		}
		userID = id
	default:
		return nil, ErrForbidden
	}

	ca, err := s.store.ClientAdmins.ByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrClientAdminNotFound)
	}
	return ca, nil
}

func (s *AdminService) AddClinic(ctx context.Context, caller Caller, in ClinicInput) (*models.Clinic, error) {
	ca, err := s.ClientAdminFor(ctx, caller, in.UserID)
	if err != nil {
		return nil, err
	}

	c := &models.Clinic{
		ClientAdminID:      ca.ID,
		Name:               in.Name,
		RegistrationNumber: in.RegistrationNumber,
		Email:              normalizeEmail(in.Email),
		Phone:              in.Phone,
		Address:            in.Address,
		Services:           lo.Ternary(in.Services == nil, []models.ClinicService{}, in.Services),
		BusinessHours:      lo.Ternary(in.BusinessHours == nil, []models.BusinessHours{}, in.BusinessHours),
		SubscriptionPlan:   in.SubscriptionPlan,
		AppointmentPolicy:  in.AppointmentPolicy,
		PaymentDetails:     in.PaymentDetails,
		Status:             models.ClinicPending,
	}
	if err := checkDoc(c); err != nil {
		return nil, err
	}
	if err := s.store.Clinics.Create(ctx, c); err != nil {
		return nil, duplicate(err, ErrClinicTaken)
	}

	s.metrics.Event("clinic", "created")
	s.log.Info("clinic created", "clinicId", c.ID.Hex(), "clientAdminId", ca.ID.Hex())
	return c, nil
}

func (s *AdminService) Clinics(ctx context.Context, caller Caller, userIDHex string) ([]models.Clinic, error) {
	ca, err := s.ClientAdminFor(ctx, caller, userIDHex)
	if err != nil {
		return nil, err
	}
	return s.store.Clinics.ByClientAdmin(ctx, ca.ID)
}

// ownedClinic loads a clinic and checks it belongs to ca. A clinic of
// another tenant is reported as missing.
func (s *AdminService) ownedClinic(ctx context.Context, ca *models.ClientAdmin, id primitive.ObjectID) (*models.Clinic, error) {
	c, err := s.store.Clinics.ByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrClinicNotFound)
	}
	if c.ClientAdminID != ca.ID {
		return nil, ErrClinicNotFound
	}
	return c, nil
}

// staffClinic picks the clinic new staff join: the named clinic when it
// belongs to ca, otherwise ca's first clinic.
func (s *AdminService) staffClinic(ctx context.Context, ca *models.ClientAdmin, clinicIDHex string) (*models.Clinic, error) {
	if clinicIDHex != "" {
		id, err := parseID("clinicId", clinicIDHex)
		if err != nil {
			return nil, err
		}
		return s.ownedClinic(ctx, ca, id)
	}
	clinics, err := s.store.Clinics.ByClientAdmin(ctx, ca.ID)
	if err != nil {
		return nil, err
	}
	if len(clinics) == 0 {
		return nil, ErrClinicNotFound
	}
	// Listed newest first.
	return &clinics[len(clinics)-1], nil
}

func (s *AdminService) UpdateClinic(ctx context.Context, caller Caller, userIDHex string, id primitive.ObjectID, patch ClinicPatch) (*models.Clinic, error) {
	ca, err := s.ClientAdminFor(ctx, caller, userIDHex)
	if err != nil {
		return nil, err
	}
	c, err := s.ownedClinic(ctx, ca, id)
	if err != nil {
		return nil, err
	}
	patch.apply(c)
	if err := checkDoc(c); err != nil {
		return nil, err
	}
	if err := s.store.Clinics.Update(ctx, c); err != nil {
		return nil, duplicate(notFound(err, ErrClinicNotFound), ErrClinicTaken)
	}
	s.metrics.Event("clinic", "updated")
	return c, nil
}

func (s *AdminService) AddDoctor(ctx context.Context, caller Caller, in DoctorInput) (*models.Doctor, error) {
	ca, err := s.ClientAdminFor(ctx, caller, in.UserID)
	if err != nil {
		return nil, err
	}
	clinic, err := s.staffClinic(ctx, ca, in.ClinicID)
	if err != nil {
		return nil, err
	}

	user, err := s.accounts.create(ctx, in.Email, in.Password, models.RoleDoctor)
	if err != nil {
		return nil, err
	}
	d := &models.Doctor{
		UserID:          user.ID,
		ClinicID:        clinic.ID,
		FullName:        in.FullName,
		Specialization:  in.Specialization,
		ContactNumber:   utils.NormalizePhone(in.ContactNumber),
		Qualifications:  lo.Ternary(in.Qualifications == nil, []string{}, in.Qualifications),
		ExperienceYears: in.ExperienceYears,
		WorkingHours:    lo.Ternary(in.WorkingHours == nil, []models.WorkingHours{}, in.WorkingHours),
		Permissions:     models.DefaultPermissions(models.RoleDoctor),
	}
	if err := checkDoc(d); err != nil {
		return nil, s.accounts.rollback(ctx, user, err)
	}
	if err := s.store.Doctors.Create(ctx, d); err != nil {
		return nil, s.accounts.rollback(ctx, user, duplicate(err, ErrContactTaken))
	}

	s.metrics.Event("doctor", "created")
	s.notifier.Welcome(user.Email, d.FullName, models.RoleDoctor)
	return d, nil
}

func (s *AdminService) AddReceptionist(ctx context.Context, caller Caller, in ReceptionistInput) (*models.Receptionist, error) {
	ca, err := s.ClientAdminFor(ctx, caller, in.UserID)
	if err != nil {
		return nil, err
	}
	clinic, err := s.staffClinic(ctx, ca, in.ClinicID)
	if err != nil {
		return nil, err
	}

	user, err := s.accounts.create(ctx, in.Email, in.Password, models.RoleReceptionist)
	if err != nil {
		return nil, err
	}
	r := &models.Receptionist{
		UserID:        user.ID,
		ClinicID:      clinic.ID,
		FullName:      in.FullName,
		ContactNumber: utils.NormalizePhone(in.ContactNumber),
		Permissions:   models.DefaultPermissions(models.RoleReceptionist),
	}
	if err := checkDoc(r); err != nil {
		return nil, s.accounts.rollback(ctx, user, err)
	}
	if err := s.store.Receptionists.Create(ctx, r); err != nil {
		return nil, s.accounts.rollback(ctx, user, err)
	}

	s.metrics.Event("receptionist", "created")
	s.notifier.Welcome(user.Email, r.FullName, models.RoleReceptionist)
	return r, nil
}

func (s *AdminService) clinicIDs(ctx context.Context, ca *models.ClientAdmin) ([]primitive.ObjectID, error) {
	clinics, err := s.store.Clinics.ByClientAdmin(ctx, ca.ID)
	if err != nil {
		return nil, err
	}
	return lo.Map(clinics, func(c models.Clinic, _ int) primitive.ObjectID { return c.ID }), nil
}

// Doctors lists the doctors of every clinic the ClientAdmin owns.
func (s *AdminService) Doctors(ctx context.Context, caller Caller, userIDHex string) ([]models.Doctor, error) {
	ca, err := s.ClientAdminFor(ctx, caller, userIDHex)
	if err != nil {
		return nil, err
	}
	ids, err := s.clinicIDs(ctx, ca)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Doctor{}, nil
	}
	return s.store.Doctors.ByClinics(ctx, ids)
}

func (s *AdminService) Receptionists(ctx context.Context, caller Caller, userIDHex string) ([]models.Receptionist, error) {
	ca, err := s.ClientAdminFor(ctx, caller, userIDHex)
	if err != nil {
		return nil, err
	}
	ids, err := s.clinicIDs(ctx, ca)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Receptionist{}, nil
	}
	return s.store.Receptionists.ByClinics(ctx, ids)
}

func (s *AdminService) UpdateDoctor(ctx context.Context, caller Caller, userIDHex string, id primitive.ObjectID, patch DoctorPatch) (*models.Doctor, error) {
	ca, err := s.ClientAdminFor(ctx, caller, userIDHex)
	if err != nil {
		return nil, err
	}
	d, err := s.store.Doctors.ByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrDoctorNotFound)
	}
	if _, err := s.ownedClinic(ctx, ca, d.ClinicID); err != nil {
		if errors.Is(err, ErrClinicNotFound) {
			return nil, ErrDoctorNotFound
		}
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
	return d, nil
}

func (s *AdminService) Profile(ctx context.Context, caller Caller) (*models.ClientAdmin, error) {
	if caller.Role != models.RoleClientAdmin {
		return nil, ErrForbidden
	}
	return s.ClientAdminFor(ctx, caller, "")
}
