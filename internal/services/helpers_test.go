package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/sessions"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
	"github.com/harentsoaR/dentaclinic-api/internal/store/memstore"
	"github.com/harentsoaR/dentaclinic-api/internal/utils"
)

type sentMail struct {
	kind, to string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *recordingNotifier) record(kind, to string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{kind: kind, to: to})
}

func (n *recordingNotifier) Welcome(to, _, _ string) { n.record("welcome", to) }
func (n *recordingNotifier) AppointmentBooked(to, _ string, _ *models.Appointment) {
	n.record("booked", to)
}
func (n *recordingNotifier) AppointmentCancelled(to, _ string, _ *models.Appointment) {
	n.record("cancelled", to)
}

func (n *recordingNotifier) count(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, m := range n.sent {
		if m.kind == kind {
			c++
		}
	}
	return c
}

type testEnv struct {
	store        *store.Store
	notifier     *recordingNotifier
	auth         *AuthService
	admin        *AdminService
	doctors      *DoctorService
	patients     *PatientService
	appointments *AppointmentService
	billing      *BillingService
}

// fixedNow is a Wednesday morning; tests book relative to it.
var fixedNow = time.Date(2030, time.March, 13, 9, 30, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := memstore.New()
	hasher := utils.NewPasswordHasher(4)
	tokens, err := utils.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	n := &recordingNotifier{}

	env := &testEnv{
		store:        s,
		notifier:     n,
		auth:         NewAuthService(s, hasher, tokens, sessions.NewMemoryRevoker(), n, nil, log),
		admin:        NewAdminService(s, hasher, n, nil, log),
		doctors:      NewDoctorService(s, hasher, n, nil, log),
		patients:     NewPatientService(s),
		appointments: NewAppointmentService(s, n, nil, log, false),
		billing:      NewBillingService(s, nil, log),
	}
	env.appointments.now = func() time.Time { return fixedNow }
	return env
}

var superAdmin = Caller{Role: models.RoleSuperAdmin}

// seedDoctor creates a ClientAdmin, a clinic and a doctor, returning the
// doctor and a Caller acting as them.
func (e *testEnv) seedDoctor(t *testing.T, email string) (*models.Doctor, Caller) {
	t.Helper()
	ctx := context.Background()
	caUser, _, err := e.admin.CreateClientAdmin(ctx, AccountInput{
		Email: "owner-" + email, Password: "secret1", FullName: "Clinic Owner",
	})
	if err != nil {
		t.Fatalf("CreateClientAdmin() error = %v", err)
	}
	owner := Caller{UserID: caUser.ID, Email: caUser.Email, Role: models.RoleClientAdmin}
	if _, err := e.admin.AddClinic(ctx, owner, ClinicInput{
		Name: "Smile Dental", RegistrationNumber: "REG-" + email, Email: "clinic-" + email,
	}); err != nil {
		t.Fatalf("AddClinic() error = %v", err)
	}
	d, err := e.admin.AddDoctor(ctx, owner, DoctorInput{
		Email: email, Password: "secret1", FullName: "Dr. Rao", Specialization: "Orthodontics",
	})
	if err != nil {
		t.Fatalf("AddDoctor() error = %v", err)
	}
	u, err := e.store.Users.ByEmail(ctx, email)
	if err != nil {
		t.Fatalf("doctor user lookup: %v", err)
	}
	return d, Caller{UserID: u.ID, Email: u.Email, Role: models.RoleDoctor}
}

func (e *testEnv) seedPatient(t *testing.T, doctor Caller, email string) (*models.Patient, Caller) {
	t.Helper()
	ctx := context.Background()
	p, err := e.doctors.AddPatient(ctx, doctor, PatientInput{Email: email, Password: "secret1", FullName: "Asha Patel"})
	if err != nil {
		t.Fatalf("AddPatient() error = %v", err)
	}
	return p, Caller{UserID: p.UserID, Email: email, Role: models.RolePatient}
}
