package services

import (
	"context"
	"errors"
	"testing"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
)

func TestAddClinicForClientAdminUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, ca, err := env.admin.CreateClientAdmin(ctx, AccountInput{Email: "ca@x.com", Password: "secret1", FullName: "Owner"})
	if err != nil {
		t.Fatalf("CreateClientAdmin() error = %v", err)
	}
	if env.notifier.count("welcome") != 1 {
		t.Errorf("welcome notifications = %d, want 1", env.notifier.count("welcome"))
	}

	clinic, err := env.admin.AddClinic(ctx, superAdmin, ClinicInput{
		UserID: user.ID.Hex(), Name: "Bright Teeth", RegistrationNumber: "R-1", Email: "bright@x.com",
	})
	if err != nil {
		t.Fatalf("AddClinic() error = %v", err)
	}
	if clinic.ClientAdminID != ca.ID {
		t.Errorf("clientAdminId = %s, want %s", clinic.ClientAdminID.Hex(), ca.ID.Hex())
	}
	if clinic.Status != models.ClinicPending {
		t.Errorf("status = %q, want pending", clinic.Status)
	}

	_, err = env.admin.AddClinic(ctx, superAdmin, ClinicInput{
		UserID: user.ID.Hex(), Name: "Copy", RegistrationNumber: "R-1", Email: "copy@x.com",
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate registration: error = %v, want conflict", err)
	}
}

func TestClinicEmailStoredLowercase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _, err := env.admin.CreateClientAdmin(ctx, AccountInput{Email: "ca@x.com", Password: "secret1", FullName: "Owner"})
	if err != nil {
		t.Fatal(err)
	}
	clinic, err := env.admin.AddClinic(ctx, superAdmin, ClinicInput{
		UserID: user.ID.Hex(), Name: "Smile", RegistrationNumber: "R-1", Email: " FRONT@Smile.in ",
	})
	if err != nil {
		t.Fatalf("AddClinic() error = %v", err)
	}
	if clinic.Email != "front@smile.in" {
		t.Errorf("email = %q, want lowercased", clinic.Email)
	}

	_, err = env.admin.AddClinic(ctx, superAdmin, ClinicInput{
		UserID: user.ID.Hex(), Name: "Copy", RegistrationNumber: "R-2", Email: "front@smile.in",
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("same email in another case: error = %v, want conflict", err)
	}

	owner := Caller{UserID: user.ID, Role: models.RoleClientAdmin}
	updated, err := env.admin.UpdateClinic(ctx, owner, "", clinic.ID, ClinicPatch{Email: strPtr("Desk@Smile.IN")})
	if err != nil {
		t.Fatalf("UpdateClinic() error = %v", err)
	}
	if updated.Email != "desk@smile.in" {
		t.Errorf("patched email = %q, want lowercased", updated.Email)
	}
}

func TestAddClinicMissingClientAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.admin.AddClinic(ctx, superAdmin, ClinicInput{Name: "X", RegistrationNumber: "R", Email: "x@x.com"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "userId" {
		t.Errorf("no userId: error = %v", err)
	}

	nobody := Caller{Role: models.RoleClientAdmin}
	_, err = env.admin.AddClinic(ctx, nobody, ClinicInput{Name: "X", RegistrationNumber: "R", Email: "x@x.com"})
	if !errors.Is(err, ErrClientAdminNotFound) {
		t.Errorf("unknown ClientAdmin: error = %v, want ErrClientAdminNotFound", err)
	}

	_, err = env.admin.AddClinic(ctx, Caller{Role: models.RoleDoctor}, ClinicInput{})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("doctor caller: error = %v, want ErrForbidden", err)
	}
}

func TestAddDoctorNeedsClinic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, _, err := env.admin.CreateClientAdmin(ctx, AccountInput{Email: "ca@x.com", Password: "secret1", FullName: "Owner"})
	if err != nil {
		t.Fatal(err)
	}
	owner := Caller{UserID: user.ID, Role: models.RoleClientAdmin}

	_, err = env.admin.AddDoctor(ctx, owner, DoctorInput{Email: "doc@x.com", Password: "secret1", FullName: "Dr"})
	if !errors.Is(err, ErrClinicNotFound) {
		t.Fatalf("error = %v, want ErrClinicNotFound", err)
	}
	if _, err := env.store.Users.ByEmail(ctx, "doc@x.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("doctor user should not exist, lookup error = %v", err)
	}
}

func TestAddDoctorRollsBackUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	d, _ := env.seedDoctor(t, "doc1@x.com")

	clinic, err := env.store.Clinics.ByID(ctx, d.ClinicID)
	if err != nil {
		t.Fatal(err)
	}
	ca, err := env.store.ClientAdmins.ByID(ctx, clinic.ClientAdminID)
	if err != nil {
		t.Fatal(err)
	}
	owner := Caller{UserID: ca.UserID, Role: models.RoleClientAdmin}

	if _, err := env.admin.UpdateDoctor(ctx, owner, "", d.ID, DoctorPatch{ContactNumber: strPtr("9876543210")}); err != nil {
		t.Fatalf("UpdateDoctor() error = %v", err)
	}

	_, err = env.admin.AddDoctor(ctx, owner, DoctorInput{
		Email: "doc2@x.com", Password: "secret1", FullName: "Dr Two", ContactNumber: "9876543210",
	})
	if !errors.Is(err, ErrContactTaken) {
		t.Fatalf("error = %v, want ErrContactTaken", err)
	}
	if _, err := env.store.Users.ByEmail(ctx, "doc2@x.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("orphaned user left behind, lookup error = %v", err)
	}
}

func TestContactNumberUniqueAcrossFormats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	d, _ := env.seedDoctor(t, "doc1@x.com")

	clinic, err := env.store.Clinics.ByID(ctx, d.ClinicID)
	if err != nil {
		t.Fatal(err)
	}
	ca, err := env.store.ClientAdmins.ByID(ctx, clinic.ClientAdminID)
	if err != nil {
		t.Fatal(err)
	}
	owner := Caller{UserID: ca.UserID, Role: models.RoleClientAdmin}

	updated, err := env.admin.UpdateDoctor(ctx, owner, "", d.ID, DoctorPatch{ContactNumber: strPtr("98765 43210")})
	if err != nil {
		t.Fatalf("UpdateDoctor() error = %v", err)
	}
	if updated.ContactNumber != "+919876543210" {
		t.Errorf("stored contact = %q, want E.164", updated.ContactNumber)
	}

	_, err = env.admin.AddDoctor(ctx, owner, DoctorInput{
		Email: "doc2@x.com", Password: "secret1", FullName: "Dr Two", ContactNumber: "+91 98765 43210",
	})
	if !errors.Is(err, ErrContactTaken) {
		t.Fatalf("error = %v, want ErrContactTaken", err)
	}
}

func TestAddDoctorRejectsForeignClinic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	other, _ := env.seedDoctor(t, "doc1@x.com")

	user, _, err := env.admin.CreateClientAdmin(ctx, AccountInput{Email: "ca2@x.com", Password: "secret1", FullName: "Other"})
	if err != nil {
		t.Fatal(err)
	}
	owner := Caller{UserID: user.ID, Role: models.RoleClientAdmin}
	_, err = env.admin.AddDoctor(ctx, owner, DoctorInput{
		ClinicID: other.ClinicID.Hex(), Email: "doc2@x.com", Password: "secret1", FullName: "Dr Two",
	})
	if !errors.Is(err, ErrClinicNotFound) {
		t.Fatalf("error = %v, want ErrClinicNotFound", err)
	}
}

func TestClientAdminListsAndUpdates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	d, _ := env.seedDoctor(t, "doc@x.com")
	clinic, _ := env.store.Clinics.ByID(ctx, d.ClinicID)
	ca, _ := env.store.ClientAdmins.ByID(ctx, clinic.ClientAdminID)
	owner := Caller{UserID: ca.UserID, Role: models.RoleClientAdmin}

	doctors, err := env.admin.Doctors(ctx, owner, "")
	if err != nil || len(doctors) != 1 || doctors[0].ID != d.ID {
		t.Fatalf("Doctors() = %v, %v", doctors, err)
	}

	updated, err := env.admin.UpdateClinic(ctx, owner, "", clinic.ID, ClinicPatch{Name: strPtr("Renamed")})
	if err != nil {
		t.Fatalf("UpdateClinic() error = %v", err)
	}
	if updated.Name != "Renamed" || updated.RegistrationNumber != clinic.RegistrationNumber {
		t.Errorf("merge lost fields: %+v", updated)
	}

	if _, err := env.admin.UpdateClinic(ctx, owner, "", clinic.ID, ClinicPatch{Email: strPtr("not-an-email")}); err == nil {
		t.Error("expected validation error for bad email")
	}

	if _, err := env.admin.SetClinicStatus(ctx, clinic.ID, "archived"); err == nil {
		t.Error("expected validation error for unknown status")
	}
	got, err := env.admin.SetClinicStatus(ctx, clinic.ID, models.ClinicActive)
	if err != nil || got.Status != models.ClinicActive {
		t.Fatalf("SetClinicStatus() = %v, %v", got, err)
	}
}

func strPtr(s string) *string { return &s }
