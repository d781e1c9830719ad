package services

import (
	"context"
	"errors"
	"testing"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/utils"
)

func TestSignupSuperAdminOnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	exists, err := env.auth.SuperAdminExists(ctx)
	if err != nil || exists {
		t.Fatalf("SuperAdminExists() = %v, %v; want false", exists, err)
	}

	user, profile, err := env.auth.SignupSuperAdmin(ctx, SignupInput{
		Email: "Admin@X.com", Password: "password1", Role: models.RoleSuperAdmin, FullName: "Root",
	})
	if err != nil {
		t.Fatalf("SignupSuperAdmin() error = %v", err)
	}
	if user.Email != "admin@x.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if profile.UserID != user.ID || !profile.Permissions["manageClientAdmins"] {
		t.Errorf("profile = %+v", profile)
	}

	exists, err = env.auth.SuperAdminExists(ctx)
	if err != nil || !exists {
		t.Fatalf("SuperAdminExists() = %v, %v; want true", exists, err)
	}

	for _, email := range []string{"admin@x.com", "other@x.com"} {
		_, _, err := env.auth.SignupSuperAdmin(ctx, SignupInput{Email: email, Password: "password1", Role: models.RoleSuperAdmin})
		if !errors.Is(err, ErrSuperAdminExists) {
			t.Errorf("second signup with %s: error = %v, want ErrSuperAdminExists", email, err)
		}
	}
}

func TestSignupRejectsOtherRoles(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.auth.SignupSuperAdmin(context.Background(), SignupInput{
		Email: "doc@x.com", Password: "password1", Role: models.RoleDoctor,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}
}

func TestSignupShortPassword(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.auth.SignupSuperAdmin(context.Background(), SignupInput{
		Email: "admin@x.com", Password: "12345", Role: models.RoleSuperAdmin,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "password" {
		t.Fatalf("error = %v, want password ValidationError", err)
	}
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, _, err := env.auth.SignupSuperAdmin(ctx, SignupInput{
		Email: "admin@x.com", Password: "password1", Role: models.RoleSuperAdmin,
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := env.auth.Login(ctx, "admin@x.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v", err)
	}
	if _, err := env.auth.Login(ctx, "nobody@x.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: error = %v", err)
	}

	res, err := env.auth.Login(ctx, "ADMIN@x.com", "password1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.User.Role != models.RoleSuperAdmin || res.User.Email != "admin@x.com" {
		t.Errorf("identity = %+v", res.User)
	}
	u, _ := env.store.Users.ByEmail(ctx, "admin@x.com")
	if u.LastLogin == nil {
		t.Error("lastLogin not recorded")
	}

	claims, err := env.auth.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if err := env.auth.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := env.auth.Authenticate(ctx, res.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("after logout: error = %v, want ErrTokenRevoked", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, _, err := env.admin.CreateClientAdmin(ctx, AccountInput{Email: "ca@x.com", Password: "secret1", FullName: "CA"})
	if err != nil {
		t.Fatal(err)
	}
	user.Status = models.StatusSuspended
	if err := env.store.Users.Update(ctx, user); err != nil {
		t.Fatal(err)
	}
	if _, err := env.auth.Login(ctx, "ca@x.com", "secret1"); !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("error = %v, want ErrAccountInactive", err)
	}
}

func TestSuspendedUserTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, _, err := env.admin.CreateClientAdmin(ctx, AccountInput{Email: "ca@x.com", Password: "secret1", FullName: "CA"})
	if err != nil {
		t.Fatal(err)
	}
	res, err := env.auth.Login(ctx, "ca@x.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.auth.Authenticate(ctx, res.Token); err != nil {
		t.Fatalf("Authenticate() while active: %v", err)
	}

	user.Status = models.StatusSuspended
	if err := env.store.Users.Update(ctx, user); err != nil {
		t.Fatal(err)
	}
	if _, err := env.auth.Authenticate(ctx, res.Token); !errors.Is(err, ErrAccountInactive) {
		t.Errorf("after suspension: error = %v, want ErrAccountInactive", err)
	}

	if err := env.store.Users.Delete(ctx, user.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.auth.Authenticate(ctx, res.Token); !errors.Is(err, utils.ErrInvalidToken) {
		t.Errorf("after delete: error = %v, want ErrInvalidToken", err)
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, doc := env.seedDoctor(t, "doc@x.com")
	_, patient := env.seedPatient(t, doc, "pat@x.com")

	err := env.auth.ChangePassword(ctx, patient.UserID, "nope12", "newpass1")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "currentPassword" {
		t.Fatalf("wrong current password: error = %v", err)
	}
	if err := env.auth.ChangePassword(ctx, patient.UserID, "secret1", "newpass1"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if _, err := env.auth.Login(ctx, "pat@x.com", "newpass1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
