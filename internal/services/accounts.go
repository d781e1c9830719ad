package services

import (
	"context"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
	"github.com/harentsoaR/dentaclinic-api/internal/utils"
)

// Caller is the verified identity behind a request.
type Caller struct {
	UserID primitive.ObjectID
	Email  string
	Role   string
}

// CallerFromClaims converts verified token claims into a Caller.
func CallerFromClaims(c *utils.Claims) (Caller, error) {
	id, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return Caller{}, utils.ErrInvalidToken
	}
	return Caller{UserID: id, Email: c.Email, Role: c.Role}, nil
}

func (c Caller) Is(roles ...string) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// normalizeEmail is the stored form of every email address: login emails
// and clinic contact emails alike.
func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// accounts creates login users and removes them again when the record that
// hangs off the user cannot be written.
type accounts struct {
	users  store.Users
	hasher *utils.PasswordHasher
	log    *slog.Logger
}

func (a *accounts) create(ctx context.Context, email, password, role string) (*models.User, error) {
	email = normalizeEmail(email)
	if len(password) < models.MinPasswordLength {
		return nil, invalid("password", "password must be at least 6 characters")
	}
	hash, err := a.hasher.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{Email: email, Password: hash, Role: role, Status: models.StatusActive}
	if err := checkDoc(u); err != nil {
		return nil, err
	}
	if err := a.users.Create(ctx, u); err != nil {
		return nil, duplicate(err, ErrEmailTaken)
	}
	return u, nil
}

// rollback deletes u after a dependent write failed and returns cause.
func (a *accounts) rollback(ctx context.Context, u *models.User, cause error) error {
	if err := a.users.Delete(context.WithoutCancel(ctx), u.ID); err != nil {
		a.log.Error("failed to remove orphaned user", "userId", u.ID.Hex(), "role", u.Role, "error", err)
	} else {
		a.log.Warn("removed user after dependent write failed", "userId", u.ID.Hex(), "role", u.Role, "cause", cause)
	}
	return cause
}

func parseID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, invalid(field, "invalid "+field)
	}
	return id, nil
}
