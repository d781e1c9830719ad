package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/metrics"
	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/sessions"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
	"github.com/harentsoaR/dentaclinic-api/internal/utils"
)

type SignupInput struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	Role          string `json:"role" binding:"required"`
	FullName      string `json:"fullName"`
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
}

type LoginResult struct {
	Token  string          `json:"token"`
	User   models.Identity `json:"user"`
	Claims *utils.Claims   `json:"-"`
}

type AuthService struct {
	store    *store.Store
	accounts *accounts
	hasher   *utils.PasswordHasher
	tokens   *utils.TokenManager
	revoker  sessions.Revoker
	notifier Notifier
	metrics  *metrics.Metrics
	log      *slog.Logger
	now      func() time.Time
}

func NewAuthService(s *store.Store, hasher *utils.PasswordHasher, tokens *utils.TokenManager, revoker sessions.Revoker, notifier Notifier, m *metrics.Metrics, log *slog.Logger) *AuthService {
	return &AuthService{
		store:    s,
		accounts: &accounts{users: s.Users, hasher: hasher, log: log},
		hasher:   hasher,
		tokens:   tokens,
		revoker:  revoker,
		notifier: notifier,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// SuperAdminExists consults the cached Settings flag and falls back to the
// users collection when the flag is missing or false.
func (s *AuthService) SuperAdminExists(ctx context.Context) (bool, error) {
	v, err := s.store.Settings.Get(ctx, models.SettingSuperAdminCreated)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	if b, ok := v.(bool); ok && b {
		return true, nil
	}
	return s.store.Users.ExistsWithRole(ctx, models.RoleSuperAdmin)
}

// SignupSuperAdmin bootstraps the single platform owner account.
func (s *AuthService) SignupSuperAdmin(ctx context.Context, in SignupInput) (*models.User, *models.SuperAdmin, error) {
	if in.Role != models.RoleSuperAdmin {
		return nil, nil, ErrForbidden
	}
	exists, err := s.SuperAdminExists(ctx)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrSuperAdminExists
	}

	user, err := s.accounts.create(ctx, in.Email, in.Password, models.RoleSuperAdmin)
	if err != nil {
		return nil, nil, err
	}
	profile := &models.SuperAdmin{
		UserID:        user.ID,
		FullName:      in.FullName,
		ContactNumber: utils.NormalizePhone(in.ContactNumber),
		Address:       in.Address,
		Permissions:   models.DefaultPermissions(models.RoleSuperAdmin),
	}
	if err := checkDoc(profile); err != nil {
		return nil, nil, s.accounts.rollback(ctx, user, err)
	}
	if err := s.store.SuperAdmins.Create(ctx, profile); err != nil {
		return nil, nil, s.accounts.rollback(ctx, user, err)
	}
	if err := s.store.Settings.Set(ctx, models.SettingSuperAdminCreated, true); err != nil {
		s.log.Error("failed to record superadmin flag", "error", err)
	}

	s.metrics.Event("superAdmin", "created")
	s.log.Info("superadmin created", "userId", user.ID.Hex())
	return user, profile, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.CheckPasswordHash(password, user.Password); err != nil {
		if errors.Is(err, utils.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrAccountInactive
	}

	if err := s.store.Users.TouchLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.log.Warn("failed to update last login", "userId", user.ID.Hex(), "error", err)
	}

	id := user.Identity()
	token, claims, err := s.tokens.GenerateJWT(id.ID, id.Email, id.Role)
	if err != nil {
		return nil, err
	}
	s.metrics.Event("session", "created")
	return &LoginResult{Token: token, User: id, Claims: claims}, nil
}

// Authenticate verifies a bearer token, checks it has not been revoked and
// that its user still exists and is active. Suspending a user cuts off their
// outstanding tokens immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := s.tokens.ValidateJWT(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	caller, err := CallerFromClaims(claims)
	if err != nil {
		return nil, err
	}
	u, err := s.store.Users.ByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, utils.ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive() {
		return nil, ErrAccountInactive
	}
	return claims, nil
}

// Logout revokes the token described by claims until it would expire.
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	s.metrics.Event("session", "revoked")
	return nil
}

func (s *AuthService) Me(ctx context.Context, caller Caller) (*models.User, error) {
	u, err := s.store.Users.ByID(ctx, caller.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return u, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) error {
	u, err := s.store.Users.ByID(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if err := s.hasher.CheckPasswordHash(current, u.Password); err != nil {
		if errors.Is(err, utils.ErrPasswordMismatch) {
			return invalid("currentPassword", "current password is incorrect")
		}
		return err
	}
	if len(next) < models.MinPasswordLength {
		return invalid("newPassword", "newPassword must be at least 6 characters")
	}
	hash, err := s.hasher.HashPassword(next)
	if err != nil {
		return err
	}
	u.Password = hash
	if err := s.store.Users.Update(ctx, u); err != nil {
		return err
	}
	s.metrics.Event("user", "passwordChanged")
	return nil
}
