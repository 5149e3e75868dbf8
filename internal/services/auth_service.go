package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillsync/skillsync-api/config"
	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/repository"
	"github.com/skillsync/skillsync-api/pkg/apperr"
	"github.com/skillsync/skillsync-api/pkg/jwt"
	"github.com/skillsync/skillsync-api/pkg/logger"
	"github.com/skillsync/skillsync-api/pkg/metrics"
)

const resetTokenTTL = 30 * time.Minute

// AuthService handles registration, login and the first-admin bootstrap policy
type AuthService struct {
	users        repository.UserRepository
	applications repository.MentorApplicationRepository
	audit        *AuditService
	tokenManager *jwt.TokenManager
	config       *config.Config
}

func NewAuthService(
	users repository.UserRepository,
	applications repository.MentorApplicationRepository,
	audit *AuditService,
	tokenManager *jwt.TokenManager,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		users:        users,
		applications: applications,
		audit:        audit,
		tokenManager: tokenManager,
		config:       cfg,
	}
}

// Register creates an account. A mentor role request does not grant the role:
// the account is created as a regular user and a pending application is filed
// for admin review. An admin role request succeeds only while no admin exists.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		return nil, apperr.InvalidInput("registration", "name, email and password are required")
	}

	finalRole := models.RoleUser
	if req.Role == string(models.RoleAdmin) {
		adminCount, err := s.users.CountByRole(ctx, models.RoleAdmin)
		if err != nil {
			metrics.Registrations.WithLabelValues("error").Inc()
			return nil, err
		}
		if adminCount > 0 {
			metrics.Registrations.WithLabelValues("forbidden").Inc()
			return nil, apperr.Forbidden("admin already exists, ask an existing admin to create more")
		}
		finalRole = models.RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         finalRole,
		Skills:       []string{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			metrics.Registrations.WithLabelValues("conflict").Inc()
			return nil, apperr.Conflict("email already in use")
		}
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, err
	}

	// A mentor role request files a pending application instead of granting
	// the role. A failure here must not fail the registration itself.
	if req.Role == string(models.RoleMentor) {
		app := &models.MentorApplication{
			ID:        uuid.NewString(),
			Name:      name,
			Email:     email,
			UserID:    &user.ID,
			Expertise: []string{},
			Status:    models.ApplicationStatusPending,
		}
		if err := s.applications.Create(ctx, app); err != nil {
			logger.Warn("Failed to create mentor application during registration",
				zap.String("email", email),
				zap.Error(err))
		} else {
			metrics.ApplicationSubmissions.WithLabelValues("success").Inc()
		}
	}

	metrics.Registrations.WithLabelValues("success").Inc()
	logger.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Login verifies credentials. While no admin exists, a successful login
// promotes that account to admin so a fresh deployment is never locked out.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			metrics.Logins.WithLabelValues("unauthorized").Inc()
			return nil, apperr.ErrUnauthorized
		}
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.Logins.WithLabelValues("unauthorized").Inc()
		return nil, apperr.ErrUnauthorized
	}

	if user.Suspended {
		metrics.Logins.WithLabelValues("suspended").Inc()
		return nil, apperr.Forbidden("account is suspended")
	}

	// First-run bootstrap: promotion is checked on every login, not only the
	// first, so an instance whose admins were all deleted recovers too.
	if user.Role != models.RoleAdmin {
		adminCount, err := s.users.CountByRole(ctx, models.RoleAdmin)
		if err != nil {
			logger.Warn("Admin auto-promote check failed", zap.Error(err))
		} else if adminCount == 0 {
			if err := s.users.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
				logger.Warn("Failed to auto-promote first admin", zap.Error(err))
			} else {
				user.Role = models.RoleAdmin
				logger.Info("First user auto-promoted to admin", zap.String("user_id", user.ID))
				s.audit.Record(models.AuditAdminBootstrap, "first login auto-promoted to admin", user.ID,
					map[string]any{"email": user.Email})
			}
		}
	}

	metrics.Logins.WithLabelValues("success").Inc()
	return user, nil
}

// CurrentIdentity resolves the account behind a session token. It never
// errors: a missing, invalid or stale token yields a nil user.
func (s *AuthService) CurrentIdentity(ctx context.Context, token string) *models.User {
	if token == "" {
		return nil
	}

	claims, err := s.tokenManager.ValidateToken(token)
	if err != nil {
		return nil
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil
	}
	return user
}

// EnsureBootstrapAdmin is an idempotent startup step: when no admin exists and
// bootstrap credentials are configured, it creates or promotes that account.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context) error {
	adminCount, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if adminCount > 0 {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(s.config.Bootstrap.AdminEmail))
	password := s.config.Bootstrap.AdminPassword
	if email == "" || password == "" {
		logger.Info("No admin exists and no bootstrap credentials configured, first login will promote")
		return nil
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if err := s.users.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return err
		}
		logger.Info("Bootstrap admin promoted", zap.String("user_id", existing.ID))
		s.audit.Record(models.AuditAdminBootstrap, "bootstrap promoted existing account", "",
			map[string]any{"email": email})
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("failed to hash bootstrap password", err)
	}

	name := strings.TrimSpace(s.config.Bootstrap.AdminName)
	if name == "" {
		name = "Administrator"
	}

	admin := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Skills:       []string{},
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("Bootstrap admin created", zap.String("user_id", admin.ID))
	s.audit.Record(models.AuditAdminBootstrap, "bootstrap created admin account", "",
		map[string]any{"email": email})
	return nil
}

// ForgotPassword stores a short-lived reset token. The response is identical
// whether or not the account exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return apperr.Internal("failed to generate reset token", err)
	}

	if err := s.users.SetResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.config.Server.ClientURL, token)
	if s.config.IsDevelopment() {
		logger.Info("=== DEVELOPMENT PASSWORD RESET LINK ===",
			zap.String("email", user.Email),
			zap.String("link", link))
	} else {
		// Mail delivery is owned by an external notifier watching the audit
		// stream, so the link is recorded rather than sent inline.
		s.audit.Record("password_reset_requested", "reset link issued", user.ID,
			map[string]any{"email": user.Email, "link": link})
	}

	return nil
}

// ResetPassword exchanges a valid reset token for a new password
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < 8 {
		return apperr.InvalidInput("password", "must be at least 8 characters")
	}

	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.InvalidInput("token", "invalid or expired token")
		}
		return err
	}
	if user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
		return apperr.InvalidInput("token", "invalid or expired token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	if err := s.users.ClearResetToken(ctx, user.ID); err != nil {
		logger.Warn("Failed to clear reset token", zap.String("user_id", user.ID), zap.Error(err))
	}

	return nil
}

func generateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
