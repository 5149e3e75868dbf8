package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillsync/skillsync-api/config"
	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/services"
	"github.com/skillsync/skillsync-api/pkg/apperr"
	"github.com/skillsync/skillsync-api/pkg/jwt"
)

func newAuthFixture(cfg *config.Config) (*services.AuthService, *MockUserRepository, *MockMentorApplicationRepository, *jwt.TokenManager) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	users := new(MockUserRepository)
	applications := new(MockMentorApplicationRepository)
	tokenManager := jwt.NewTokenManager("test-secret-that-is-long-enough-123", "skillsync-test", 1)
	svc := services.NewAuthService(users, applications, newTestAuditService(), tokenManager, cfg)
	return svc, users, applications, tokenManager
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	svc, users, applications, _ := newAuthFixture(nil)
	ctx := context.Background()

	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "jane@example.com" &&
			u.Role == models.RoleUser &&
			u.PasswordHash != "password123" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Return(nil).Once()

	user, err := svc.Register(ctx, &models.RegisterRequest{
		Name:     "  Jane  ",
		Email:    "Jane@Example.COM",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane", user.Name)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)

	// A plain registration never files an application
	applications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestAuthService_Register_MentorRequestFilesApplication(t *testing.T) {
	svc, users, applications, _ := newAuthFixture(nil)
	ctx := context.Background()

	users.On("Create", ctx, mock.Anything).Return(nil).Once()
	applications.On("Create", ctx, mock.MatchedBy(func(app *models.MentorApplication) bool {
		return app.Email == "jane@example.com" && app.Status == models.ApplicationStatusPending
	})).Return(nil).Once()

	user, err := svc.Register(ctx, &models.RegisterRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "password123",
		Role:     "mentor",
	})
	require.NoError(t, err)

	// The mentor role is requested, not granted
	assert.Equal(t, models.RoleUser, user.Role)
	applications.AssertExpectations(t)
}

func TestAuthService_Register_MentorApplicationFailureDoesNotFailRegistration(t *testing.T) {
	svc, users, applications, _ := newAuthFixture(nil)
	ctx := context.Background()

	users.On("Create", ctx, mock.Anything).Return(nil).Once()
	applications.On("Create", ctx, mock.Anything).Return(apperr.Internal("db down", nil)).Once()

	user, err := svc.Register(ctx, &models.RegisterRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "password123",
		Role:     "mentor",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestAuthService_Register_AdminOnlyWhileNoneExists(t *testing.T) {
	ctx := context.Background()

	t.Run("first admin succeeds", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture(nil)
		users.On("CountByRole", ctx, models.RoleAdmin).Return(0, nil).Once()
		users.On("Create", ctx, mock.Anything).Return(nil).Once()

		user, err := svc.Register(ctx, &models.RegisterRequest{
			Name:     "Root",
			Email:    "root@example.com",
			Password: "password123",
			Role:     "admin",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)
	})

	t.Run("second admin is forbidden", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture(nil)
		users.On("CountByRole", ctx, models.RoleAdmin).Return(1, nil).Once()

		user, err := svc.Register(ctx, &models.RegisterRequest{
			Name:     "Impostor",
			Email:    "impostor@example.com",
			Password: "password123",
			Role:     "admin",
		})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, users, _, _ := newAuthFixture(nil)
	ctx := context.Background()

	users.On("Create", ctx, mock.Anything).Return(apperr.Conflict("email already registered")).Once()

	user, err := svc.Register(ctx, &models.RegisterRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "password123",
	})
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc, users, _, _ := newAuthFixture(nil)

	user, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name:  "Jane",
		Email: "jane@example.com",
	})
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	svc, users, _, _ := newAuthFixture(nil)
	ctx := context.Background()

	stored := &models.User{
		ID:           "user-1",
		Email:        "jane@example.com",
		PasswordHash: hashPassword(t, "password123"),
		Role:         models.RoleAdmin,
	}
	users.On("GetByEmail", ctx, "jane@example.com").Return(stored, nil).Once()

	user, err := svc.Login(ctx, " Jane@Example.com ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	// An existing admin skips the bootstrap promotion check entirely
	users.AssertNotCalled(t, "CountByRole", mock.Anything, mock.Anything)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, users, _, _ := newAuthFixture(nil)
	ctx := context.Background()

	stored := &models.User{
		ID:           "user-1",
		Email:        "jane@example.com",
		PasswordHash: hashPassword(t, "password123"),
		Role:         models.RoleUser,
	}
	users.On("GetByEmail", ctx, "jane@example.com").Return(stored, nil).Once()

	user, err := svc.Login(ctx, "jane@example.com", "wrong-password")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, users, _, _ := newAuthFixture(nil)
	ctx := context.Background()

	users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, apperr.NotFound("user")).Once()

	user, err := svc.Login(ctx, "nobody@example.com", "password123")
	assert.Nil(t, user)
	// Unknown account and wrong password are indistinguishable to the caller
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAuthService_Login_Suspended(t *testing.T) {
	svc, users, _, _ := newAuthFixture(nil)
	ctx := context.Background()

	stored := &models.User{
		ID:           "user-1",
		Email:        "jane@example.com",
		PasswordHash: hashPassword(t, "password123"),
		Role:         models.RoleUser,
		Suspended:    true,
	}
	users.On("GetByEmail", ctx, "jane@example.com").Return(stored, nil).Once()

	user, err := svc.Login(ctx, "jane@example.com", "password123")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestAuthService_Login_PromotesFirstAdmin(t *testing.T) {
	svc, users, _, _ := newAuthFixture(nil)
	ctx := context.Background()

	stored := &models.User{
		ID:           "user-1",
		Email:        "jane@example.com",
		PasswordHash: hashPassword(t, "password123"),
		Role:         models.RoleUser,
	}
	users.On("GetByEmail", ctx, "jane@example.com").Return(stored, nil).Once()
	users.On("CountByRole", ctx, models.RoleAdmin).Return(0, nil).Once()
	users.On("UpdateRole", ctx, "user-1", models.RoleAdmin).Return(nil).Once()

	user, err := svc.Login(ctx, "jane@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	users.AssertExpectations(t)
}

func TestAuthService_Login_NoPromotionWhenAdminExists(t *testing.T) {
	svc, users, _, _ := newAuthFixture(nil)
	ctx := context.Background()

	stored := &models.User{
		ID:           "user-2",
		Email:        "late@example.com",
		PasswordHash: hashPassword(t, "password123"),
		Role:         models.RoleUser,
	}
	users.On("GetByEmail", ctx, "late@example.com").Return(stored, nil).Once()
	users.On("CountByRole", ctx, models.RoleAdmin).Return(1, nil).Once()

	user, err := svc.Login(ctx, "late@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_CurrentIdentity(t *testing.T) {
	svc, users, _, tokenManager := newAuthFixture(nil)
	ctx := context.Background()

	token, err := tokenManager.GenerateToken("user-1", "jane@example.com", "Jane", "user")
	require.NoError(t, err)

	stored := &models.User{ID: "user-1", Email: "jane@example.com"}
	users.On("GetByID", ctx, "user-1").Return(stored, nil).Once()

	assert.Equal(t, stored, svc.CurrentIdentity(ctx, token))
	assert.Nil(t, svc.CurrentIdentity(ctx, ""))
	assert.Nil(t, svc.CurrentIdentity(ctx, "not-a-jwt"))
}

func TestAuthService_EnsureBootstrapAdmin_CreatesAccount(t *testing.T) {
	cfg := &config.Config{}
	cfg.Bootstrap.AdminEmail = "Admin@Example.com"
	cfg.Bootstrap.AdminPassword = "bootstrap-secret"
	svc, users, _, _ := newAuthFixture(cfg)
	ctx := context.Background()

	users.On("CountByRole", ctx, models.RoleAdmin).Return(0, nil).Once()
	users.On("GetByEmail", ctx, "admin@example.com").Return(nil, apperr.NotFound("user")).Once()
	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "admin@example.com" && u.Role == models.RoleAdmin && u.Name == "Administrator"
	})).Return(nil).Once()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx))
	users.AssertExpectations(t)
}

func TestAuthService_EnsureBootstrapAdmin_PromotesExisting(t *testing.T) {
	cfg := &config.Config{}
	cfg.Bootstrap.AdminEmail = "admin@example.com"
	cfg.Bootstrap.AdminPassword = "bootstrap-secret"
	svc, users, _, _ := newAuthFixture(cfg)
	ctx := context.Background()

	existing := &models.User{ID: "user-1", Email: "admin@example.com", Role: models.RoleUser}
	users.On("CountByRole", ctx, models.RoleAdmin).Return(0, nil).Once()
	users.On("GetByEmail", ctx, "admin@example.com").Return(existing, nil).Once()
	users.On("UpdateRole", ctx, "user-1", models.RoleAdmin).Return(nil).Once()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_EnsureBootstrapAdmin_NoopWhenAdminExists(t *testing.T) {
	svc, users, _, _ := newAuthFixture(nil)
	ctx := context.Background()

	users.On("CountByRole", ctx, models.RoleAdmin).Return(2, nil).Once()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx))
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_ResetPassword(t *testing.T) {
	svc, users, _, _ := newAuthFixture(nil)
	ctx := context.Background()

	expires := timeNowPlusMinutes(10)
	stored := &models.User{ID: "user-1", ResetTokenExpiresAt: &expires}
	users.On("GetByResetToken", ctx, "tok").Return(stored, nil).Once()
	users.On("UpdatePassword", ctx, "user-1", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")) == nil
	})).Return(nil).Once()
	users.On("ClearResetToken", ctx, "user-1").Return(nil).Once()

	require.NoError(t, svc.ResetPassword(ctx, "tok", "newpassword"))
	users.AssertExpectations(t)
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	svc, users, _, _ := newAuthFixture(nil)
	ctx := context.Background()

	expires := timeNowPlusMinutes(-1)
	stored := &models.User{ID: "user-1", ResetTokenExpiresAt: &expires}
	users.On("GetByResetToken", ctx, "tok").Return(stored, nil).Once()

	err := svc.ResetPassword(ctx, "tok", "newpassword")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_ResetPassword_ShortPassword(t *testing.T) {
	svc, users, _, _ := newAuthFixture(nil)

	err := svc.ResetPassword(context.Background(), "tok", "short")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	users.AssertNotCalled(t, "GetByResetToken", mock.Anything, mock.Anything)
}

func TestAuthService_ForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	svc, users, _, _ := newAuthFixture(nil)
	ctx := context.Background()

	users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, apperr.NotFound("user")).Once()

	require.NoError(t, svc.ForgotPassword(ctx, "nobody@example.com"))
	users.AssertNotCalled(t, "SetResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_ForgotPassword_StoresToken(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.AppEnv = "development"
	cfg.Server.ClientURL = "http://localhost:5173"
	svc, users, _, _ := newAuthFixture(cfg)
	ctx := context.Background()

	stored := &models.User{ID: "user-1", Email: "jane@example.com"}
	users.On("GetByEmail", ctx, "jane@example.com").Return(stored, nil).Once()
	users.On("SetResetToken", ctx, "user-1", mock.MatchedBy(func(token string) bool {
		// 32 random bytes hex encoded
		return len(token) == 64
	}), mock.Anything).Return(nil).Once()

	require.NoError(t, svc.ForgotPassword(ctx, "jane@example.com"))
	users.AssertExpectations(t)
}
