package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillsync/skillsync-api/internal/cache"
	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/services"
	"github.com/skillsync/skillsync-api/pkg/apperr"
)

func newMentorAdminFixture() (*services.MentorAdminService, *MockUserRepository, *MockMentorProfileRepository, *MockOnboardingRepository, *cache.MentorDirectoryCache) {
	users := new(MockUserRepository)
	profiles := new(MockMentorProfileRepository)
	onboarding := new(MockOnboardingRepository)
	directory := cache.NewMentorDirectoryCache(time.Minute)
	svc := services.NewMentorAdminService(users, profiles, onboarding, newTestAuditService(), directory)
	return svc, users, profiles, onboarding, directory
}

func validCreateMentorRequest() *models.CreateMentorRequest {
	return &models.CreateMentorRequest{
		Name:            "Sam Mentor",
		Email:           "Sam@Example.com",
		Password:        "password123",
		Bio:             "backend veteran",
		Expertise:       []string{"Go", "go", " SQL "},
		YearsExperience: 10,
		Phone:           "+1-555-0100",
		RefNo:           "REF-42",
	}
}

func TestMentorAdminService_CreateMentor(t *testing.T) {
	svc, _, _, onboarding, _ := newMentorAdminFixture()
	ctx := context.Background()

	onboarding.On("CreateMentor", ctx,
		mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "sam@example.com" &&
				u.Role == models.RoleMentor &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
		}),
		mock.MatchedBy(func(p *models.MentorProfile) bool {
			return p.Approved &&
				assert.ObjectsAreEqual([]string{"go", "sql"}, p.Expertise) &&
				p.Phone == "+1-555-0100" && p.RefNo == "REF-42"
		}),
	).Return(nil).Once()

	details, err := svc.CreateMentor(ctx, validCreateMentorRequest(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", details.User.Email)
	assert.True(t, details.Profile.Approved)
	assert.Equal(t, details.User.ID, details.Profile.UserID)

	onboarding.AssertExpectations(t)
}

func TestMentorAdminService_CreateMentor_Validation(t *testing.T) {
	svc, _, _, onboarding, _ := newMentorAdminFixture()
	ctx := context.Background()

	t.Run("missing fields", func(t *testing.T) {
		req := validCreateMentorRequest()
		req.Phone = " "
		details, err := svc.CreateMentor(ctx, req, "admin-1")
		assert.Nil(t, details)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	t.Run("short password", func(t *testing.T) {
		req := validCreateMentorRequest()
		req.Password = "short"
		details, err := svc.CreateMentor(ctx, req, "admin-1")
		assert.Nil(t, details)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	onboarding.AssertNotCalled(t, "CreateMentor", mock.Anything, mock.Anything, mock.Anything)
}

func TestMentorAdminService_CreateMentor_DuplicateEmail(t *testing.T) {
	svc, _, _, onboarding, _ := newMentorAdminFixture()
	ctx := context.Background()

	onboarding.On("CreateMentor", ctx, mock.Anything, mock.Anything).
		Return(apperr.Conflict("email already registered")).Once()

	details, err := svc.CreateMentor(ctx, validCreateMentorRequest(), "admin-1")
	assert.Nil(t, details)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestMentorAdminService_RemoveMentor(t *testing.T) {
	svc, _, _, onboarding, directory := newMentorAdminFixture()
	ctx := context.Background()

	directory.Set([]models.MentorDirectoryEntry{{UserID: "mentor-1"}})
	onboarding.On("RemoveMentor", ctx, "mentor-1").Return(nil).Once()

	require.NoError(t, svc.RemoveMentor(ctx, "mentor-1", "admin-1"))

	// Removal invalidates the public directory cache
	_, ok := directory.Get()
	assert.False(t, ok)
	onboarding.AssertExpectations(t)
}

func TestMentorAdminService_GetMentor(t *testing.T) {
	svc, users, profiles, _, _ := newMentorAdminFixture()
	ctx := context.Background()

	user := &models.User{ID: "mentor-1", Name: "Sam", Role: models.RoleMentor}
	profile := &models.MentorProfile{ID: "prof-1", UserID: "mentor-1", Approved: true}

	users.On("GetByID", ctx, "mentor-1").Return(user, nil).Once()
	profiles.On("GetByUserID", ctx, "mentor-1").Return(profile, nil).Once()

	details, err := svc.GetMentor(ctx, "mentor-1")
	require.NoError(t, err)
	assert.Equal(t, "Sam", details.User.Name)
	assert.Equal(t, profile, details.Profile)
}

func TestMentorAdminService_GetMentor_NoProfile(t *testing.T) {
	svc, users, profiles, _, _ := newMentorAdminFixture()
	ctx := context.Background()

	user := &models.User{ID: "user-1", Role: models.RoleUser}
	users.On("GetByID", ctx, "user-1").Return(user, nil).Once()
	profiles.On("GetByUserID", ctx, "user-1").Return(nil, apperr.NotFound("mentor profile")).Once()

	details, err := svc.GetMentor(ctx, "user-1")
	assert.Nil(t, details)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMentorAdminService_UpdateMentorProfile_InvalidatesDirectory(t *testing.T) {
	svc, _, profiles, _, directory := newMentorAdminFixture()
	ctx := context.Background()

	directory.Set([]models.MentorDirectoryEntry{{UserID: "mentor-1"}})

	updated := &models.MentorProfile{ID: "prof-1", UserID: "mentor-1"}
	profiles.On("Update", ctx, "mentor-1", mock.MatchedBy(func(req *models.UpdateMentorProfileRequest) bool {
		return assert.ObjectsAreEqual([]string{"go", "kubernetes"}, req.Expertise)
	})).Return(updated, nil).Once()

	profile, err := svc.UpdateMentorProfile(ctx, "mentor-1", &models.UpdateMentorProfileRequest{
		Expertise: []string{" Go ", "Kubernetes", "go"},
	})
	require.NoError(t, err)
	assert.Equal(t, updated, profile)

	_, ok := directory.Get()
	assert.False(t, ok)
}

func TestMentorAdminService_Directory_CachesListing(t *testing.T) {
	svc, _, profiles, _, _ := newMentorAdminFixture()
	ctx := context.Background()

	entries := []models.MentorDirectoryEntry{{UserID: "mentor-1", Name: "Sam"}}
	profiles.On("ListApproved", ctx).Return(entries, nil).Once()

	first, err := svc.Directory(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, first)

	// Second call is served from cache; the single .Once() expectation holds
	second, err := svc.Directory(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, second)

	profiles.AssertExpectations(t)
}
