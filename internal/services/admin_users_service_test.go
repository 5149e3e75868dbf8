package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/services"
	"github.com/skillsync/skillsync-api/pkg/apperr"
)

func newAdminUsersFixture() (*services.AdminUsersService, *MockUserRepository, *MockMentorProfileRepository, *MockJobRepository, *MockResourceRepository) {
	users := new(MockUserRepository)
	profiles := new(MockMentorProfileRepository)
	jobs := new(MockJobRepository)
	resources := new(MockResourceRepository)
	svc := services.NewAdminUsersService(users, profiles, jobs, resources, newTestAuditService())
	return svc, users, profiles, jobs, resources
}

func TestAdminUsersService_ListUsers(t *testing.T) {
	svc, users, _, _, _ := newAdminUsersFixture()
	ctx := context.Background()

	stored := []models.User{
		{ID: "u1", Name: "Jane", Email: "jane@example.com", Role: models.RoleAdmin},
		{ID: "u2", Name: "Sam", Email: "sam@example.com", Role: models.RoleUser},
	}
	users.On("List", ctx, mock.MatchedBy(func(q models.UserListQuery) bool {
		return q.Query == "a" && q.Page == 1 && q.Limit == 10
	})).Return(stored, 12, nil).Once()

	resp, err := svc.ListUsers(ctx, models.UserListQuery{Query: "a"})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.Total)
	assert.Equal(t, 2, resp.Pages)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "jane@example.com", resp.Items[0].Email)
}

func TestAdminUsersService_ChangeRole(t *testing.T) {
	svc, users, _, _, _ := newAdminUsersFixture()
	ctx := context.Background()

	updated := &models.User{ID: "u2", Role: models.RoleMentor}
	users.On("UpdateRole", ctx, "u2", models.RoleMentor).Return(nil).Once()
	users.On("GetByID", ctx, "u2").Return(updated, nil).Once()

	user, err := svc.ChangeRole(ctx, "u2", models.RoleMentor, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMentor, user.Role)
	users.AssertExpectations(t)
}

func TestAdminUsersService_ChangeRole_SelfDemotion(t *testing.T) {
	svc, users, _, _, _ := newAdminUsersFixture()

	user, err := svc.ChangeRole(context.Background(), "admin-1", models.RoleUser, "admin-1")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminUsersService_ChangeRole_InvalidRole(t *testing.T) {
	svc, users, _, _, _ := newAdminUsersFixture()

	user, err := svc.ChangeRole(context.Background(), "u2", "superuser", "admin-1")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminUsersService_SetSuspended_SelfSuspend(t *testing.T) {
	svc, users, _, _, _ := newAdminUsersFixture()

	user, err := svc.SetSuspended(context.Background(), "admin-1", true, "admin-1")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	users.AssertNotCalled(t, "SetSuspended", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminUsersService_SetSuspended_UnsuspendSelfAllowed(t *testing.T) {
	svc, users, _, _, _ := newAdminUsersFixture()
	ctx := context.Background()

	updated := &models.User{ID: "admin-1", Suspended: false}
	users.On("SetSuspended", ctx, "admin-1", false).Return(nil).Once()
	users.On("GetByID", ctx, "admin-1").Return(updated, nil).Once()

	user, err := svc.SetSuspended(ctx, "admin-1", false, "admin-1")
	require.NoError(t, err)
	assert.False(t, user.Suspended)
}

func TestAdminUsersService_DeleteUser_Self(t *testing.T) {
	svc, users, _, _, _ := newAdminUsersFixture()

	err := svc.DeleteUser(context.Background(), "admin-1", "admin-1")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAdminUsersService_Stats(t *testing.T) {
	svc, users, profiles, jobs, resources := newAdminUsersFixture()
	ctx := context.Background()

	users.On("Count", ctx).Return(120, nil).Once()
	jobs.On("Count", ctx).Return(14, nil).Once()
	resources.On("Count", ctx).Return(33, nil).Once()
	profiles.On("Count", ctx).Return(9, nil).Once()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.AdminStats{
		TotalUsers:     120,
		TotalJobs:      14,
		TotalResources: 33,
		TotalMentors:   9,
	}, stats)
}

func TestAdminUsersService_ExportUsersCSV(t *testing.T) {
	svc, users, _, _, _ := newAdminUsersFixture()
	ctx := context.Background()

	createdAt := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	users.On("ListAll", ctx).Return([]models.User{
		{Name: "Jane Doe", Email: "jane@example.com", Role: models.RoleAdmin, CreatedAt: createdAt},
	}, nil).Once()

	data, err := svc.ExportUsersCSV(ctx)
	require.NoError(t, err)
	assert.Equal(t, "name,email,role,createdAt\nJane Doe,jane@example.com,admin,2025-03-14T09:26:53Z\n", string(data))
}
