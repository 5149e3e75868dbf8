package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"time"

	"go.uber.org/zap"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/repository"
	"github.com/skillsync/skillsync-api/pkg/apperr"
	"github.com/skillsync/skillsync-api/pkg/logger"
)

// AdminUsersService covers user administration: listing, role changes,
// suspension, deletion, dashboard stats and CSV reports.
type AdminUsersService struct {
	users     repository.UserRepository
	profiles  repository.MentorProfileRepository
	jobs      repository.JobRepository
	resources repository.ResourceRepository
	audit     *AuditService
}

func NewAdminUsersService(
	users repository.UserRepository,
	profiles repository.MentorProfileRepository,
	jobs repository.JobRepository,
	resources repository.ResourceRepository,
	audit *AuditService,
) *AdminUsersService {
	return &AdminUsersService{
		users:     users,
		profiles:  profiles,
		jobs:      jobs,
		resources: resources,
		audit:     audit,
	}
}

// ListUsers returns a searchable, paginated user listing
func (s *AdminUsersService) ListUsers(ctx context.Context, q models.UserListQuery) (*models.UserListResponse, error) {
	q.Page, q.Limit = clampPaging(q.Page, q.Limit, 10, 100)

	users, total, err := s.users.List(ctx, q)
	if err != nil {
		return nil, err
	}

	items := make([]models.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, models.PublicUser(&users[i]))
	}

	return &models.UserListResponse{
		Items: items,
		Total: total,
		Page:  q.Page,
		Pages: pageCount(total, q.Limit),
	}, nil
}

// ChangeRole sets a user's role directly. Changing one's own role away from
// admin is rejected so an instance cannot lock itself out by accident.
func (s *AdminUsersService) ChangeRole(ctx context.Context, userID string, role models.Role, adminID string) (*models.User, error) {
	if !role.IsValid() {
		return nil, apperr.InvalidInput("role", "must be user, mentor or admin")
	}
	if userID == adminID && role != models.RoleAdmin {
		return nil, apperr.InvalidInput("role", "cannot demote your own account")
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	logger.Info("User role changed",
		zap.String("user_id", userID),
		zap.String("role", string(role)),
		zap.String("changed_by", adminID))
	s.audit.Record(models.AuditUserRoleChanged, "user role changed", adminID,
		map[string]any{"userId": userID, "role": string(role)})

	return s.users.GetByID(ctx, userID)
}

// SetSuspended suspends or unsuspends an account
func (s *AdminUsersService) SetSuspended(ctx context.Context, userID string, suspended bool, adminID string) (*models.User, error) {
	if userID == adminID && suspended {
		return nil, apperr.InvalidInput("suspended", "cannot suspend your own account")
	}

	if err := s.users.SetSuspended(ctx, userID, suspended); err != nil {
		return nil, err
	}

	s.audit.Record(models.AuditUserSuspended, "user suspension changed", adminID,
		map[string]any{"userId": userID, "suspended": suspended})

	return s.users.GetByID(ctx, userID)
}

// DeleteUser removes an account entirely
func (s *AdminUsersService) DeleteUser(ctx context.Context, userID, adminID string) error {
	if userID == adminID {
		return apperr.InvalidInput("user", "cannot delete your own account")
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	logger.Info("User deleted",
		zap.String("user_id", userID),
		zap.String("deleted_by", adminID))
	s.audit.Record(models.AuditUserDeleted, "user deleted", adminID,
		map[string]any{"userId": userID})
	return nil
}

// Stats returns the admin dashboard counters
func (s *AdminUsersService) Stats(ctx context.Context) (*models.AdminStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalJobs, err := s.jobs.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalResources, err := s.resources.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalMentors, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &models.AdminStats{
		TotalUsers:     totalUsers,
		TotalJobs:      totalJobs,
		TotalResources: totalResources,
		TotalMentors:   totalMentors,
	}, nil
}

// ExportUsersCSV renders all users as a CSV report
func (s *AdminUsersService) ExportUsersCSV(ctx context.Context) ([]byte, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"name", "email", "role", "createdAt"}); err != nil {
		return nil, apperr.Internal("failed to write csv header", err)
	}
	for i := range users {
		u := &users[i]
		record := []string{u.Name, u.Email, string(u.Role), u.CreatedAt.UTC().Format(time.RFC3339)}
		if err := w.Write(record); err != nil {
			return nil, apperr.Internal("failed to write csv row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperr.Internal("failed to flush csv", err)
	}

	return buf.Bytes(), nil
}
