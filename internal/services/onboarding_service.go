package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillsync/skillsync-api/internal/cache"
	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/repository"
	"github.com/skillsync/skillsync-api/pkg/apperr"
	"github.com/skillsync/skillsync-api/pkg/logger"
	"github.com/skillsync/skillsync-api/pkg/metrics"
)

// OnboardingService drives the mentor application state machine:
// pending -> approved | rejected, both terminal.
type OnboardingService struct {
	applications repository.MentorApplicationRepository
	users        repository.UserRepository
	onboarding   repository.OnboardingRepository
	audit        *AuditService
	directory    *cache.MentorDirectoryCache
}

func NewOnboardingService(
	applications repository.MentorApplicationRepository,
	users repository.UserRepository,
	onboarding repository.OnboardingRepository,
	audit *AuditService,
	directory *cache.MentorDirectoryCache,
) *OnboardingService {
	return &OnboardingService{
		applications: applications,
		users:        users,
		onboarding:   onboarding,
		audit:        audit,
		directory:    directory,
	}
}

// Approve promotes the applicant's account to mentor, sets the password the
// admin chose, upserts the mentor profile and finalizes the application, all
// in one transaction. The password check happens before any state changes.
func (s *OnboardingService) Approve(ctx context.Context, applicationID, password, adminID string) (*models.MentorApplication, error) {
	if len(password) < 8 {
		metrics.ApplicationDecisions.WithLabelValues("approve", "invalid").Inc()
		return nil, apperr.InvalidInput("password", "must be at least 8 characters")
	}

	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		metrics.ApplicationDecisions.WithLabelValues("approve", "not_found").Inc()
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		metrics.ApplicationDecisions.WithLabelValues("approve", "conflict").Inc()
		return nil, apperr.Conflict(fmt.Sprintf("application already %s", app.Status))
	}

	user, err := s.resolveApplicant(ctx, app)
	if err != nil {
		metrics.ApplicationDecisions.WithLabelValues("approve", "no_account").Inc()
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		metrics.ApplicationDecisions.WithLabelValues("approve", "error").Inc()
		return nil, apperr.Internal("failed to hash password", err)
	}

	err = s.onboarding.ApproveApplication(ctx, repository.ApproveParams{
		Application:  app,
		UserID:       user.ID,
		PasswordHash: string(hash),
		DecidedBy:    adminID,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			metrics.ApplicationDecisions.WithLabelValues("approve", "conflict").Inc()
		} else {
			metrics.ApplicationDecisions.WithLabelValues("approve", "error").Inc()
		}
		return nil, err
	}

	s.directory.Invalidate()
	metrics.ApplicationDecisions.WithLabelValues("approve", "success").Inc()
	logger.Info("Mentor application approved",
		zap.String("application_id", app.ID),
		zap.String("user_id", user.ID),
		zap.String("decided_by", adminID))
	s.audit.Record(models.AuditMentorApproved, "mentor application approved", adminID,
		map[string]any{"applicationId": app.ID, "userId": user.ID})

	return s.applications.GetByID(ctx, applicationID)
}

// Reject finalizes a pending application without touching the account or any
// profile. Re-applying later stays possible.
func (s *OnboardingService) Reject(ctx context.Context, applicationID, notes, adminID string) (*models.MentorApplication, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		metrics.ApplicationDecisions.WithLabelValues("reject", "not_found").Inc()
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		metrics.ApplicationDecisions.WithLabelValues("reject", "conflict").Inc()
		return nil, apperr.Conflict(fmt.Sprintf("application already %s", app.Status))
	}

	if err := s.applications.Reject(ctx, applicationID, adminID, notes); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			metrics.ApplicationDecisions.WithLabelValues("reject", "conflict").Inc()
		} else {
			metrics.ApplicationDecisions.WithLabelValues("reject", "error").Inc()
		}
		return nil, err
	}

	metrics.ApplicationDecisions.WithLabelValues("reject", "success").Inc()
	logger.Info("Mentor application rejected",
		zap.String("application_id", app.ID),
		zap.String("decided_by", adminID))
	s.audit.Record(models.AuditMentorRejected, "mentor application rejected", adminID,
		map[string]any{"applicationId": app.ID})

	return s.applications.GetByID(ctx, applicationID)
}

// Submit files a self-service mentor application for the logged-in account
func (s *OnboardingService) Submit(ctx context.Context, session *models.Session, req *models.SubmitApplicationRequest) (*models.MentorApplication, error) {
	email := strings.ToLower(session.Email)

	exists, err := s.applications.HasOpenOrApproved(ctx, email)
	if err != nil {
		metrics.ApplicationSubmissions.WithLabelValues("error").Inc()
		return nil, err
	}
	if exists {
		metrics.ApplicationSubmissions.WithLabelValues("conflict").Inc()
		// Deliberately vague so the endpoint doesn't reveal decision history
		return nil, apperr.Conflict("an application already exists or was approved for this email")
	}

	app := &models.MentorApplication{
		ID:              uuid.NewString(),
		Name:            session.Name,
		Email:           email,
		UserID:          &session.UserID,
		Expertise:       normalizeSkills(req.Expertise, 20),
		Bio:             strings.TrimSpace(req.Bio),
		YearsExperience: req.YearsExperience,
		Phone:           strings.TrimSpace(req.Phone),
		RefNo:           strings.TrimSpace(req.RefNo),
		Status:          models.ApplicationStatusPending,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			metrics.ApplicationSubmissions.WithLabelValues("conflict").Inc()
			return nil, apperr.Conflict("an application already exists or was approved for this email")
		}
		metrics.ApplicationSubmissions.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.ApplicationSubmissions.WithLabelValues("success").Inc()
	logger.Info("Mentor application submitted",
		zap.String("application_id", app.ID),
		zap.String("user_id", session.UserID))
	return app, nil
}

// StatusForEmail returns the latest application status for an email
func (s *OnboardingService) StatusForEmail(ctx context.Context, email string) (*models.ApplicationStatusResponse, error) {
	app, err := s.applications.LatestByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	resp := &models.ApplicationStatusResponse{
		Status:    app.Status,
		DecidedAt: app.DecidedAt,
	}
	if app.Status == models.ApplicationStatusRejected {
		resp.Notes = app.Notes
	}
	return resp, nil
}

// ListApplications returns the admin review queue
func (s *OnboardingService) ListApplications(ctx context.Context, q models.ApplicationListQuery) (*models.ApplicationListResponse, error) {
	if q.Status != "" && !q.Status.IsValid() {
		return nil, apperr.InvalidInput("status", "must be pending, approved or rejected")
	}
	q.Page, q.Limit = clampPaging(q.Page, q.Limit, 20, 100)

	items, total, err := s.applications.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return &models.ApplicationListResponse{
		Items: items,
		Total: total,
		Page:  q.Page,
		Pages: pageCount(total, q.Limit),
	}, nil
}

// resolveApplicant finds the account the application belongs to, preferring
// the linked account id over email correlation.
func (s *OnboardingService) resolveApplicant(ctx context.Context, app *models.MentorApplication) (*models.User, error) {
	if app.UserID != nil {
		user, err := s.users.GetByID(ctx, *app.UserID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
	}

	user, err := s.users.GetByEmail(ctx, app.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.InvalidInput("account", "no account exists for this application")
		}
		return nil, err
	}
	return user, nil
}

// normalizeSkills trims, lowercases, deduplicates and caps a skill list
func normalizeSkills(skills []string, max int) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	return out
}
