package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillsync/skillsync-api/internal/cache"
	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/repository"
	"github.com/skillsync/skillsync-api/pkg/apperr"
	"github.com/skillsync/skillsync-api/pkg/logger"
)

// MentorAdminService covers the admin shortcuts around the application flow
// (direct creation and removal) plus mentor listing and the public directory.
type MentorAdminService struct {
	users      repository.UserRepository
	profiles   repository.MentorProfileRepository
	onboarding repository.OnboardingRepository
	audit      *AuditService
	directory  *cache.MentorDirectoryCache
}

func NewMentorAdminService(
	users repository.UserRepository,
	profiles repository.MentorProfileRepository,
	onboarding repository.OnboardingRepository,
	audit *AuditService,
	directory *cache.MentorDirectoryCache,
) *MentorAdminService {
	return &MentorAdminService{
		users:      users,
		profiles:   profiles,
		onboarding: onboarding,
		audit:      audit,
		directory:  directory,
	}
}

// CreateMentor creates a ready-to-go mentor account with an approved profile,
// bypassing the application flow entirely.
func (s *MentorAdminService) CreateMentor(ctx context.Context, req *models.CreateMentorRequest, adminID string) (*models.MentorDetails, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)
	refNo := strings.TrimSpace(req.RefNo)
	if name == "" || email == "" || req.Password == "" || phone == "" || refNo == "" {
		return nil, apperr.InvalidInput("mentor", "name, email, password, phone and refNo are required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.InvalidInput("password", "must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleMentor,
		Skills:       []string{},
	}
	availability := req.Availability
	if availability == nil {
		availability = []models.AvailabilitySlot{}
	}
	profile := &models.MentorProfile{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		Bio:             strings.TrimSpace(req.Bio),
		Expertise:       normalizeSkills(req.Expertise, 20),
		YearsExperience: req.YearsExperience,
		HourlyRate:      req.HourlyRate,
		Phone:           phone,
		RefNo:           refNo,
		Approved:        true,
		Availability:    availability,
	}

	if err := s.onboarding.CreateMentor(ctx, user, profile); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Conflict("email already in use")
		}
		return nil, err
	}

	s.directory.Invalidate()
	logger.Info("Mentor created directly",
		zap.String("user_id", user.ID),
		zap.String("created_by", adminID))
	s.audit.Record(models.AuditMentorCreated, "mentor created by admin", adminID,
		map[string]any{"userId": user.ID})

	return &models.MentorDetails{User: models.PublicUser(user), Profile: profile}, nil
}

// RemoveMentor deletes the profile and demotes the account to a regular user.
// Application history stays intact.
func (s *MentorAdminService) RemoveMentor(ctx context.Context, userID, adminID string) error {
	if err := s.onboarding.RemoveMentor(ctx, userID); err != nil {
		return err
	}

	s.directory.Invalidate()
	logger.Info("Mentor removed",
		zap.String("user_id", userID),
		zap.String("removed_by", adminID))
	s.audit.Record(models.AuditMentorRemoved, "mentor removed by admin", adminID,
		map[string]any{"userId": userID})
	return nil
}

// ListMentors returns every account with a mentor profile for the admin view
func (s *MentorAdminService) ListMentors(ctx context.Context) ([]models.MentorDetails, error) {
	return s.profiles.ListMentors(ctx)
}

// GetMentor returns one mentor account with its profile
func (s *MentorAdminService) GetMentor(ctx context.Context, userID string) (*models.MentorDetails, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("mentor")
		}
		return nil, err
	}

	return &models.MentorDetails{User: models.PublicUser(user), Profile: profile}, nil
}

// UpdateMentorProfile applies admin edits to a mentor profile
func (s *MentorAdminService) UpdateMentorProfile(ctx context.Context, userID string, req *models.UpdateMentorProfileRequest) (*models.MentorProfile, error) {
	if req.Expertise != nil {
		req.Expertise = normalizeSkills(req.Expertise, 20)
	}

	profile, err := s.profiles.Update(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.directory.Invalidate()
	return profile, nil
}

// Directory returns the public listing of approved mentors, served from cache
// when fresh.
func (s *MentorAdminService) Directory(ctx context.Context) ([]models.MentorDirectoryEntry, error) {
	if entries, ok := s.directory.Get(); ok {
		return entries, nil
	}

	entries, err := s.profiles.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	s.directory.Set(entries)
	return entries, nil
}
