package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/repository"
	"github.com/skillsync/skillsync-api/pkg/apperr"
	"github.com/skillsync/skillsync-api/pkg/logger"
	"github.com/skillsync/skillsync-api/pkg/storage"
)

const (
	maxNameLength = 80
	maxGoalLength = 160
	maxSkills     = 50
)

// ProfileService handles a user's own profile and avatar
type ProfileService struct {
	users   repository.UserRepository
	storage storage.ClientInterface
}

// NewProfileService creates the profile service. The storage client may be
// nil, in which case avatar upload is reported as unavailable.
func NewProfileService(users repository.UserRepository, storageClient storage.ClientInterface) *ProfileService {
	return &ProfileService{users: users, storage: storageClient}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Update applies the user's own profile edits, clamping free-text fields
func (s *ProfileService) Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.InvalidInput("name", "cannot be blank")
		}
		name = truncate(name, maxNameLength)
		req.Name = &name
	}
	if req.Goal != nil {
		goal := truncate(strings.TrimSpace(*req.Goal), maxGoalLength)
		req.Goal = &goal
	}
	if req.Skills != nil {
		req.Skills = normalizeSkills(req.Skills, maxSkills)
	}
	if req.AvatarURL != nil {
		url := strings.TrimSpace(*req.AvatarURL)
		req.AvatarURL = &url
	}

	return s.users.UpdateProfile(ctx, userID, req)
}

// UploadAvatar stores the avatar image and records its public URL
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, req *models.UploadAvatarRequest) (string, error) {
	if s.storage == nil {
		return "", apperr.Internal("avatar storage is not configured", nil)
	}

	if err := s.storage.ValidateImageType(req.ContentType); err != nil {
		return "", apperr.InvalidInput("contentType", err.Error())
	}
	if err := s.storage.ValidateImageSize(req.ImageData); err != nil {
		return "", apperr.InvalidInput("imageData", err.Error())
	}

	ext := path.Ext(req.FileName)
	key := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), ext)

	url, err := s.storage.UploadImage(ctx, req.ImageData, key, req.ContentType)
	if err != nil {
		return "", apperr.Internal("failed to upload avatar", err)
	}

	if err := s.users.SetAvatarURL(ctx, userID, url); err != nil {
		return "", err
	}

	logger.Info("Avatar updated",
		zap.String("user_id", userID),
		zap.String("key", key))
	return url, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
