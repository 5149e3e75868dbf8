package repository

import (
	"context"
	"time"

	"github.com/skillsync/skillsync-api/internal/models"
)

// UserRepository persists accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	List(ctx context.Context, q models.UserListQuery) ([]models.User, int, error)
	ListAll(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role models.Role) (int, error)
	UpdateRole(ctx context.Context, id string, role models.Role) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	SetSuspended(ctx context.Context, id string, suspended bool) error
	UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.User, error)
	SetAvatarURL(ctx context.Context, id, avatarURL string) error
	Delete(ctx context.Context, id string) error
}

// MentorProfileRepository persists mentor extension data
type MentorProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.MentorProfile, error)
	ListApproved(ctx context.Context) ([]models.MentorDirectoryEntry, error)
	ListMentors(ctx context.Context) ([]models.MentorDetails, error)
	Update(ctx context.Context, userID string, req *models.UpdateMentorProfileRequest) (*models.MentorProfile, error)
	Count(ctx context.Context) (int, error)
}

// MentorApplicationRepository persists mentor candidacies
type MentorApplicationRepository interface {
	Create(ctx context.Context, app *models.MentorApplication) error
	GetByID(ctx context.Context, id string) (*models.MentorApplication, error)
	LatestByEmail(ctx context.Context, email string) (*models.MentorApplication, error)
	HasOpenOrApproved(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, q models.ApplicationListQuery) ([]models.MentorApplication, int, error)
	Reject(ctx context.Context, id, decidedBy, notes string) error
}

// ApproveParams carries everything the approval transaction writes
type ApproveParams struct {
	Application  *models.MentorApplication
	UserID       string
	PasswordHash string
	DecidedBy    string
}

// OnboardingRepository owns the multi-table writes of mentor lifecycle changes.
// Each method runs in a single transaction.
type OnboardingRepository interface {
	ApproveApplication(ctx context.Context, p ApproveParams) error
	CreateMentor(ctx context.Context, user *models.User, profile *models.MentorProfile) error
	RemoveMentor(ctx context.Context, userID string) error
}

// AuditLogRepository appends and lists audit entries
type AuditLogRepository interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, q models.AuditListQuery) ([]models.AuditLog, int, error)
}

// JobRepository persists job listings
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context, q models.JobListQuery) ([]models.Job, int, error)
	Update(ctx context.Context, id string, req *models.UpdateJobRequest) (*models.Job, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ResourceRepository persists learning resources
type ResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	List(ctx context.Context, q models.ResourceListQuery) ([]models.Resource, int, error)
	Update(ctx context.Context, id string, req *models.UpdateResourceRequest) (*models.Resource, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ChatRepository persists user/mentor conversations
type ChatRepository interface {
	Insert(ctx context.Context, msg *models.ChatMessage) error
	ListBetween(ctx context.Context, userID, mentorID string) ([]models.ChatMessage, error)
	ListPartners(ctx context.Context, userID string) ([]models.Conversation, error)
	MarkRead(ctx context.Context, userID, mentorID string) error
}
