package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/pkg/apperr"
)

type onboardingRepository struct {
	pool *pgxpool.Pool
}

func NewOnboardingRepository(pool *pgxpool.Pool) OnboardingRepository {
	return &onboardingRepository{pool: pool}
}

// ApproveApplication performs the three approval writes in one transaction:
// promote the account, upsert the mentor profile, finalize the application.
// The application update is conditional on status still being pending; when a
// concurrent decision won, the whole transaction rolls back.
func (r *onboardingRepository) ApproveApplication(ctx context.Context, p ApproveParams) error {
	start := time.Now()
	operation := "approveApplication"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Overwriting password_hash invalidates whatever password the account had
	// before approval.
	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET role = 'mentor', password_hash = $1, updated_at = NOW()
		WHERE id = $2
	`, p.PasswordHash, p.UserID)
	if err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to promote account", err)
	}
	if tag.RowsAffected() == 0 {
		track(ctx, operation, start, nil)
		return apperr.InvalidInput("account", "no account exists for this application")
	}

	availability, err := json.Marshal([]models.AvailabilitySlot{})
	if err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to encode availability", err)
	}

	app := p.Application
	_, err = tx.Exec(ctx, `
		INSERT INTO mentor_profiles
			(id, user_id, bio, expertise, years_experience, phone, ref_no, approved, availability)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8)
		ON CONFLICT (user_id) DO UPDATE
		SET approved = TRUE, updated_at = NOW()
	`, uuid.NewString(), p.UserID, app.Bio, app.Expertise, app.YearsExperience,
		app.Phone, app.RefNo, availability)
	if err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to upsert mentor profile", err)
	}

	tag, err = tx.Exec(ctx, `
		UPDATE mentor_applications
		SET status = 'approved', decided_at = NOW(), decided_by = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
	`, p.DecidedBy, app.ID)
	if err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to finalize application", err)
	}
	if tag.RowsAffected() == 0 {
		track(ctx, operation, start, nil)
		return apperr.Conflict("application is not pending")
	}

	if err := tx.Commit(ctx); err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to commit approval", err)
	}

	track(ctx, operation, start, nil)
	return nil
}

// CreateMentor creates a mentor account and its approved profile atomically
func (r *onboardingRepository) CreateMentor(ctx context.Context, user *models.User, profile *models.MentorProfile) error {
	start := time.Now()
	operation := "createMentor"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	err = tx.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, skills, goal, avatar_url)
		VALUES ($1, $2, $3, $4, 'mentor', $5, $6, $7)
		RETURNING created_at, updated_at
	`, user.ID, user.Name, user.Email, user.PasswordHash,
		user.Skills, user.Goal, user.AvatarURL,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		track(ctx, operation, start, err)
		if isUniqueViolation(err) {
			return apperr.Conflict("email already registered")
		}
		return apperr.Internal("failed to create mentor account", err)
	}

	availability, err := json.Marshal(profile.Availability)
	if err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to encode availability", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO mentor_profiles
			(id, user_id, bio, expertise, years_experience, hourly_rate, phone, ref_no, approved, availability)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9)
		RETURNING created_at, updated_at
	`, profile.ID, user.ID, profile.Bio, profile.Expertise, profile.YearsExperience,
		profile.HourlyRate, profile.Phone, profile.RefNo, availability,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to create mentor profile", err)
	}

	if err := tx.Commit(ctx); err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to commit mentor creation", err)
	}

	user.Role = models.RoleMentor
	profile.UserID = user.ID
	profile.Approved = true

	track(ctx, operation, start, nil)
	return nil
}

// RemoveMentor deletes the profile and demotes the account in one transaction.
// Application history is left untouched.
func (r *onboardingRepository) RemoveMentor(ctx context.Context, userID string) error {
	start := time.Now()
	operation := "removeMentor"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `DELETE FROM mentor_profiles WHERE user_id = $1`, userID)
	if err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to delete mentor profile", err)
	}
	if tag.RowsAffected() == 0 {
		track(ctx, operation, start, nil)
		return apperr.NotFound("mentor profile")
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET role = 'user', updated_at = NOW()
		WHERE id = $1 AND role = 'mentor'
	`, userID)
	if err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to demote account", err)
	}

	if err := tx.Commit(ctx); err != nil {
		track(ctx, operation, start, err)
		return apperr.Internal("failed to commit mentor removal", err)
	}

	track(ctx, operation, start, nil)
	return nil
}
