package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/pkg/apperr"
)

const applicationColumns = `id, name, email, user_id, expertise, bio, years_experience,
	phone, ref_no, status, decided_at, decided_by, notes, created_at, updated_at`

type applicationRepository struct {
	pool *pgxpool.Pool
}

func NewMentorApplicationRepository(pool *pgxpool.Pool) MentorApplicationRepository {
	return &applicationRepository{pool: pool}
}

func scanApplication(row pgx.Row) (*models.MentorApplication, error) {
	var a models.MentorApplication
	var status string
	if err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.UserID, &a.Expertise, &a.Bio, &a.YearsExperience,
		&a.Phone, &a.RefNo, &status, &a.DecidedAt, &a.DecidedBy, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Status = models.ApplicationStatus(status)
	return &a, nil
}

func (r *applicationRepository) Create(ctx context.Context, app *models.MentorApplication) error {
	start := time.Now()

	query := `
		INSERT INTO mentor_applications
			(id, name, email, user_id, expertise, bio, years_experience, phone, ref_no, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		app.ID, app.Name, app.Email, app.UserID, app.Expertise, app.Bio,
		app.YearsExperience, app.Phone, app.RefNo, string(app.Status),
	).Scan(&app.CreatedAt, &app.UpdatedAt)
	track(ctx, "createApplication", start, err)

	if err != nil {
		// The partial unique index blocks a second pending application for the
		// same email even when two submits race.
		if isUniqueViolation(err) {
			return apperr.Conflict("a pending application already exists for this email")
		}
		return apperr.Internal("failed to create application", err)
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*models.MentorApplication, error) {
	start := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM mentor_applications WHERE id = $1`, applicationColumns)
	app, err := scanApplication(r.pool.QueryRow(ctx, query, id))
	track(ctx, "getApplicationByID", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("application")
		}
		return nil, apperr.Internal("failed to load application", err)
	}
	return app, nil
}

func (r *applicationRepository) LatestByEmail(ctx context.Context, email string) (*models.MentorApplication, error) {
	start := time.Now()

	query := fmt.Sprintf(`
		SELECT %s FROM mentor_applications
		WHERE LOWER(email) = LOWER($1)
		ORDER BY created_at DESC
		LIMIT 1
	`, applicationColumns)
	app, err := scanApplication(r.pool.QueryRow(ctx, query, email))
	track(ctx, "getLatestApplicationByEmail", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("application")
		}
		return nil, apperr.Internal("failed to load application", err)
	}
	return app, nil
}

func (r *applicationRepository) HasOpenOrApproved(ctx context.Context, email string) (bool, error) {
	start := time.Now()

	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM mentor_applications
			WHERE LOWER(email) = LOWER($1) AND status IN ('pending', 'approved')
		)
	`, email).Scan(&exists)
	track(ctx, "hasOpenOrApprovedApplication", start, err)

	if err != nil {
		return false, apperr.Internal("failed to check applications", err)
	}
	return exists, nil
}

func (r *applicationRepository) List(ctx context.Context, q models.ApplicationListQuery) ([]models.MentorApplication, int, error) {
	start := time.Now()
	operation := "listApplications"

	where := ""
	args := []any{}
	if q.Status != "" {
		where = `WHERE status = $1`
		args = append(args, string(q.Status))
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM mentor_applications %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("failed to count applications", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM mentor_applications %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, applicationColumns, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("failed to list applications", err)
	}
	defer rows.Close()

	apps := make([]models.MentorApplication, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			track(ctx, operation, start, err)
			return nil, 0, apperr.Internal("failed to scan application row", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("error iterating application rows", err)
	}

	track(ctx, operation, start, nil)
	return apps, total, nil
}

func (r *applicationRepository) Reject(ctx context.Context, id, decidedBy, notes string) error {
	start := time.Now()

	// Conditional transition: only a pending application can be rejected. Zero
	// rows affected means a concurrent decision already landed.
	tag, err := r.pool.Exec(ctx, `
		UPDATE mentor_applications
		SET status = 'rejected', decided_at = NOW(), decided_by = $1, notes = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'pending'
	`, decidedBy, notes, id)
	track(ctx, "rejectApplication", start, err)

	if err != nil {
		return apperr.Internal("failed to reject application", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("application is not pending")
	}
	return nil
}
