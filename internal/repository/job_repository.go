package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/pkg/apperr"
)

const jobColumns = `id, title, company, location, type, description, skills,
	featured, active, posted_at, created_at, updated_at`

type jobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	var jobType string
	if err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Location, &jobType, &j.Description,
		&j.Skills, &j.Featured, &j.Active, &j.PostedAt, &j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return nil, err
	}
	j.Type = models.JobType(jobType)
	return &j, nil
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	start := time.Now()

	err := r.pool.QueryRow(ctx, `
		INSERT INTO jobs (id, title, company, location, type, description, skills, featured, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING posted_at, created_at, updated_at
	`, job.ID, job.Title, job.Company, job.Location, string(job.Type), job.Description,
		job.Skills, job.Featured, job.Active,
	).Scan(&job.PostedAt, &job.CreatedAt, &job.UpdatedAt)
	track(ctx, "createJob", start, err)

	if err != nil {
		return apperr.Internal("failed to create job", err)
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	start := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1`, jobColumns)
	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	track(ctx, "getJobByID", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("job")
		}
		return nil, apperr.Internal("failed to load job", err)
	}
	return job, nil
}

func (r *jobRepository) List(ctx context.Context, q models.JobListQuery) ([]models.Job, int, error) {
	start := time.Now()
	operation := "listJobs"

	conditions := []string{}
	args := []any{}
	if q.Query != "" {
		args = append(args, "%"+q.Query+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if q.Type != "" {
		args = append(args, string(q.Type))
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM jobs %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("failed to count jobs", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM jobs %s
		ORDER BY featured DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, jobColumns, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("failed to list jobs", err)
	}
	defer rows.Close()

	jobs := make([]models.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			track(ctx, operation, start, err)
			return nil, 0, apperr.Internal("failed to scan job row", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("error iterating job rows", err)
	}

	track(ctx, operation, start, nil)
	return jobs, total, nil
}

func (r *jobRepository) Update(ctx context.Context, id string, req *models.UpdateJobRequest) (*models.Job, error) {
	start := time.Now()

	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)
	idx := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Company != nil {
		add("company", *req.Company)
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.Type != nil {
		add("type", *req.Type)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Skills != nil {
		add("skills", req.Skills)
	}
	if req.Featured != nil {
		add("featured", *req.Featured)
	}
	if req.Active != nil {
		add("active", *req.Active)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`
		UPDATE jobs SET %s WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), idx, jobColumns)
	args = append(args, id)

	job, err := scanJob(r.pool.QueryRow(ctx, query, args...))
	track(ctx, "updateJob", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("job")
		}
		return nil, apperr.Internal("failed to update job", err)
	}
	return job, nil
}

func (r *jobRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	track(ctx, "deleteJob", start, err)

	if err != nil {
		return apperr.Internal("failed to delete job", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("job")
	}
	return nil
}

func (r *jobRepository) Count(ctx context.Context) (int, error) {
	start := time.Now()

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total)
	track(ctx, "countJobs", start, err)

	if err != nil {
		return 0, apperr.Internal("failed to count jobs", err)
	}
	return total, nil
}
