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

const resourceColumns = `id, title, url, type, provider, topics, featured, rating,
	created_at, updated_at`

type resourceRepository struct {
	pool *pgxpool.Pool
}

func NewResourceRepository(pool *pgxpool.Pool) ResourceRepository {
	return &resourceRepository{pool: pool}
}

func scanResource(row pgx.Row) (*models.Resource, error) {
	var res models.Resource
	var resType string
	if err := row.Scan(
		&res.ID, &res.Title, &res.URL, &resType, &res.Provider, &res.Topics,
		&res.Featured, &res.Rating, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	res.Type = models.ResourceType(resType)
	return &res, nil
}

func (r *resourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	start := time.Now()

	err := r.pool.QueryRow(ctx, `
		INSERT INTO resources (id, title, url, type, provider, topics, featured, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, resource.ID, resource.Title, resource.URL, string(resource.Type),
		resource.Provider, resource.Topics, resource.Featured, resource.Rating,
	).Scan(&resource.CreatedAt, &resource.UpdatedAt)
	track(ctx, "createResource", start, err)

	if err != nil {
		return apperr.Internal("failed to create resource", err)
	}
	return nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	start := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM resources WHERE id = $1`, resourceColumns)
	resource, err := scanResource(r.pool.QueryRow(ctx, query, id))
	track(ctx, "getResourceByID", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("resource")
		}
		return nil, apperr.Internal("failed to load resource", err)
	}
	return resource, nil
}

func (r *resourceRepository) List(ctx context.Context, q models.ResourceListQuery) ([]models.Resource, int, error) {
	start := time.Now()
	operation := "listResources"

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
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM resources %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("failed to count resources", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM resources %s
		ORDER BY featured DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, resourceColumns, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("failed to list resources", err)
	}
	defer rows.Close()

	resources := make([]models.Resource, 0)
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			track(ctx, operation, start, err)
			return nil, 0, apperr.Internal("failed to scan resource row", err)
		}
		resources = append(resources, *resource)
	}
	if err := rows.Err(); err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("error iterating resource rows", err)
	}

	track(ctx, operation, start, nil)
	return resources, total, nil
}

func (r *resourceRepository) Update(ctx context.Context, id string, req *models.UpdateResourceRequest) (*models.Resource, error) {
	start := time.Now()

	sets := make([]string, 0, 7)
	args := make([]any, 0, 8)
	idx := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.URL != nil {
		add("url", *req.URL)
	}
	if req.Type != nil {
		add("type", *req.Type)
	}
	if req.Provider != nil {
		add("provider", *req.Provider)
	}
	if req.Topics != nil {
		add("topics", req.Topics)
	}
	if req.Featured != nil {
		add("featured", *req.Featured)
	}
	if req.Rating != nil {
		add("rating", *req.Rating)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`
		UPDATE resources SET %s WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), idx, resourceColumns)
	args = append(args, id)

	resource, err := scanResource(r.pool.QueryRow(ctx, query, args...))
	track(ctx, "updateResource", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("resource")
		}
		return nil, apperr.Internal("failed to update resource", err)
	}
	return resource, nil
}

func (r *resourceRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	track(ctx, "deleteResource", start, err)

	if err != nil {
		return apperr.Internal("failed to delete resource", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("resource")
	}
	return nil
}

func (r *resourceRepository) Count(ctx context.Context) (int, error) {
	start := time.Now()

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM resources`).Scan(&total)
	track(ctx, "countResources", start, err)

	if err != nil {
		return 0, apperr.Internal("failed to count resources", err)
	}
	return total, nil
}
