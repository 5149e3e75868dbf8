package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/pkg/apperr"
)

type auditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Insert(ctx context.Context, entry *models.AuditLog) error {
	start := time.Now()

	meta := entry.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		return apperr.Internal("failed to encode audit meta", err)
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO audit_logs (id, type, message, actor_id, meta)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, entry.ID, entry.Type, entry.Message, entry.ActorID, encoded).Scan(&entry.CreatedAt)
	track(ctx, "insertAuditLog", start, err)

	if err != nil {
		return apperr.Internal("failed to insert audit log", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, q models.AuditListQuery) ([]models.AuditLog, int, error) {
	start := time.Now()
	operation := "listAuditLogs"

	where := ""
	args := []any{}
	if q.Type != "" {
		where = `WHERE type = $1`
		args = append(args, q.Type)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM audit_logs %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("failed to count audit logs", err)
	}

	query := fmt.Sprintf(`
		SELECT id, type, message, actor_id, meta, created_at
		FROM audit_logs %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("failed to list audit logs", err)
	}
	defer rows.Close()

	entries := make([]models.AuditLog, 0)
	for rows.Next() {
		var e models.AuditLog
		var meta []byte
		if err := rows.Scan(&e.ID, &e.Type, &e.Message, &e.ActorID, &meta, &e.CreatedAt); err != nil {
			track(ctx, operation, start, err)
			return nil, 0, apperr.Internal("failed to scan audit row", err)
		}
		if err := json.Unmarshal(meta, &e.Meta); err != nil {
			track(ctx, operation, start, err)
			return nil, 0, apperr.Internal("failed to decode audit meta", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("error iterating audit rows", err)
	}

	track(ctx, operation, start, nil)
	return entries, total, nil
}
