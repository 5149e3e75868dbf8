package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skillsync/skillsync-api/pkg/logger"
	"github.com/skillsync/skillsync-api/pkg/metrics"
)

// track records metrics and a debug log line for a finished database operation
func track(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		status = "not_found"
	case err != nil:
		status = "error"
	}

	duration := metrics.MeasureDuration(start)
	metrics.DBOperationDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBOperationTotal.WithLabelValues(operation, status).Inc()
	logger.LogDBCall(ctx, operation, status, duration)
}

// isUniqueViolation reports whether err is a Postgres unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
