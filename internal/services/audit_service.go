package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/repository"
	"github.com/skillsync/skillsync-api/pkg/logger"
)

// AuditService records privileged actions. Recording is fire-and-forget so a
// failing audit store never fails the primary operation.
type AuditService struct {
	repo repository.AuditLogRepository
}

func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record appends an audit entry in the background
func (s *AuditService) Record(auditType, message, actorID string, meta map[string]any) {
	entry := &models.AuditLog{
		ID:      uuid.NewString(),
		Type:    auditType,
		Message: message,
		Meta:    meta,
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.Insert(ctx, entry); err != nil {
			logger.Warn("Failed to record audit entry",
				zap.String("type", auditType),
				zap.Error(err))
		}
	}()
}

// List returns audit entries for the admin log view
func (s *AuditService) List(ctx context.Context, q models.AuditListQuery) (*models.AuditListResponse, error) {
	q.Page, q.Limit = clampPaging(q.Page, q.Limit, 20, 200)

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return &models.AuditListResponse{
		Items: items,
		Total: total,
		Page:  q.Page,
		Pages: pageCount(total, q.Limit),
	}, nil
}
