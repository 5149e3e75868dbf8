package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/repository"
)

// ResourceService manages the learning resource catalog
type ResourceService struct {
	resources repository.ResourceRepository
	audit     *AuditService
}

func NewResourceService(resources repository.ResourceRepository, audit *AuditService) *ResourceService {
	return &ResourceService{resources: resources, audit: audit}
}

func (s *ResourceService) List(ctx context.Context, q models.ResourceListQuery) (*models.ResourceListResponse, error) {
	q.Page, q.Limit = clampPaging(q.Page, q.Limit, 10, 100)

	items, total, err := s.resources.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return &models.ResourceListResponse{
		Items: items,
		Total: total,
		Page:  q.Page,
		Pages: pageCount(total, q.Limit),
	}, nil
}

func (s *ResourceService) Get(ctx context.Context, id string) (*models.Resource, error) {
	return s.resources.GetByID(ctx, id)
}

func (s *ResourceService) Create(ctx context.Context, req *models.CreateResourceRequest, adminID string) (*models.Resource, error) {
	resType := models.ResourceType(req.Type)
	if resType == "" {
		resType = models.ResourceTypeCourse
	}

	resource := &models.Resource{
		ID:       uuid.NewString(),
		Title:    strings.TrimSpace(req.Title),
		URL:      strings.TrimSpace(req.URL),
		Type:     resType,
		Provider: strings.TrimSpace(req.Provider),
		Topics:   normalizeSkills(req.Topics, 30),
		Featured: req.Featured,
		Rating:   req.Rating,
	}
	if err := s.resources.Create(ctx, resource); err != nil {
		return nil, err
	}

	s.audit.Record(models.AuditResourceMutated, "resource created", adminID,
		map[string]any{"resourceId": resource.ID, "action": "created"})
	return resource, nil
}

func (s *ResourceService) Update(ctx context.Context, id string, req *models.UpdateResourceRequest, adminID string) (*models.Resource, error) {
	if req.Topics != nil {
		req.Topics = normalizeSkills(req.Topics, 30)
	}

	resource, err := s.resources.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.audit.Record(models.AuditResourceMutated, "resource updated", adminID,
		map[string]any{"resourceId": id, "action": "updated"})
	return resource, nil
}

func (s *ResourceService) Delete(ctx context.Context, id, adminID string) error {
	if err := s.resources.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(models.AuditResourceMutated, "resource deleted", adminID,
		map[string]any{"resourceId": id, "action": "deleted"})
	return nil
}
