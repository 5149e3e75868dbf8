package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/repository"
)

// JobService manages the job board
type JobService struct {
	jobs  repository.JobRepository
	audit *AuditService
}

func NewJobService(jobs repository.JobRepository, audit *AuditService) *JobService {
	return &JobService{jobs: jobs, audit: audit}
}

func (s *JobService) List(ctx context.Context, q models.JobListQuery) (*models.JobListResponse, error) {
	q.Page, q.Limit = clampPaging(q.Page, q.Limit, 10, 100)

	items, total, err := s.jobs.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return &models.JobListResponse{
		Items: items,
		Total: total,
		Page:  q.Page,
		Pages: pageCount(total, q.Limit),
	}, nil
}

func (s *JobService) Get(ctx context.Context, id string) (*models.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

func (s *JobService) Create(ctx context.Context, req *models.CreateJobRequest, adminID string) (*models.Job, error) {
	jobType := models.JobType(req.Type)
	if jobType == "" {
		jobType = models.JobTypeFullTime
	}

	job := &models.Job{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Company:     strings.TrimSpace(req.Company),
		Location:    strings.TrimSpace(req.Location),
		Type:        jobType,
		Description: req.Description,
		Skills:      normalizeSkills(req.Skills, 30),
		Featured:    req.Featured,
		Active:      true,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	s.audit.Record(models.AuditJobMutated, "job created", adminID,
		map[string]any{"jobId": job.ID, "action": "created"})
	return job, nil
}

func (s *JobService) Update(ctx context.Context, id string, req *models.UpdateJobRequest, adminID string) (*models.Job, error) {
	if req.Skills != nil {
		req.Skills = normalizeSkills(req.Skills, 30)
	}

	job, err := s.jobs.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.audit.Record(models.AuditJobMutated, "job updated", adminID,
		map[string]any{"jobId": id, "action": "updated"})
	return job, nil
}

func (s *JobService) Delete(ctx context.Context, id, adminID string) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(models.AuditJobMutated, "job deleted", adminID,
		map[string]any{"jobId": id, "action": "deleted"})
	return nil
}
