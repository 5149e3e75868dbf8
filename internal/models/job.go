package models

import "time"

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeRemote     JobType = "remote"
)

// Job is a posted job listing
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Type        JobType   `json:"type"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills"`
	Featured    bool      `json:"featured"`
	Active      bool      `json:"active"`
	PostedAt    time.Time `json:"postedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateJobRequest struct {
	Title       string   `json:"title" binding:"required,max=150"`
	Company     string   `json:"company" binding:"required,max=100"`
	Location    string   `json:"location" binding:"max=100"`
	Type        string   `json:"type" binding:"omitempty,oneof=full-time part-time contract internship remote"`
	Description string   `json:"description" binding:"max=10000"`
	Skills      []string `json:"skills" binding:"omitempty,max=30,dive,max=50"`
	Featured    bool     `json:"featured"`
}

type UpdateJobRequest struct {
	Title       *string  `json:"title" binding:"omitempty,max=150"`
	Company     *string  `json:"company" binding:"omitempty,max=100"`
	Location    *string  `json:"location" binding:"omitempty,max=100"`
	Type        *string  `json:"type" binding:"omitempty,oneof=full-time part-time contract internship remote"`
	Description *string  `json:"description" binding:"omitempty,max=10000"`
	Skills      []string `json:"skills" binding:"omitempty,max=30,dive,max=50"`
	Featured    *bool    `json:"featured"`
	Active      *bool    `json:"active"`
}

// JobListQuery captures listing filters. Query matches against the title.
type JobListQuery struct {
	Query string
	Type  JobType
	Page  int
	Limit int
}

type JobListResponse struct {
	Items []Job `json:"items"`
	Total int   `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}
