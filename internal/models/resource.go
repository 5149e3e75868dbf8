package models

import "time"

type ResourceType string

const (
	ResourceTypeCourse  ResourceType = "course"
	ResourceTypeArticle ResourceType = "article"
	ResourceTypeVideo   ResourceType = "video"
	ResourceTypeBook    ResourceType = "book"
	ResourceTypeOther   ResourceType = "other"
)

// Resource is a learning resource entry
type Resource struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	URL       string       `json:"url"`
	Type      ResourceType `json:"type"`
	Provider  string       `json:"provider"`
	Topics    []string     `json:"topics"`
	Featured  bool         `json:"featured"`
	Rating    *float64     `json:"rating,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type CreateResourceRequest struct {
	Title    string   `json:"title" binding:"required,max=200"`
	URL      string   `json:"url" binding:"required,url,max=500"`
	Type     string   `json:"type" binding:"omitempty,oneof=course article video book other"`
	Provider string   `json:"provider" binding:"max=100"`
	Topics   []string `json:"topics" binding:"omitempty,max=30,dive,max=50"`
	Featured bool     `json:"featured"`
	Rating   *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
}

type UpdateResourceRequest struct {
	Title    *string  `json:"title" binding:"omitempty,max=200"`
	URL      *string  `json:"url" binding:"omitempty,url,max=500"`
	Type     *string  `json:"type" binding:"omitempty,oneof=course article video book other"`
	Provider *string  `json:"provider" binding:"omitempty,max=100"`
	Topics   []string `json:"topics" binding:"omitempty,max=30,dive,max=50"`
	Featured *bool    `json:"featured"`
	Rating   *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
}

type ResourceListQuery struct {
	Query string
	Type  ResourceType
	Page  int
	Limit int
}

type ResourceListResponse struct {
	Items []Resource `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Pages int        `json:"pages"`
}
