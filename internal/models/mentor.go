package models

import "time"

// ApplicationStatus is the lifecycle state of a mentor application.
// Transitions are one-directional: pending -> approved or pending -> rejected.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) IsValid() bool {
	return s == ApplicationStatusPending || s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// IsDecided reports whether the application has reached a terminal state
func (s ApplicationStatus) IsDecided() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// AvailabilitySlot is a single day/time-range entry in a mentor's schedule
type AvailabilitySlot struct {
	Day  string `json:"day" binding:"required,max=10"`
	From string `json:"from" binding:"required,max=5"`
	To   string `json:"to" binding:"required,max=5"`
}

// MentorProfile holds mentor-specific extension data, owned 1:1 by a user
type MentorProfile struct {
	ID              string             `json:"id"`
	UserID          string             `json:"userId"`
	Bio             string             `json:"bio"`
	Expertise       []string           `json:"expertise"`
	YearsExperience int                `json:"yearsExperience"`
	HourlyRate      *float64           `json:"hourlyRate,omitempty"`
	Phone           string             `json:"phone"`
	RefNo           string             `json:"refNo"`
	Approved        bool               `json:"approved"`
	Availability    []AvailabilitySlot `json:"availability"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// MentorApplication tracks a candidacy to become a mentor, independent of the
// account's current role. UserID links the account that applied when one
// existed at submission time; email correlation is kept for re-apply semantics.
type MentorApplication struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	UserID          *string           `json:"userId,omitempty"`
	Expertise       []string          `json:"expertise"`
	Bio             string            `json:"bio"`
	YearsExperience int               `json:"yearsExperience"`
	Phone           string            `json:"phone"`
	RefNo           string            `json:"refNo"`
	Status          ApplicationStatus `json:"status"`
	DecidedAt       *time.Time        `json:"decidedAt,omitempty"`
	DecidedBy       *string           `json:"decidedBy,omitempty"`
	Notes           string            `json:"notes"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type SubmitApplicationRequest struct {
	Expertise       []string `json:"expertise" binding:"required,min=1,max=20,dive,max=50"`
	Bio             string   `json:"bio" binding:"required,max=5000"`
	YearsExperience int      `json:"yearsExperience" binding:"min=0,max=60"`
	Phone           string   `json:"phone" binding:"required,max=30"`
	RefNo           string   `json:"refNo" binding:"required,max=50"`
}

type ApproveApplicationRequest struct {
	Password string `json:"password" binding:"required"`
}

type RejectApplicationRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

type CreateMentorRequest struct {
	Name            string             `json:"name" binding:"required,max=100"`
	Email           string             `json:"email" binding:"required,email,max=255"`
	Password        string             `json:"password" binding:"required,min=8,max=128"`
	Phone           string             `json:"phone" binding:"required,max=30"`
	RefNo           string             `json:"refNo" binding:"required,max=50"`
	Bio             string             `json:"bio" binding:"max=5000"`
	Expertise       []string           `json:"expertise" binding:"omitempty,max=20,dive,max=50"`
	YearsExperience int                `json:"yearsExperience" binding:"min=0,max=60"`
	HourlyRate      *float64           `json:"hourlyRate" binding:"omitempty,min=0"`
	Availability    []AvailabilitySlot `json:"availability" binding:"omitempty,max=21,dive"`
}

type UpdateMentorProfileRequest struct {
	Bio             *string            `json:"bio" binding:"omitempty,max=5000"`
	Expertise       []string           `json:"expertise" binding:"omitempty,max=20,dive,max=50"`
	YearsExperience *int               `json:"yearsExperience" binding:"omitempty,min=0,max=60"`
	HourlyRate      *float64           `json:"hourlyRate" binding:"omitempty,min=0"`
	Phone           *string            `json:"phone" binding:"omitempty,max=30"`
	Availability    []AvailabilitySlot `json:"availability" binding:"omitempty,max=21,dive"`
}

// ApplicationListQuery captures admin review-queue filters
type ApplicationListQuery struct {
	Status ApplicationStatus
	Page   int
	Limit  int
}

type ApplicationListResponse struct {
	Items []MentorApplication `json:"items"`
	Total int                 `json:"total"`
	Page  int                 `json:"page"`
	Pages int                 `json:"pages"`
}

type ApplicationStatusResponse struct {
	Status    ApplicationStatus `json:"status"`
	DecidedAt *time.Time        `json:"decidedAt,omitempty"`
	Notes     string            `json:"notes,omitempty"`
}

// MentorDirectoryEntry is the public listing shape of an approved mentor
type MentorDirectoryEntry struct {
	UserID          string             `json:"userId"`
	Name            string             `json:"name"`
	Expertise       []string           `json:"expertise"`
	Bio             string             `json:"bio"`
	YearsExperience int                `json:"yearsExperience"`
	HourlyRate      *float64           `json:"hourlyRate,omitempty"`
	Availability    []AvailabilitySlot `json:"availability"`
}

// MentorDetails pairs an account with its profile for admin views
type MentorDetails struct {
	User    UserResponse   `json:"user"`
	Profile *MentorProfile `json:"profile"`
}
