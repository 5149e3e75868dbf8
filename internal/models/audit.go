package models

import "time"

// Audit event types recorded on privileged mutations
const (
	AuditMentorApproved  = "mentor_approved"
	AuditMentorRejected  = "mentor_rejected"
	AuditMentorCreated   = "mentor_created"
	AuditMentorRemoved   = "mentor_removed"
	AuditUserRoleChanged = "user_role_changed"
	AuditUserSuspended   = "user_suspended"
	AuditUserDeleted     = "user_deleted"
	AuditJobMutated      = "job_mutated"
	AuditResourceMutated = "resource_mutated"
	AuditAdminBootstrap  = "admin_bootstrap"
)

// AuditLog is an append-only record of a privileged action
type AuditLog struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	ActorID   *string        `json:"actorId,omitempty"`
	Meta      map[string]any `json:"meta"`
	CreatedAt time.Time      `json:"createdAt"`
}

type AuditListQuery struct {
	Type  string
	Page  int
	Limit int
}

type AuditListResponse struct {
	Items []AuditLog `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Pages int        `json:"pages"`
}
