package models

import "time"

// Role defines the access level of an account. The role field on the account
// is the single authority for access control.
type Role string

const (
	RoleUser   Role = "user"
	RoleMentor Role = "mentor"
	RoleAdmin  Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleMentor || r == RoleAdmin
}

// User represents a registered account
type User struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	Role                Role       `json:"role"`
	Suspended           bool       `json:"suspended"`
	ChosenMentorID      *string    `json:"chosenMentorId,omitempty"`
	Skills              []string   `json:"skills"`
	Goal                string     `json:"goal"`
	AvatarURL           string     `json:"avatarUrl"`
	ResetToken          *string    `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// Session represents an authenticated web session resolved from the cookie
type Session struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
}

func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role" binding:"omitempty,oneof=user mentor admin"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type UpdateProfileRequest struct {
	Name      *string  `json:"name" binding:"omitempty,max=80"`
	Goal      *string  `json:"goal" binding:"omitempty,max=160"`
	Skills    []string `json:"skills" binding:"omitempty,max=50,dive,max=50"`
	AvatarURL *string  `json:"avatarUrl" binding:"omitempty,url,max=500"`
}

type UploadAvatarRequest struct {
	ImageData   string `json:"imageData" binding:"required"`
	FileName    string `json:"fileName" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required,max=100"`
}

// UserResponse is the public shape of a user, never exposing credentials
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Suspended bool      `json:"suspended"`
	Skills    []string  `json:"skills"`
	Goal      string    `json:"goal"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicUser converts a user to its public response shape
func PublicUser(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Suspended: u.Suspended,
		Skills:    u.Skills,
		Goal:      u.Goal,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user mentor admin"`
}

type SuspendUserRequest struct {
	Suspended *bool `json:"suspended" binding:"required"`
}

// UserListQuery captures admin list filters
type UserListQuery struct {
	Query string
	Page  int
	Limit int
}

type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
}

// AdminStats is the admin dashboard summary
type AdminStats struct {
	TotalUsers     int `json:"totalUsers"`
	TotalJobs      int `json:"totalJobs"`
	TotalResources int `json:"totalResources"`
	TotalMentors   int `json:"totalMentors"`
}
