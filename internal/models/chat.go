package models

import "time"

type ChatSender string

const (
	ChatSenderUser   ChatSender = "user"
	ChatSenderMentor ChatSender = "mentor"
)

// ChatMessage is a single message in a user/mentor conversation
type ChatMessage struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	MentorID  string     `json:"mentorId"`
	Sender    ChatSender `json:"sender"`
	Text      string     `json:"text"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"createdAt"`
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}

// Conversation is a chat list entry for the current user
type Conversation struct {
	MentorID    string     `json:"mentorId"`
	MentorName  string     `json:"mentorName"`
	AvatarURL   string     `json:"avatarUrl"`
	LastMessage string     `json:"lastMessage,omitempty"`
	LastAt      *time.Time `json:"lastAt,omitempty"`
	Unread      int        `json:"unread"`
}
