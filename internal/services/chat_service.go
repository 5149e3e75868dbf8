package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/repository"
	"github.com/skillsync/skillsync-api/pkg/apperr"
	"github.com/skillsync/skillsync-api/pkg/logger"
	"github.com/skillsync/skillsync-api/pkg/metrics"
)

const (
	maxMessageLength = 1000

	// Mentors reply out-of-band; the canned acknowledgement keeps the thread
	// responsive in the meantime.
	mentorAutoReply = "Thanks for your message. A mentor will give detailed feedback soon."
)

// ChatService handles user/mentor conversations
type ChatService struct {
	chats    repository.ChatRepository
	users    repository.UserRepository
	profiles repository.MentorProfileRepository
}

func NewChatService(
	chats repository.ChatRepository,
	users repository.UserRepository,
	profiles repository.MentorProfileRepository,
) *ChatService {
	return &ChatService{chats: chats, users: users, profiles: profiles}
}

// Conversations lists mentors the user has chatted with. A user with no chat
// history gets a starter list of up to five approved mentors instead.
func (s *ChatService) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	conversations, err := s.chats.ListPartners(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(conversations) > 0 {
		return conversations, nil
	}

	entries, err := s.profiles.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > 5 {
		entries = entries[:5]
	}

	starters := make([]models.Conversation, 0, len(entries))
	for _, e := range entries {
		starters = append(starters, models.Conversation{
			MentorID:   e.UserID,
			MentorName: e.Name,
		})
	}
	return starters, nil
}

// Messages returns the transcript with one mentor and marks their messages read
func (s *ChatService) Messages(ctx context.Context, userID, mentorID string) ([]models.ChatMessage, error) {
	if _, err := s.requireMentor(ctx, mentorID); err != nil {
		return nil, err
	}

	messages, err := s.chats.ListBetween(ctx, userID, mentorID)
	if err != nil {
		return nil, err
	}

	if err := s.chats.MarkRead(ctx, userID, mentorID); err != nil {
		logger.Warn("Failed to mark messages read",
			zap.String("user_id", userID),
			zap.String("mentor_id", mentorID),
			zap.Error(err))
	}

	return messages, nil
}

// Send persists the user's message, truncated to the message cap, together
// with the canned mentor acknowledgement.
func (s *ChatService) Send(ctx context.Context, userID, mentorID, text string) ([]models.ChatMessage, error) {
	if text == "" {
		return nil, apperr.InvalidInput("text", "message text is required")
	}
	if len(text) > maxMessageLength {
		text = text[:maxMessageLength]
	}

	if _, err := s.requireMentor(ctx, mentorID); err != nil {
		return nil, err
	}

	userMsg := &models.ChatMessage{
		ID:       uuid.NewString(),
		UserID:   userID,
		MentorID: mentorID,
		Sender:   models.ChatSenderUser,
		Text:     text,
		Read:     true,
	}
	if err := s.chats.Insert(ctx, userMsg); err != nil {
		return nil, err
	}
	metrics.ChatMessagesSent.WithLabelValues("user").Inc()

	reply := &models.ChatMessage{
		ID:       uuid.NewString(),
		UserID:   userID,
		MentorID: mentorID,
		Sender:   models.ChatSenderMentor,
		Text:     mentorAutoReply,
	}
	if err := s.chats.Insert(ctx, reply); err != nil {
		return nil, err
	}
	metrics.ChatMessagesSent.WithLabelValues("mentor").Inc()

	return []models.ChatMessage{*userMsg, *reply}, nil
}

func (s *ChatService) requireMentor(ctx context.Context, mentorID string) (*models.User, error) {
	mentor, err := s.users.GetByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("mentor")
		}
		return nil, err
	}
	if mentor.Role != models.RoleMentor {
		return nil, apperr.NotFound("mentor")
	}
	return mentor, nil
}
