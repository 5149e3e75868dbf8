package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/services"
	"github.com/skillsync/skillsync-api/pkg/apperr"
)

func newChatFixture() (*services.ChatService, *MockChatRepository, *MockUserRepository, *MockMentorProfileRepository) {
	chats := new(MockChatRepository)
	users := new(MockUserRepository)
	profiles := new(MockMentorProfileRepository)
	return services.NewChatService(chats, users, profiles), chats, users, profiles
}

func TestChatService_Send(t *testing.T) {
	svc, chats, users, _ := newChatFixture()
	ctx := context.Background()

	mentor := &models.User{ID: "mentor-1", Role: models.RoleMentor}
	users.On("GetByID", ctx, "mentor-1").Return(mentor, nil).Once()
	chats.On("Insert", ctx, mock.MatchedBy(func(m *models.ChatMessage) bool {
		return m.Sender == models.ChatSenderUser && m.Text == "hello" && m.Read
	})).Return(nil).Once()
	chats.On("Insert", ctx, mock.MatchedBy(func(m *models.ChatMessage) bool {
		return m.Sender == models.ChatSenderMentor && !m.Read
	})).Return(nil).Once()

	messages, err := svc.Send(ctx, "user-1", "mentor-1", "hello")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Text)
	assert.Equal(t, "Thanks for your message. A mentor will give detailed feedback soon.", messages[1].Text)

	chats.AssertExpectations(t)
}

func TestChatService_Send_TruncatesLongMessage(t *testing.T) {
	svc, chats, users, _ := newChatFixture()
	ctx := context.Background()

	mentor := &models.User{ID: "mentor-1", Role: models.RoleMentor}
	users.On("GetByID", ctx, "mentor-1").Return(mentor, nil).Once()
	chats.On("Insert", ctx, mock.Anything).Return(nil).Twice()

	messages, err := svc.Send(ctx, "user-1", "mentor-1", strings.Repeat("x", 1500))
	require.NoError(t, err)
	assert.Len(t, messages[0].Text, 1000)
}

func TestChatService_Send_EmptyText(t *testing.T) {
	svc, chats, _, _ := newChatFixture()

	messages, err := svc.Send(context.Background(), "user-1", "mentor-1", "")
	assert.Nil(t, messages)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	chats.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestChatService_Send_RecipientMustBeMentor(t *testing.T) {
	svc, chats, users, _ := newChatFixture()
	ctx := context.Background()

	regular := &models.User{ID: "user-2", Role: models.RoleUser}
	users.On("GetByID", ctx, "user-2").Return(regular, nil).Once()

	messages, err := svc.Send(ctx, "user-1", "user-2", "hello")
	assert.Nil(t, messages)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	chats.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestChatService_Messages_MarksRead(t *testing.T) {
	svc, chats, users, _ := newChatFixture()
	ctx := context.Background()

	mentor := &models.User{ID: "mentor-1", Role: models.RoleMentor}
	transcript := []models.ChatMessage{
		{ID: "m1", Sender: models.ChatSenderUser, Text: "hi"},
		{ID: "m2", Sender: models.ChatSenderMentor, Text: "hello"},
	}

	users.On("GetByID", ctx, "mentor-1").Return(mentor, nil).Once()
	chats.On("ListBetween", ctx, "user-1", "mentor-1").Return(transcript, nil).Once()
	chats.On("MarkRead", ctx, "user-1", "mentor-1").Return(nil).Once()

	messages, err := svc.Messages(ctx, "user-1", "mentor-1")
	require.NoError(t, err)
	assert.Equal(t, transcript, messages)
	chats.AssertExpectations(t)
}

func TestChatService_Messages_MarkReadFailureIsNotFatal(t *testing.T) {
	svc, chats, users, _ := newChatFixture()
	ctx := context.Background()

	mentor := &models.User{ID: "mentor-1", Role: models.RoleMentor}
	users.On("GetByID", ctx, "mentor-1").Return(mentor, nil).Once()
	chats.On("ListBetween", ctx, "user-1", "mentor-1").Return([]models.ChatMessage{}, nil).Once()
	chats.On("MarkRead", ctx, "user-1", "mentor-1").Return(apperr.Internal("db down", nil)).Once()

	messages, err := svc.Messages(ctx, "user-1", "mentor-1")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestChatService_Conversations(t *testing.T) {
	svc, chats, _, _ := newChatFixture()
	ctx := context.Background()

	existing := []models.Conversation{{MentorID: "mentor-1", MentorName: "Sam", Unread: 2}}
	chats.On("ListPartners", ctx, "user-1").Return(existing, nil).Once()

	conversations, err := svc.Conversations(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, existing, conversations)
}

func TestChatService_Conversations_StartersWhenEmpty(t *testing.T) {
	svc, chats, _, profiles := newChatFixture()
	ctx := context.Background()

	chats.On("ListPartners", ctx, "user-1").Return([]models.Conversation{}, nil).Once()

	entries := make([]models.MentorDirectoryEntry, 0, 7)
	for _, id := range []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7"} {
		entries = append(entries, models.MentorDirectoryEntry{UserID: id, Name: "Mentor " + id})
	}
	profiles.On("ListApproved", ctx).Return(entries, nil).Once()

	conversations, err := svc.Conversations(ctx, "user-1")
	require.NoError(t, err)

	// Starter list caps at five approved mentors
	require.Len(t, conversations, 5)
	assert.Equal(t, "m1", conversations[0].MentorID)
	assert.Zero(t, conversations[0].Unread)
}
