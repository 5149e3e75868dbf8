package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/pkg/apperr"
)

type chatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) ChatRepository {
	return &chatRepository{pool: pool}
}

func (r *chatRepository) Insert(ctx context.Context, msg *models.ChatMessage) error {
	start := time.Now()

	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat_messages (id, user_id, mentor_id, sender, text, read)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, msg.ID, msg.UserID, msg.MentorID, string(msg.Sender), msg.Text, msg.Read,
	).Scan(&msg.CreatedAt)
	track(ctx, "insertChatMessage", start, err)

	if err != nil {
		return apperr.Internal("failed to insert message", err)
	}
	return nil
}

func (r *chatRepository) ListBetween(ctx context.Context, userID, mentorID string) ([]models.ChatMessage, error) {
	start := time.Now()
	operation := "listChatMessages"

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, mentor_id, sender, text, read, created_at
		FROM chat_messages
		WHERE user_id = $1 AND mentor_id = $2
		ORDER BY created_at ASC
	`, userID, mentorID)
	if err != nil {
		track(ctx, operation, start, err)
		return nil, apperr.Internal("failed to list messages", err)
	}
	defer rows.Close()

	messages := make([]models.ChatMessage, 0)
	for rows.Next() {
		var m models.ChatMessage
		var sender string
		if err := rows.Scan(&m.ID, &m.UserID, &m.MentorID, &sender, &m.Text, &m.Read, &m.CreatedAt); err != nil {
			track(ctx, operation, start, err)
			return nil, apperr.Internal("failed to scan message row", err)
		}
		m.Sender = models.ChatSender(sender)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		track(ctx, operation, start, err)
		return nil, apperr.Internal("error iterating message rows", err)
	}

	track(ctx, operation, start, nil)
	return messages, nil
}

func (r *chatRepository) ListPartners(ctx context.Context, userID string) ([]models.Conversation, error) {
	start := time.Now()
	operation := "listChatPartners"

	// One row per mentor the user has a history with, newest message last seen
	rows, err := r.pool.Query(ctx, `
		SELECT m.mentor_id, u.name, u.avatar_url, last.text, last.created_at,
			COUNT(*) FILTER (WHERE m.sender = 'mentor' AND NOT m.read) AS unread
		FROM chat_messages m
		JOIN users u ON u.id = m.mentor_id
		JOIN LATERAL (
			SELECT text, created_at
			FROM chat_messages
			WHERE user_id = m.user_id AND mentor_id = m.mentor_id
			ORDER BY created_at DESC
			LIMIT 1
		) last ON TRUE
		WHERE m.user_id = $1
		GROUP BY m.mentor_id, u.name, u.avatar_url, last.text, last.created_at
		ORDER BY last.created_at DESC
	`, userID)
	if err != nil {
		track(ctx, operation, start, err)
		return nil, apperr.Internal("failed to list conversations", err)
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.MentorID, &c.MentorName, &c.AvatarURL, &c.LastMessage, &c.LastAt, &c.Unread); err != nil {
			track(ctx, operation, start, err)
			return nil, apperr.Internal("failed to scan conversation row", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		track(ctx, operation, start, err)
		return nil, apperr.Internal("error iterating conversation rows", err)
	}

	track(ctx, operation, start, nil)
	return conversations, nil
}

func (r *chatRepository) MarkRead(ctx context.Context, userID, mentorID string) error {
	start := time.Now()

	_, err := r.pool.Exec(ctx, `
		UPDATE chat_messages SET read = TRUE
		WHERE user_id = $1 AND mentor_id = $2 AND sender = 'mentor' AND NOT read
	`, userID, mentorID)
	track(ctx, "markChatRead", start, err)

	if err != nil {
		return apperr.Internal("failed to mark messages read", err)
	}
	return nil
}
