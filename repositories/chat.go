package repositories

import (
	"context"
	"database/sql"

	"github.com/amanecerai/server/apperror"
	"github.com/amanecerai/server/db"
	"github.com/amanecerai/server/models"
)

// ChatRepository reads and appends a user's conversation with the assistant.
type ChatRepository interface {
	// Messages returns the full conversation, oldest first, so it can be
	// replayed to the provider as-is.
	Messages(ctx context.Context, userID string) ([]models.ChatMessage, error)

	// AppendMessage persists one turn. Turns are immutable once created.
	AppendMessage(ctx context.Context, userID string, role models.ChatRole, content string) (*models.ChatMessage, error)
}

type postgresChatRepository struct {
	db *sql.DB
}

func NewChatRepository(database *sql.DB) ChatRepository {
	return &postgresChatRepository{db: database}
}

func (r *postgresChatRepository) Messages(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	rows, err := db.LogAndQuery(ctx, r.db, "SELECT id, role, content, created_at FROM chat_messages WHERE user_id = $1 ORDER BY created_at ASC", userID)
	if err != nil {
		return nil, apperror.NewRepositoryError(backendCode(err), "failed to fetch chat messages: %v", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, apperror.NewRepositoryError(backendCode(err), "failed to scan chat message: %v", err)
		}
		msg.UserID = userID
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewRepositoryError(backendCode(err), "failed to read chat messages: %v", err)
	}

	return messages, nil
}

func (r *postgresChatRepository) AppendMessage(ctx context.Context, userID string, role models.ChatRole, content string) (*models.ChatMessage, error) {
	if !models.ValidChatRole(role) {
		return nil, &apperror.ValidationError{Message: "unknown chat role", Field: "role"}
	}

	msg := &models.ChatMessage{
		UserID:  userID,
		Role:    role,
		Content: content,
	}

	res := db.LogAndQueryRow(ctx, r.db, "INSERT INTO chat_messages (user_id, role, content) VALUES ($1, $2, $3) RETURNING id, created_at", userID, role, content)
	if err := res.Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return nil, apperror.NewRepositoryError(backendCode(err), "failed to save chat message: %v", err)
	}

	return msg, nil
}
