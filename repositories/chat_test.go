package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amanecerai/server/apperror"
	"github.com/amanecerai/server/models"
	"github.com/stretchr/testify/assert"
)

func TestChatMessagesOldestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "role", "content", "created_at"}).
		AddRow("1", "model", "Hola Ana.", "2024-03-01T08:00:00Z").
		AddRow("2", "user", "Hola, ¿cómo estás?", "2024-03-01T08:01:00Z")

	mock.ExpectQuery("SELECT id, role, content, created_at FROM chat_messages WHERE user_id").
		WithArgs("user-1").
		WillReturnRows(rows)

	repo := NewChatRepository(db)
	messages, err := repo.Messages(context.Background(), "user-1")

	assert.Nil(t, err)
	assert.Len(t, messages, 2)
	assert.Equal(t, models.ChatRoleModel, messages[0].Role)
	assert.Equal(t, models.ChatRoleUser, messages[1].Role)
	assert.Equal(t, "user-1", messages[0].UserID)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestChatMessagesWrapsBackendError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, role, content, created_at FROM chat_messages WHERE user_id").
		WithArgs("user-1").
		WillReturnError(errors.New("connection reset"))

	repo := NewChatRepository(db)
	messages, err := repo.Messages(context.Background(), "user-1")

	assert.Nil(t, messages)
	var repoErr *apperror.RepositoryError
	assert.True(t, errors.As(err, &repoErr))
	assert.Contains(t, repoErr.Message, "failed to fetch chat messages")
}

func TestAppendChatMessage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("9", "2024-03-01T08:02:00Z")

	mock.ExpectQuery("INSERT INTO chat_messages").
		WithArgs("user-1", "user", "Hoy me costó levantarme.").
		WillReturnRows(rows)

	repo := NewChatRepository(db)
	msg, err := repo.AppendMessage(context.Background(), "user-1", models.ChatRoleUser, "Hoy me costó levantarme.")

	assert.Nil(t, err)
	assert.Equal(t, "9", msg.ID)
	assert.Equal(t, "2024-03-01T08:02:00Z", msg.CreatedAt)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestAppendChatMessageRejectsUnknownRole(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewChatRepository(db)
	msg, err := repo.AppendMessage(context.Background(), "user-1", "system", "nope")

	assert.Nil(t, msg)
	var verr *apperror.ValidationError
	assert.True(t, errors.As(err, &verr))
}
