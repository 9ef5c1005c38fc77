package repositories

import (
	"context"
	"database/sql"

	"github.com/amanecerai/server/apperror"
	"github.com/amanecerai/server/db"
	"github.com/amanecerai/server/models"
	"github.com/lib/pq"
)

// DefaultHistoryLimit caps the display variant of the history query.
const DefaultHistoryLimit = 10

// MoodRepository reads and appends a user's mood log.
type MoodRepository interface {
	// MoodHistoryDates returns every log timestamp for the user, newest
	// first. Feeds the streak calculation, so completeness matters: callers
	// must not swallow its error.
	MoodHistoryDates(ctx context.Context, userID string) ([]string, error)

	// MoodHistory returns up to limit recent entries, newest first. Display
	// use only; callers may degrade to an empty list on failure.
	MoodHistory(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error)

	// LogMood appends one entry. Entries are immutable once created.
	LogMood(ctx context.Context, userID string, mood models.EmojiMood) (*models.MoodEntry, error)
}

type postgresMoodRepository struct {
	db *sql.DB
}

func NewMoodRepository(database *sql.DB) MoodRepository {
	return &postgresMoodRepository{db: database}
}

func (r *postgresMoodRepository) MoodHistoryDates(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.LogAndQuery(ctx, r.db, "SELECT created_at FROM mood_history WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, apperror.NewRepositoryError(backendCode(err), "failed to fetch mood history dates: %v", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, apperror.NewRepositoryError(backendCode(err), "failed to scan mood history date: %v", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewRepositoryError(backendCode(err), "failed to read mood history dates: %v", err)
	}

	return dates, nil
}

func (r *postgresMoodRepository) MoodHistory(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := db.LogAndQuery(ctx, r.db, "SELECT id, created_at, mood_emoji, mood_label FROM mood_history WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2", userID, limit)
	if err != nil {
		return nil, apperror.NewRepositoryError(backendCode(err), "failed to fetch mood history: %v", err)
	}
	defer rows.Close()

	var entries []models.MoodEntry
	for rows.Next() {
		var entry models.MoodEntry
		var label string
		if err := rows.Scan(&entry.ID, &entry.CreatedAt, &entry.Emoji, &label); err != nil {
			return nil, apperror.NewRepositoryError(backendCode(err), "failed to scan mood entry: %v", err)
		}
		entry.UserID = userID
		entry.LabelKey = models.MoodKeyForLabel(label)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewRepositoryError(backendCode(err), "failed to read mood history: %v", err)
	}

	return entries, nil
}

func (r *postgresMoodRepository) LogMood(ctx context.Context, userID string, mood models.EmojiMood) (*models.MoodEntry, error) {
	label, ok := models.CanonicalMoodLabel(mood.LabelKey)
	if !ok {
		return nil, &apperror.ValidationError{Message: "unknown mood label", Field: "labelKey"}
	}

	entry := &models.MoodEntry{
		UserID:   userID,
		Emoji:    mood.Emoji,
		LabelKey: mood.LabelKey,
	}

	res := db.LogAndQueryRow(ctx, r.db, "INSERT INTO mood_history (user_id, mood_emoji, mood_label) VALUES ($1, $2, $3) RETURNING id, created_at", userID, mood.Emoji, label)
	if err := res.Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return nil, apperror.NewRepositoryError(backendCode(err), "failed to save mood: %v", err)
	}

	return entry, nil
}

// backendCode extracts the Postgres error code when one is present.
func backendCode(err error) string {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code)
	}
	return ""
}
