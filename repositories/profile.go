package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/amanecerai/server/apperror"
	"github.com/amanecerai/server/db"
	"github.com/amanecerai/server/models"
)

// ProfileRepository stores per-user profile rows keyed by the auth
// provider's user id.
type ProfileRepository interface {
	// ProfileByID returns the profile, or (nil, nil) when no row exists so
	// the caller can run the default-profile fallback.
	ProfileByID(ctx context.Context, userID string) (*models.Profile, error)

	CreateDefaultProfile(ctx context.Context, userID, name string) error

	UpdateFocus(ctx context.Context, userID string, focus models.Focus) error
	UpdateName(ctx context.Context, userID, name string) error
	UpdatePhotoURL(ctx context.Context, userID, photoURL string) (string, error)
	UpdatePremium(ctx context.Context, userID string, isPremium bool) (bool, error)
	UpdateNotificationPreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error

	UpdatePushSubscription(ctx context.Context, userID string, subscription json.RawMessage) error
	PushSubscription(ctx context.Context, userID string) (json.RawMessage, error)
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(database *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: database}
}

func (r *postgresProfileRepository) ProfileByID(ctx context.Context, userID string) (*models.Profile, error) {
	res := db.LogAndQueryRow(ctx, r.db, "SELECT name, focus, photo_url, is_premium, notification_tone, notification_length FROM profiles WHERE id = $1", userID)

	var (
		name, focus, photoURL, tone, length sql.NullString
		isPremium                           sql.NullBool
	)
	err := res.Scan(&name, &focus, &photoURL, &isPremium, &tone, &length)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewRepositoryError(backendCode(err), "failed to fetch profile: %v", err)
	}

	profile := &models.Profile{IsPremium: isPremium.Bool}
	if name.Valid {
		profile.Name = &name.String
	}
	if focus.Valid {
		f := models.Focus(focus.String)
		profile.Focus = &f
	}
	if photoURL.Valid {
		profile.PhotoURL = &photoURL.String
	}
	if tone.Valid && length.Valid {
		profile.NotificationPreferences = &models.NotificationPreferences{
			Tone:   models.NotificationTone(tone.String),
			Length: models.NotificationLength(length.String),
		}
	}

	return profile, nil
}

func (r *postgresProfileRepository) CreateDefaultProfile(ctx context.Context, userID, name string) error {
	if _, err := db.LogAndExec(ctx, r.db, "INSERT INTO profiles (id, name) VALUES ($1, $2)", userID, name); err != nil {
		return apperror.NewProfileError(backendCode(err), "failed to create profile: %v", err)
	}
	return nil
}

func (r *postgresProfileRepository) UpdateFocus(ctx context.Context, userID string, focus models.Focus) error {
	if _, err := db.LogAndExec(ctx, r.db, "UPDATE profiles SET focus = $1, updated_at = now() WHERE id = $2", string(focus), userID); err != nil {
		return apperror.NewProfileError(backendCode(err), "failed to update focus: %v", err)
	}
	return nil
}

func (r *postgresProfileRepository) UpdateName(ctx context.Context, userID, name string) error {
	if _, err := db.LogAndExec(ctx, r.db, "UPDATE profiles SET name = $1, updated_at = now() WHERE id = $2", name, userID); err != nil {
		return apperror.NewProfileError(backendCode(err), "failed to update name: %v", err)
	}
	return nil
}

func (r *postgresProfileRepository) UpdatePhotoURL(ctx context.Context, userID, photoURL string) (string, error) {
	res := db.LogAndQueryRow(ctx, r.db, "UPDATE profiles SET photo_url = $1, updated_at = now() WHERE id = $2 RETURNING photo_url", photoURL, userID)

	var updated string
	if err := res.Scan(&updated); err != nil {
		return "", apperror.NewProfileError(backendCode(err), "failed to update profile picture: %v", err)
	}
	return updated, nil
}

func (r *postgresProfileRepository) UpdatePremium(ctx context.Context, userID string, isPremium bool) (bool, error) {
	res := db.LogAndQueryRow(ctx, r.db, "UPDATE profiles SET is_premium = $1, updated_at = now() WHERE id = $2 RETURNING is_premium", isPremium, userID)

	var updated bool
	if err := res.Scan(&updated); err != nil {
		return false, apperror.NewProfileError(backendCode(err), "failed to update premium status: %v", err)
	}
	return updated, nil
}

func (r *postgresProfileRepository) UpdateNotificationPreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error {
	if _, err := db.LogAndExec(ctx, r.db, "UPDATE profiles SET notification_tone = $1, notification_length = $2, updated_at = now() WHERE id = $3", string(prefs.Tone), string(prefs.Length), userID); err != nil {
		return apperror.NewProfileError(backendCode(err), "failed to update notification preferences: %v", err)
	}
	return nil
}

func (r *postgresProfileRepository) UpdatePushSubscription(ctx context.Context, userID string, subscription json.RawMessage) error {
	var value interface{}
	if len(subscription) > 0 {
		value = string(subscription)
	}
	if _, err := db.LogAndExec(ctx, r.db, "UPDATE profiles SET push_subscription = $1, updated_at = now() WHERE id = $2", value, userID); err != nil {
		return apperror.NewProfileError(backendCode(err), "failed to update push subscription: %v", err)
	}
	return nil
}

func (r *postgresProfileRepository) PushSubscription(ctx context.Context, userID string) (json.RawMessage, error) {
	res := db.LogAndQueryRow(ctx, r.db, "SELECT push_subscription FROM profiles WHERE id = $1", userID)

	var raw sql.NullString
	err := res.Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewRepositoryError(backendCode(err), "failed to fetch push subscription: %v", err)
	}
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}

	return json.RawMessage(raw.String), nil
}
