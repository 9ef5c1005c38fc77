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

func TestProfileByIDNotFoundReturnsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT name, focus, photo_url, is_premium").
		WithArgs("missing-user").
		WillReturnRows(sqlmock.NewRows([]string{"name", "focus", "photo_url", "is_premium", "notification_tone", "notification_length"}))

	repo := NewProfileRepository(db)
	profile, err := repo.ProfileByID(context.Background(), "missing-user")

	assert.Nil(t, err)
	assert.Nil(t, profile)
}

func TestProfileByIDScansOptionalColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"name", "focus", "photo_url", "is_premium", "notification_tone", "notification_length"}).
		AddRow("Ana", "Ansiedad", nil, true, "Directo", "Corto")

	mock.ExpectQuery("SELECT name, focus, photo_url, is_premium").
		WithArgs("user-1").
		WillReturnRows(rows)

	repo := NewProfileRepository(db)
	profile, err := repo.ProfileByID(context.Background(), "user-1")

	assert.Nil(t, err)
	assert.Equal(t, "Ana", *profile.Name)
	assert.Equal(t, models.FocusAnxiety, *profile.Focus)
	assert.Nil(t, profile.PhotoURL)
	assert.True(t, profile.IsPremium)
	assert.Equal(t, models.ToneDirect, profile.NotificationPreferences.Tone)
	assert.Equal(t, models.LengthShort, profile.NotificationPreferences.Length)
}

func TestCreateDefaultProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO profiles").
		WithArgs("user-1", "ana@example.com").
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewProfileRepository(db)
	assert.Nil(t, repo.CreateDefaultProfile(context.Background(), "user-1", "ana@example.com"))

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestCreateDefaultProfileWrapsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO profiles").
		WithArgs("user-1", "ana@example.com").
		WillReturnError(errors.New("duplicate key"))

	repo := NewProfileRepository(db)
	err = repo.CreateDefaultProfile(context.Background(), "user-1", "ana@example.com")

	var perr *apperror.ProfileError
	assert.True(t, errors.As(err, &perr))
}

func TestUpdatePremiumReturnsStoredValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"is_premium"}).AddRow(true)
	mock.ExpectQuery("UPDATE profiles SET is_premium").
		WithArgs(true, "user-1").
		WillReturnRows(rows)

	repo := NewProfileRepository(db)
	premium, err := repo.UpdatePremium(context.Background(), "user-1", true)

	assert.Nil(t, err)
	assert.True(t, premium)
}

func TestPushSubscriptionNullIsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"push_subscription"}).AddRow(nil)
	mock.ExpectQuery("SELECT push_subscription FROM profiles").
		WithArgs("user-1").
		WillReturnRows(rows)

	repo := NewProfileRepository(db)
	sub, err := repo.PushSubscription(context.Background(), "user-1")

	assert.Nil(t, err)
	assert.Nil(t, sub)
}
