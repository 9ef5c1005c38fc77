package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amanecerai/server/models"
	"github.com/stretchr/testify/assert"
)

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	err      error
	gate     chan struct{} // when set, ProfileByID blocks until closed
	created  []string
}

func (f *fakeProfiles) ProfileByID(ctx context.Context, userID string) (*models.Profile, error) {
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[userID], nil
}

func (f *fakeProfiles) CreateDefaultProfile(ctx context.Context, userID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, userID)
	return nil
}

func (f *fakeProfiles) UpdateFocus(ctx context.Context, userID string, focus models.Focus) error {
	return nil
}
func (f *fakeProfiles) UpdateName(ctx context.Context, userID, name string) error { return nil }
func (f *fakeProfiles) UpdatePhotoURL(ctx context.Context, userID, photoURL string) (string, error) {
	return photoURL, nil
}
func (f *fakeProfiles) UpdatePremium(ctx context.Context, userID string, isPremium bool) (bool, error) {
	return isPremium, nil
}
func (f *fakeProfiles) UpdateNotificationPreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error {
	return nil
}
func (f *fakeProfiles) UpdatePushSubscription(ctx context.Context, userID string, sub json.RawMessage) error {
	return nil
}
func (f *fakeProfiles) PushSubscription(ctx context.Context, userID string) (json.RawMessage, error) {
	return nil, nil
}

type fakeMoods struct {
	dates []string
	err   error
}

func (f *fakeMoods) MoodHistoryDates(ctx context.Context, userID string) ([]string, error) {
	return f.dates, f.err
}

func (f *fakeMoods) MoodHistory(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	return nil, nil
}

func (f *fakeMoods) LogMood(ctx context.Context, userID string, mood models.EmojiMood) (*models.MoodEntry, error) {
	return nil, nil
}

func namedProfile(name string) *models.Profile {
	return &models.Profile{Name: &name}
}

func isoDaysAgo(n int) string {
	return time.Now().AddDate(0, 0, -n).Format(time.RFC3339)
}

func signIn(userID string) Event {
	return Event{Kind: SignedIn, Session: &Session{UserID: userID, Email: userID + "@example.com"}}
}

func TestSignInPublishesUserAndStreak(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{"u1": namedProfile("Ana")}}
	moods := &fakeMoods{dates: []string{isoDaysAgo(0), isoDaysAgo(1), isoDaysAgo(2)}}
	m := NewManager(profiles, moods)

	m.HandleEvent(context.Background(), signIn("u1"))

	snap := m.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, "Ana", snap.User.Name)
	assert.Equal(t, 3, snap.Streak)
}

func TestSignOutClearsPublishedState(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{"u1": namedProfile("Ana")}}
	moods := &fakeMoods{dates: []string{isoDaysAgo(0)}}
	m := NewManager(profiles, moods)

	m.HandleEvent(context.Background(), signIn("u1"))
	m.HandleEvent(context.Background(), Event{Kind: SignedOut})

	snap := m.Snapshot()
	assert.Equal(t, StateSignedOut, snap.State)
	assert.Nil(t, snap.User)
	assert.Equal(t, 0, snap.Streak)
}

func TestMissingProfileCreatesDefault(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{}}
	moods := &fakeMoods{dates: []string{isoDaysAgo(0)}}
	m := NewManager(profiles, moods)

	ev := Event{Kind: SignedIn, Session: &Session{
		UserID:   "u2",
		Email:    "u2@example.com",
		Metadata: map[string]string{"name": "Benita"},
	}}
	m.HandleEvent(context.Background(), ev)

	snap := m.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, "Benita", snap.User.Name)
	assert.Equal(t, 0, snap.Streak)
	assert.Equal(t, []string{"u2"}, profiles.created)
}

func TestMoodDatesFailureDegradesStreakToZero(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{"u1": namedProfile("Ana")}}
	moods := &fakeMoods{err: errors.New("backend unavailable")}
	m := NewManager(profiles, moods)

	m.HandleEvent(context.Background(), signIn("u1"))

	snap := m.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, "Ana", snap.User.Name)
	assert.Equal(t, 0, snap.Streak)
}

func TestProfileFailureFailsClosed(t *testing.T) {
	profiles := &fakeProfiles{err: errors.New("backend unavailable")}
	moods := &fakeMoods{dates: []string{isoDaysAgo(0)}}
	m := NewManager(profiles, moods)

	m.HandleEvent(context.Background(), signIn("u1"))

	snap := m.Snapshot()
	assert.Equal(t, StateSignedOut, snap.State)
	assert.Nil(t, snap.User)
}

func TestSupersededLoadNeverPublishes(t *testing.T) {
	gate := make(chan struct{})
	profiles := &fakeProfiles{
		profiles: map[string]*models.Profile{"u1": namedProfile("Stale"), "u2": namedProfile("Fresh")},
		gate:     gate,
	}
	moods := &fakeMoods{dates: []string{isoDaysAgo(0)}}
	m := NewManager(profiles, moods)

	// Load A starts and blocks inside the profile fetch.
	doneA := make(chan struct{})
	go func() {
		m.HandleEvent(context.Background(), signIn("u1"))
		close(doneA)
	}()

	// Wait until A has taken its generation.
	for {
		m.mu.Lock()
		g := m.gen
		m.mu.Unlock()
		if g == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// Load B starts before A resolves; both unblock together, and A
	// resolves after B, but only B's result may ever be published.
	doneB := make(chan struct{})
	go func() {
		m.HandleEvent(context.Background(), signIn("u2"))
		close(doneB)
	}()
	for {
		m.mu.Lock()
		g := m.gen
		m.mu.Unlock()
		if g == 2 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	close(gate)
	<-doneA
	<-doneB

	snap := m.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, "Fresh", snap.User.Name)
}

func TestSignOutSupersedesInFlightLoad(t *testing.T) {
	gate := make(chan struct{})
	profiles := &fakeProfiles{
		profiles: map[string]*models.Profile{"u1": namedProfile("Ana")},
		gate:     gate,
	}
	moods := &fakeMoods{dates: []string{isoDaysAgo(0)}}
	m := NewManager(profiles, moods)

	done := make(chan struct{})
	go func() {
		m.HandleEvent(context.Background(), signIn("u1"))
		close(done)
	}()
	for {
		m.mu.Lock()
		g := m.gen
		m.mu.Unlock()
		if g == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	m.HandleEvent(context.Background(), Event{Kind: SignedOut})
	close(gate)
	<-done

	snap := m.Snapshot()
	assert.Equal(t, StateSignedOut, snap.State)
	assert.Nil(t, snap.User)
	assert.Equal(t, 0, snap.Streak)
}

func TestRegistryReturnsSameManagerPerUser(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{}}
	moods := &fakeMoods{}
	r := NewRegistry(profiles, moods)

	assert.True(t, r.ManagerFor("u1") == r.ManagerFor("u1"))
	assert.False(t, r.ManagerFor("u1") == r.ManagerFor("u2"))
}
