package session

import (
	"context"
	"log"
	"sync"

	"github.com/amanecerai/server/models"
	"github.com/amanecerai/server/repositories"
	"github.com/amanecerai/server/streak"
)

// State of the published session.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateSignedOut State = "signed_out"
)

// EventKind mirrors the auth provider's state-change events.
type EventKind string

const (
	SignedIn       EventKind = "SIGNED_IN"
	SignedOut      EventKind = "SIGNED_OUT"
	TokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// Session is the slice of the verified auth session the loader needs.
type Session struct {
	UserID   string
	Email    string
	Metadata map[string]string
}

// Event is one auth state transition. Session is nil on sign-out.
type Event struct {
	Kind    EventKind
	Session *Session
}

// Snapshot is the published (user, streak) pair. Single writer (the
// manager), any number of readers.
type Snapshot struct {
	State  State        `json:"state"`
	User   *models.User `json:"user"`
	Streak int          `json:"streak"`
}

// Manager materializes a consistent (profile, streak) pair per auth
// transition. Each load carries the generation current at its start; a load
// whose generation has been passed never publishes. Repositories are
// injected so tests can substitute fakes.
type Manager struct {
	profiles repositories.ProfileRepository
	moods    repositories.MoodRepository

	mu     sync.Mutex
	gen    uint64
	state  State
	user   *models.User
	streak int
}

func NewManager(profiles repositories.ProfileRepository, moods repositories.MoodRepository) *Manager {
	return &Manager{
		profiles: profiles,
		moods:    moods,
		state:    StateIdle,
	}
}

// Snapshot returns a copy of the published state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{State: m.state, User: m.user, Streak: m.streak}
}

// HandleEvent reacts to one auth transition. It returns when the resulting
// load has either published or been superseded. Starting a new load
// implicitly cancels any in-flight one: the older load's generation goes
// stale the moment this method takes the lock.
func (m *Manager) HandleEvent(ctx context.Context, ev Event) {
	m.mu.Lock()
	m.gen++
	gen := m.gen

	if ev.Kind == SignedOut || ev.Session == nil {
		m.state = StateSignedOut
		m.user = nil
		m.streak = 0
		m.mu.Unlock()
		return
	}

	m.state = StateLoading
	m.mu.Unlock()

	m.load(ctx, gen, ev.Session)
}

type profileResult struct {
	profile *models.Profile
	err     error
}

type datesResult struct {
	dates []string
	err   error
}

func (m *Manager) load(ctx context.Context, gen uint64, sess *Session) {
	// Profile and mood dates have no ordering dependency; fetch them
	// concurrently, then join before computing the streak.
	profCh := make(chan profileResult, 1)
	datesCh := make(chan datesResult, 1)

	go func() {
		p, err := m.profiles.ProfileByID(ctx, sess.UserID)
		profCh <- profileResult{profile: p, err: err}
	}()
	go func() {
		d, err := m.moods.MoodHistoryDates(ctx, sess.UserID)
		datesCh <- datesResult{dates: d, err: err}
	}()

	prof := <-profCh
	dates := <-datesCh

	if prof.err != nil {
		// Fail closed: an unreadable profile leaves the user
		// unauthenticated-equivalent rather than half loaded.
		log.Printf("session: profile load failed for %s: %v", sess.UserID, prof.err)
		m.publish(gen, func() {
			m.state = StateSignedOut
			m.user = nil
			m.streak = 0
		})
		return
	}

	if prof.profile == nil {
		log.Printf("session: profile not found for %s, creating one as a fallback", sess.UserID)
		name := defaultName(sess)
		if err := m.profiles.CreateDefaultProfile(ctx, sess.UserID, name); err != nil {
			log.Printf("session: default profile creation failed for %s: %v", sess.UserID, err)
			m.publish(gen, func() {
				m.state = StateSignedOut
				m.user = nil
				m.streak = 0
			})
			return
		}
		user := defaultUser(sess, name)
		m.publish(gen, func() {
			m.state = StateReady
			m.user = user
			m.streak = 0
		})
		return
	}

	count := 0
	if dates.err != nil {
		// Streak accuracy depends on a complete date list, so this is never
		// swallowed silently, but it must not block login either: degrade to
		// streak 0 and keep going.
		log.Printf("session: mood dates load failed for %s, streak degraded to 0: %v", sess.UserID, dates.err)
	} else {
		count = streak.Calculate(dates.dates)
	}

	push, err := m.profiles.PushSubscription(ctx, sess.UserID)
	if err != nil {
		log.Printf("session: could not fetch push subscription for %s: %v", sess.UserID, err)
	}

	user := assembleUser(sess, prof.profile)
	user.PushSubscription = push

	m.publish(gen, func() {
		m.state = StateReady
		m.user = user
		m.streak = count
	})
}

// publish applies fn only if gen is still the active generation.
func (m *Manager) publish(gen uint64, fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}
	fn()
	return true
}

func defaultName(sess *Session) string {
	if name := sess.Metadata["name"]; name != "" {
		return name
	}
	return sess.Email
}

func defaultUser(sess *Session, name string) *models.User {
	return &models.User{
		ID:                      sess.UserID,
		Email:                   sess.Email,
		Name:                    name,
		IsPremium:               false,
		NotificationPreferences: models.DefaultNotificationPreferences(),
	}
}

func assembleUser(sess *Session, profile *models.Profile) *models.User {
	user := &models.User{
		ID:                      sess.UserID,
		Email:                   sess.Email,
		Name:                    defaultName(sess),
		IsPremium:               profile.IsPremium,
		NotificationPreferences: models.DefaultNotificationPreferences(),
	}
	if profile.Name != nil {
		user.Name = *profile.Name
	}
	if profile.Focus != nil {
		user.Focus = *profile.Focus
	}
	if profile.PhotoURL != nil {
		user.PhotoURL = *profile.PhotoURL
	}
	if profile.NotificationPreferences != nil {
		user.NotificationPreferences = *profile.NotificationPreferences
	}
	return user
}
