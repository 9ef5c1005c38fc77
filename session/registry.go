package session

import (
	"sync"

	"github.com/amanecerai/server/repositories"
)

// Registry hands out one Manager per user id, so every authenticated
// identity gets its own process-lifetime state machine.
type Registry struct {
	profiles repositories.ProfileRepository
	moods    repositories.MoodRepository

	mu       sync.Mutex
	managers map[string]*Manager
}

func NewRegistry(profiles repositories.ProfileRepository, moods repositories.MoodRepository) *Registry {
	return &Registry{
		profiles: profiles,
		moods:    moods,
		managers: make(map[string]*Manager),
	}
}

func (r *Registry) ManagerFor(userID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.managers[userID]
	if !ok {
		m = NewManager(r.profiles, r.moods)
		r.managers[userID] = m
	}
	return m
}
