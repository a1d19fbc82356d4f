package session

import (
	"context"
	"strconv"
	"sync"
)

// ManagerFactory builds the Manager for one profile (user) id.
type ManagerFactory func(profile string) (*Manager, error)

// Registry hands out one Manager per profile, lazily. A freshly built
// Manager resumes any persisted session and starts listening for remote
// logout notices, which covers the restart/reload continuity contract.
type Registry struct {
	mu       sync.Mutex
	managers map[string]*Manager
	build    ManagerFactory
}

func NewRegistry(build ManagerFactory) *Registry {
	return &Registry{
		managers: make(map[string]*Manager),
		build:    build,
	}
}

func (r *Registry) For(ctx context.Context, profile string) (*Manager, error) {
	r.mu.Lock()
	if m, ok := r.managers[profile]; ok {
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()

	m, err := r.build(profile)
	if err != nil {
		return nil, err
	}
	if err := m.Resume(ctx); err != nil {
		return nil, err
	}
	if err := m.Listen(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.managers[profile]; ok {
		// lost the race; release the duplicate's subscription and tick loop
		// so only the registered Manager handles this profile's notices
		m.Close()
		return existing, nil
	}
	r.managers[profile] = m
	return m, nil
}

// ForUser is a convenience for integer user ids.
func (r *Registry) ForUser(ctx context.Context, userID int) (*Manager, error) {
	return r.For(ctx, strconv.Itoa(userID))
}
