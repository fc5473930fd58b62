package adapter

import (
	"context"
	"sync"
	"time"

	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

// MemoryUserRepository is a mutex-based in-memory user store. It backs local
// development without a database and the package tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]repository.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]repository.User)}
}

var _ repository.UserRepository = (*MemoryUserRepository)(nil)

// Seed inserts or replaces a user record.
func (r *MemoryUserRepository) Seed(u repository.User) {
	r.mu.Lock()
	r.users[u.ID] = u
	r.mu.Unlock()
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id string) (*repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]repository.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			result[id] = u
		}
	}
	return result, nil
}

func (r *MemoryUserRepository) SetPresence(ctx context.Context, id string, online bool, lastSeen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		// Presence updates are best-effort; an unknown id is seeded so the
		// dev-mode server works without a registration flow.
		u = repository.User{ID: id, Username: id}
	}
	u.Online = online
	u.LastSeen = lastSeen
	r.users[id] = u
	return nil
}

func (r *MemoryUserRepository) MarkAllOffline(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.users {
		u.Online = false
		r.users[id] = u
	}
	return nil
}
