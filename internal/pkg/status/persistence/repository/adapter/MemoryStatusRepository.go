package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	status "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/domain"
)

// MemoryStatusRepository is a mutex-based in-memory status store for local
// development and tests.
type MemoryStatusRepository struct {
	mu       sync.Mutex
	statuses map[string]*status.Status
}

func NewMemoryStatusRepository() *MemoryStatusRepository {
	return &MemoryStatusRepository{statuses: make(map[string]*status.Status)}
}

func (r *MemoryStatusRepository) Save(ctx context.Context, s status.Status) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	stored := s
	r.statuses[stored.ID] = &stored
	return stored.ID, nil
}

func (r *MemoryStatusRepository) FindByID(ctx context.Context, id string) (*status.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.statuses[id]
	if !ok {
		return nil, status.ErrNotFound
	}
	out := copyStatus(s)
	return &out, nil
}

func (r *MemoryStatusRepository) ListActive(ctx context.Context, now time.Time) ([]status.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []status.Status
	for _, s := range r.statuses {
		if !s.Expired(now) {
			result = append(result, copyStatus(s))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryStatusRepository) AddViewer(ctx context.Context, statusID, viewerID string) (*status.Status, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.statuses[statusID]
	if !ok {
		return nil, false, status.ErrNotFound
	}
	if s.HasViewer(viewerID) {
		out := copyStatus(s)
		return &out, false, nil
	}
	s.Viewers = append(s.Viewers, viewerID)
	out := copyStatus(s)
	return &out, true, nil
}

func (r *MemoryStatusRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.statuses[id]; !ok {
		return status.ErrNotFound
	}
	delete(r.statuses, id)
	return nil
}

func (r *MemoryStatusRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, s := range r.statuses {
		if s.Expired(now) {
			delete(r.statuses, id)
			removed++
		}
	}
	return removed, nil
}

func copyStatus(s *status.Status) status.Status {
	out := *s
	if s.Viewers != nil {
		out.Viewers = append([]string(nil), s.Viewers...)
	}
	return out
}
