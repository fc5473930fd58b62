package repository

import (
	"context"
	"time"

	status "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/domain"
)

// StatusRepository defines persistence operations for ephemeral broadcast
// posts. Expired records are excluded from reads and removed by the sweep.
type StatusRepository interface {
	Save(ctx context.Context, s status.Status) (string, error)
	FindByID(ctx context.Context, id string) (*status.Status, error)
	// ListActive returns unexpired statuses, newest created first.
	ListActive(ctx context.Context, now time.Time) ([]status.Status, error)
	// AddViewer appends viewerID to the status viewer set. It reports whether
	// the viewer was actually added, so a repeat view is a detectable no-op.
	AddViewer(ctx context.Context, statusID, viewerID string) (*status.Status, bool, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes every status past its expiry and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
