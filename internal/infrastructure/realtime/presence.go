package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/metrics"
)

// PresenceStore persists the durable online/lastSeen fields of a user.
// Failures are logged and otherwise ignored: the registry map is the live
// source of truth while the process runs.
type PresenceStore interface {
	SetPresence(ctx context.Context, userID string, online bool, lastSeen time.Time) error
}

// UserStatusPayload is the data of a user_status event.
type UserStatusPayload struct {
	UserID   string     `json:"userId"`
	IsOnline bool       `json:"isOnline"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// Registry tracks which users currently hold a live connection and maps
// user -> connection handle. It keeps at most one handle per user
// (last-registration-wins) and fans realtime events out to connections.
// All state is in-memory and scoped to one server instance; an optional
// Fanout extends delivery across instances.
type Registry struct {
	mu      sync.RWMutex
	handles map[string]Handle
	users   PresenceStore
	fanout  *Fanout
	log     zerolog.Logger
}

var _ Notifier = (*Registry)(nil)

// NewRegistry constructs an empty presence registry.
func NewRegistry(users PresenceStore, log zerolog.Logger) *Registry {
	return &Registry{
		handles: make(map[string]Handle),
		users:   users,
		log:     log.With().Str("component", "presence").Logger(),
	}
}

// SetFanout attaches a cross-instance fanout. Must be called before serving.
func (r *Registry) SetFanout(f *Fanout) {
	r.fanout = f
}

// Register tracks a live connection for userID. A stale handle from a
// reconnect without prior disconnect is replaced and closed after the swap.
// The durable online flag is updated and every other connected user is
// notified with a user_status event.
func (r *Registry) Register(ctx context.Context, userID string, h Handle) {
	r.mu.Lock()
	previous := r.handles[userID]
	r.handles[userID] = h
	r.mu.Unlock()

	if previous != nil {
		previous.Shutdown(4001, "session replaced")
	} else {
		metrics.ConnectedUsers.Inc()
	}

	if err := r.users.SetPresence(ctx, userID, true, time.Now()); err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Msg("presence update failed")
	}

	r.BroadcastExcept(userID, EventUserStatus, UserStatusPayload{UserID: userID, IsOnline: true})
}

// Unregister removes the connection for userID. When h is non-nil the entry is
// only removed if h is still the current handle, so an old connection closing
// late cannot knock out its replacement. Mirrors Register: durable update plus
// a user_status broadcast.
func (r *Registry) Unregister(ctx context.Context, userID string, h Handle) {
	r.mu.Lock()
	current, ok := r.handles[userID]
	if !ok || (h != nil && current != h) {
		r.mu.Unlock()
		return
	}
	delete(r.handles, userID)
	r.mu.Unlock()

	metrics.ConnectedUsers.Dec()

	lastSeen := time.Now()
	if err := r.users.SetPresence(ctx, userID, false, lastSeen); err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Msg("presence update failed")
	}

	r.BroadcastExcept(userID, EventUserStatus, UserStatusPayload{UserID: userID, IsOnline: false, LastSeen: &lastSeen})
}

// IsOnline reports whether userID holds a live connection on this instance.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	_, ok := r.handles[userID]
	r.mu.RUnlock()
	return ok
}

// HandleFor returns the current connection handle for userID, if any.
func (r *Registry) HandleFor(userID string) (Handle, bool) {
	r.mu.RLock()
	h, ok := r.handles[userID]
	r.mu.RUnlock()
	return h, ok
}

// Send delivers an event to userID's connection. It is a no-op for offline
// users; with a fanout attached the payload is forwarded so another instance
// can deliver it. Returns whether the event reached a local connection.
func (r *Registry) Send(userID string, event string, data any) bool {
	payload, err := encodeEvent(event, data)
	if err != nil {
		r.log.Error().Err(err).Str("event", event).Msg("encode event")
		return false
	}

	delivered := r.deliverLocal(userID, payload)
	if !delivered {
		if r.fanout != nil {
			r.fanout.PublishDirect(userID, payload)
		}
		metrics.NotificationsDropped.WithLabelValues(event).Inc()
		return false
	}
	metrics.NotificationsDelivered.WithLabelValues(event).Inc()
	return true
}

// BroadcastExcept delivers an event to every registered connection except the
// excluded user. Returns the number of local deliveries.
func (r *Registry) BroadcastExcept(excludedUserID string, event string, data any) int {
	payload, err := encodeEvent(event, data)
	if err != nil {
		r.log.Error().Err(err).Str("event", event).Msg("encode event")
		return 0
	}

	n := r.broadcastLocal(excludedUserID, payload)
	if r.fanout != nil {
		r.fanout.PublishBroadcast(excludedUserID, payload)
	}
	metrics.NotificationsDelivered.WithLabelValues(event).Add(float64(n))
	return n
}

// Close shuts down every tracked connection and clears the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	handles := make([]Handle, 0, len(r.handles))
	for _, h := range r.handles {
		handles = append(handles, h)
	}
	r.handles = make(map[string]Handle)
	r.mu.Unlock()

	for _, h := range handles {
		h.Shutdown(1001, "server shutdown")
	}
}

func (r *Registry) deliverLocal(userID string, payload []byte) bool {
	r.mu.RLock()
	h, ok := r.handles[userID]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	return h.Deliver(payload) == nil
}

func (r *Registry) broadcastLocal(excludedUserID string, payload []byte) int {
	r.mu.RLock()
	targets := make([]Handle, 0, len(r.handles))
	for userID, h := range r.handles {
		if userID == excludedUserID {
			continue
		}
		targets = append(targets, h)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, h := range targets {
		if h.Deliver(payload) == nil {
			delivered++
		}
	}
	return delivered
}
