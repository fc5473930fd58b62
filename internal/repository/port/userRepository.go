package repository

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned when no user exists for the given id.
var ErrUserNotFound = errors.New("user not found")

// User is the identity record owned by the durable store. Presence fields
// (Online, LastSeen) are mutated by the connection lifecycle only.
type User struct {
	ID       string
	Username string
	Avatar   string
	About    string
	Online   bool
	LastSeen time.Time
}

// Summary is the slice of a user embedded in realtime payloads.
type Summary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// Summary returns the payload view of the user.
func (u User) Summary() Summary {
	return Summary{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// UserRepository defines the user lookups and presence writes the realtime
// core needs. Registration and profile management live outside this module.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	// FindByIDs resolves a batch of ids; unknown ids are simply absent from
	// the result map.
	FindByIDs(ctx context.Context, ids []string) (map[string]User, error)
	SetPresence(ctx context.Context, id string, online bool, lastSeen time.Time) error
	// MarkAllOffline reconciles stale online flags at process startup.
	MarkAllOffline(ctx context.Context) error
}
