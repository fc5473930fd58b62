package status

import (
	"errors"
	"strings"
	"time"

	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
)

var (
	// ErrNotFound means the status does not exist.
	ErrNotFound = errors.New("status not found")

	// ErrForbidden means the actor is not the status author.
	ErrForbidden = errors.New("access denied")
)

// Status is an ephemeral broadcast post: visible to everyone but its author
// until it expires. Viewers holds each viewing user at most once and never
// the author.
type Status struct {
	ID          string
	AuthorID    string
	Content     string
	ContentType chat.ContentType
	Viewers     []string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// New validates the content policy (shared with messages) and builds a status
// expiring after ttl. For media statuses Content holds the media URL.
func New(authorID, content string, media *chat.Media, ttl time.Duration) (*Status, error) {
	if authorID == "" {
		return nil, chat.ErrInvalidContent
	}

	content = strings.TrimSpace(content)
	now := time.Now()

	s := &Status{
		AuthorID:  authorID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	switch {
	case media != nil:
		if media.Kind != chat.ContentTypeImage && media.Kind != chat.ContentTypeVideo {
			return nil, chat.ErrUnsupportedMedia
		}
		s.Content = media.URL
		s.ContentType = media.Kind
	case content != "":
		s.Content = content
		s.ContentType = chat.ContentTypeText
	default:
		return nil, chat.ErrInvalidContent
	}

	return s, nil
}

// Expired reports whether the status is past its expiry at the given time.
func (s *Status) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// HasViewer reports whether userID already viewed the status.
func (s *Status) HasViewer(userID string) bool {
	for _, v := range s.Viewers {
		if v == userID {
			return true
		}
	}
	return false
}
