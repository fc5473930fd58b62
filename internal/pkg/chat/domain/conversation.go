package chat

import "time"

// Conversation is the unique thread between an unordered pair of users.
// Participants are stored canonicalized (sorted) so the same pair always
// resolves to the same record.
type Conversation struct {
	ID            string
	Participants  [2]string
	LastMessageID string
	UnreadCount   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanonicalPair sorts two user ids into the stored participant order.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// HasParticipant reports whether userID belongs to the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.Participants[0] == userID || c.Participants[1] == userID
}

// OtherParticipant returns the peer of userID, or "" when userID is not a
// participant.
func (c *Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.Participants[0]:
		return c.Participants[1]
	case c.Participants[1]:
		return c.Participants[0]
	}
	return ""
}
