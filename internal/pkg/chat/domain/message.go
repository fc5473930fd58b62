package chat

import (
	"strings"
	"time"
)

// ContentType classifies what a message carries.
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
	ContentTypeVideo ContentType = "video"
)

// MessageStatus is the delivery state of a message. It only ever moves
// forward: sent -> delivered -> read.
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

func (s MessageStatus) rank() int {
	switch s {
	case MessageStatusSent:
		return 0
	case MessageStatusDelivered:
		return 1
	case MessageStatusRead:
		return 2
	}
	return -1
}

// CanAdvanceTo reports whether moving to the target status keeps the
// lifecycle monotonic.
func (s MessageStatus) CanAdvanceTo(target MessageStatus) bool {
	return target.rank() > s.rank()
}

// Reaction is one user's emoji on a message. A message holds at most one
// reaction per user.
type Reaction struct {
	UserID string `json:"userId"`
	Emoji  string `json:"emoji"`
}

// Media is the result of a completed upload, handed in by the media
// collaborator.
type Media struct {
	URL  string
	Kind ContentType
}

// Message is a single entry in a conversation.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	ReceiverID     string
	Content        string
	MediaURL       string
	ContentType    ContentType
	Status         MessageStatus
	Reactions      []Reaction
	CreatedAt      time.Time
}

// NewMessage validates the content policy and builds a message in the sent
// state. A message needs non-empty text or an uploaded media result; media
// may carry a text caption alongside. Media kinds other than image and video
// are rejected.
func NewMessage(conversationID, senderID, receiverID, content string, media *Media) (*Message, error) {
	if conversationID == "" || senderID == "" || receiverID == "" {
		return nil, ErrInvalidContent
	}

	content = strings.TrimSpace(content)

	m := &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		Status:         MessageStatusSent,
		CreatedAt:      time.Now(),
	}

	switch {
	case media != nil:
		if media.Kind != ContentTypeImage && media.Kind != ContentTypeVideo {
			return nil, ErrUnsupportedMedia
		}
		m.MediaURL = media.URL
		m.ContentType = media.Kind
	case content != "":
		m.ContentType = ContentTypeText
	default:
		return nil, ErrInvalidContent
	}

	return m, nil
}

// MutateReactions applies the toggle semantics for one user's reaction:
// same emoji removes the entry, a different emoji replaces it, no entry
// inserts one. The returned slice holds at most one entry per user.
func MutateReactions(reactions []Reaction, userID, emoji string) []Reaction {
	for i, r := range reactions {
		if r.UserID != userID {
			continue
		}
		if r.Emoji == emoji {
			return append(reactions[:i], reactions[i+1:]...)
		}
		reactions[i].Emoji = emoji
		return reactions
	}
	return append(reactions, Reaction{UserID: userID, Emoji: emoji})
}
