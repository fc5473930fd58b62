package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

// ReactionView is a reaction with its author resolved for clients.
type ReactionView struct {
	User  repository.Summary `json:"user"`
	Emoji string             `json:"emoji"`
}

// MessageView is the client-facing shape of a message, with sender and
// receiver resolved to user summaries.
type MessageView struct {
	ID             string             `json:"id"`
	ConversationID string             `json:"conversationId"`
	Sender         repository.Summary `json:"sender"`
	Receiver       repository.Summary `json:"receiver"`
	Content        string             `json:"content,omitempty"`
	MediaURL       string             `json:"mediaUrl,omitempty"`
	ContentType    chat.ContentType   `json:"contentType"`
	Status         chat.MessageStatus `json:"messageStatus"`
	Reactions      []ReactionView     `json:"reactions"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// ConversationView is one entry of a user's conversation list.
type ConversationView struct {
	ID           string               `json:"id"`
	Participants []repository.Summary `json:"participants"`
	LastMessage  *MessageView         `json:"lastMessage,omitempty"`
	UnreadCount  int                  `json:"unreadCount"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// MessageStatusPayload announces a lifecycle transition to the sender.
type MessageStatusPayload struct {
	MessageID string             `json:"messageId"`
	Status    chat.MessageStatus `json:"messageStatus"`
	ReaderID  string             `json:"readerId,omitempty"`
}

// MessageDeletedPayload announces a message removal to the receiver.
type MessageDeletedPayload struct {
	MessageID string `json:"messageId"`
}

// ReactionUpdatePayload carries the full reaction list after a toggle.
type ReactionUpdatePayload struct {
	MessageID string         `json:"messageId"`
	Reactions []ReactionView `json:"reactions"`
}

// summariesFor resolves a batch of user ids, tolerating unknown ids so a
// deleted account does not break rendering of old messages.
func summariesFor(ctx context.Context, users repository.UserRepository, ids []string) (map[string]repository.Summary, error) {
	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	out := make(map[string]repository.Summary, len(found))
	for id, u := range found {
		out[id] = u.Summary()
	}
	return out, nil
}

func summaryOrStub(summaries map[string]repository.Summary, id string) repository.Summary {
	if s, ok := summaries[id]; ok {
		return s
	}
	return repository.Summary{ID: id}
}

func reactionViews(reactions []chat.Reaction, summaries map[string]repository.Summary) []ReactionView {
	views := make([]ReactionView, 0, len(reactions))
	for _, r := range reactions {
		views = append(views, ReactionView{User: summaryOrStub(summaries, r.UserID), Emoji: r.Emoji})
	}
	return views
}

// messageView renders a message with the given pre-resolved summaries.
func messageView(m *chat.Message, summaries map[string]repository.Summary) *MessageView {
	return &MessageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Sender:         summaryOrStub(summaries, m.SenderID),
		Receiver:       summaryOrStub(summaries, m.ReceiverID),
		Content:        m.Content,
		MediaURL:       m.MediaURL,
		ContentType:    m.ContentType,
		Status:         m.Status,
		Reactions:      reactionViews(m.Reactions, summaries),
		CreatedAt:      m.CreatedAt,
	}
}

// messageParticipantIDs collects every user id referenced by the messages,
// reactions included, deduplicated.
func messageParticipantIDs(messages []chat.Message) []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for i := range messages {
		add(messages[i].SenderID)
		add(messages[i].ReceiverID)
		for _, r := range messages[i].Reactions {
			add(r.UserID)
		}
	}
	return ids
}
