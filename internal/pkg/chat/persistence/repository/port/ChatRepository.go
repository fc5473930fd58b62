package repository

import (
	"context"

	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
)

// ChatRepository defines persistence operations for conversations, messages
// and reactions. Implementations must keep the conversation-per-pair and
// one-reaction-per-user invariants under concurrent callers.
type ChatRepository interface {
	// GetOrCreateConversation resolves the single conversation for the
	// canonicalized pair, creating it atomically on first contact. Concurrent
	// first-contact calls for the same pair must converge on one record.
	GetOrCreateConversation(ctx context.Context, userA, userB string) (*chat.Conversation, error)
	GetConversation(ctx context.Context, id string) (*chat.Conversation, error)
	// ListConversations returns every conversation userID participates in,
	// most recently active first.
	ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error)
	SetLastMessage(ctx context.Context, conversationID, messageID string) error
	IncrementUnread(ctx context.Context, conversationID string) error
	ResetUnread(ctx context.Context, conversationID string) error

	SaveMessage(ctx context.Context, m chat.Message) (string, error)
	GetMessage(ctx context.Context, id string) (*chat.Message, error)
	// ListMessages returns a conversation's messages oldest first.
	ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error)
	// AdvanceMessageStatus moves the message to target only when the current
	// status is strictly earlier; it reports whether a row changed. A read
	// message is never regressed.
	AdvanceMessageStatus(ctx context.Context, id string, target chat.MessageStatus) (bool, error)
	// MarkMessagesRead bulk-advances the given messages to read, restricted
	// to ones addressed to receiverID that are still sent or delivered. It
	// returns the messages that actually transitioned, which makes repeated
	// calls with the same ids a no-op.
	MarkMessagesRead(ctx context.Context, ids []string, receiverID string) ([]chat.Message, error)
	// MarkConversationRead is the conversation-fetch coupling: every sent or
	// delivered message addressed to receiverID in the conversation becomes
	// read.
	MarkConversationRead(ctx context.Context, conversationID, receiverID string) error
	// MutateReactions applies mutate to the message's reaction list under
	// per-message mutual exclusion and returns the updated message.
	MutateReactions(ctx context.Context, messageID string, mutate func([]chat.Reaction) []chat.Reaction) (*chat.Message, error)
	DeleteMessage(ctx context.Context, id string) error
}
