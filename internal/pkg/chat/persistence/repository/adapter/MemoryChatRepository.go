package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
)

// MemoryChatRepository is a mutex-based in-memory chat store. It backs local
// development without a database and the package tests. The single mutex
// serializes every mutation, which trivially covers the per-pair and
// per-message exclusion the port demands.
type MemoryChatRepository struct {
	mu            sync.Mutex
	conversations map[string]*chat.Conversation
	pairIndex     map[[2]string]string // canonical pair -> conversation id
	messages      map[string]*chat.Message
}

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{
		conversations: make(map[string]*chat.Conversation),
		pairIndex:     make(map[[2]string]string),
		messages:      make(map[string]*chat.Message),
	}
}

func (r *MemoryChatRepository) GetOrCreateConversation(ctx context.Context, userA, userB string) (*chat.Conversation, error) {
	a, b := chat.CanonicalPair(userA, userB)
	key := [2]string{a, b}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.pairIndex[key]; ok {
		c := *r.conversations[id]
		return &c, nil
	}

	now := time.Now()
	c := &chat.Conversation{
		ID:           uuid.NewString(),
		Participants: key,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.conversations[c.ID] = c
	r.pairIndex[key] = c.ID
	out := *c
	return &out, nil
}

func (r *MemoryChatRepository) GetConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[id]
	if !ok {
		return nil, chat.ErrConversationNotFound
	}
	out := *c
	return &out, nil
}

func (r *MemoryChatRepository) ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []chat.Conversation
	for _, c := range r.conversations {
		if c.HasParticipant(userID) {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (r *MemoryChatRepository) SetLastMessage(ctx context.Context, conversationID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[conversationID]
	if !ok {
		return chat.ErrConversationNotFound
	}
	c.LastMessageID = messageID
	c.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryChatRepository) IncrementUnread(ctx context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[conversationID]
	if !ok {
		return chat.ErrConversationNotFound
	}
	c.UnreadCount++
	c.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryChatRepository) ResetUnread(ctx context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[conversationID]
	if !ok {
		return chat.ErrConversationNotFound
	}
	c.UnreadCount = 0
	return nil
}

func (r *MemoryChatRepository) SaveMessage(ctx context.Context, m chat.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	stored := m
	r.messages[stored.ID] = &stored
	return stored.ID, nil
}

func (r *MemoryChatRepository) GetMessage(ctx context.Context, id string) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.messages[id]
	if !ok {
		return nil, chat.ErrMessageNotFound
	}
	out := copyMessage(m)
	return &out, nil
}

func (r *MemoryChatRepository) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []chat.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			result = append(result, copyMessage(m))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryChatRepository) AdvanceMessageStatus(ctx context.Context, id string, target chat.MessageStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.messages[id]
	if !ok {
		return false, chat.ErrMessageNotFound
	}
	if !m.Status.CanAdvanceTo(target) {
		return false, nil
	}
	m.Status = target
	return true, nil
}

func (r *MemoryChatRepository) MarkMessagesRead(ctx context.Context, ids []string, receiverID string) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected []chat.Message
	for _, id := range ids {
		m, ok := r.messages[id]
		if !ok || m.ReceiverID != receiverID || m.Status == chat.MessageStatusRead {
			continue
		}
		m.Status = chat.MessageStatusRead
		affected = append(affected, copyMessage(m))
	}
	return affected, nil
}

func (r *MemoryChatRepository) MarkConversationRead(ctx context.Context, conversationID, receiverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.ReceiverID == receiverID && m.Status != chat.MessageStatusRead {
			m.Status = chat.MessageStatusRead
		}
	}
	return nil
}

func (r *MemoryChatRepository) MutateReactions(ctx context.Context, messageID string, mutate func([]chat.Reaction) []chat.Reaction) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.messages[messageID]
	if !ok {
		return nil, chat.ErrMessageNotFound
	}
	m.Reactions = mutate(m.Reactions)
	out := copyMessage(m)
	return &out, nil
}

func (r *MemoryChatRepository) DeleteMessage(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[id]; !ok {
		return chat.ErrMessageNotFound
	}
	delete(r.messages, id)
	return nil
}

func copyMessage(m *chat.Message) chat.Message {
	out := *m
	if m.Reactions != nil {
		out.Reactions = append([]chat.Reaction(nil), m.Reactions...)
	}
	return out
}
