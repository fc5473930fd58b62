package realtime

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TypingPayload is the data of a user_typing event.
type TypingPayload struct {
	UserID         string `json:"userId"`
	ConversationID string `json:"conversationId"`
	IsTyping       bool   `json:"isTyping"`
}

type typingState struct {
	receiverID string
	timer      *time.Timer
	gen        uint64
}

// TypingTracker holds per-user, per-conversation typing state with
// auto-expiry. A repeated start within the expiry window re-arms the timer
// instead of stacking notifications (debounce). State is transient and never
// persisted.
type TypingTracker struct {
	mu       sync.Mutex
	notifier Notifier
	expiry   time.Duration
	states   map[string]map[string]*typingState // userID -> conversationID -> state
	log      zerolog.Logger
}

// NewTypingTracker constructs a tracker that emits user_typing events through
// the given notifier. expiry is the auto-stop delay after the last start.
func NewTypingTracker(notifier Notifier, expiry time.Duration, log zerolog.Logger) *TypingTracker {
	if expiry <= 0 {
		expiry = 3 * time.Second
	}
	return &TypingTracker{
		notifier: notifier,
		expiry:   expiry,
		states:   make(map[string]map[string]*typingState),
		log:      log.With().Str("component", "typing").Logger(),
	}
}

// StartTyping marks userID as typing in the conversation, notifies the
// receiver and (re)arms the expiry timer.
func (t *TypingTracker) StartTyping(userID, conversationID, receiverID string) {
	if userID == "" || conversationID == "" || receiverID == "" {
		return
	}

	t.mu.Lock()
	byConv := t.states[userID]
	if byConv == nil {
		byConv = make(map[string]*typingState)
		t.states[userID] = byConv
	}
	st := byConv[conversationID]
	if st == nil {
		st = &typingState{}
		byConv[conversationID] = st
	}
	st.receiverID = receiverID
	if st.timer != nil {
		st.timer.Stop()
	}
	st.gen++
	gen := st.gen
	st.timer = time.AfterFunc(t.expiry, func() {
		t.expire(userID, conversationID, gen)
	})
	t.mu.Unlock()

	t.notifier.Send(receiverID, EventUserTyping, TypingPayload{
		UserID:         userID,
		ConversationID: conversationID,
		IsTyping:       true,
	})
}

// StopTyping cancels any pending expiry and notifies the receiver immediately.
func (t *TypingTracker) StopTyping(userID, conversationID, receiverID string) {
	if userID == "" || conversationID == "" || receiverID == "" {
		return
	}

	t.mu.Lock()
	t.clearConversation(userID, conversationID)
	t.mu.Unlock()

	t.notifier.Send(receiverID, EventUserTyping, TypingPayload{
		UserID:         userID,
		ConversationID: conversationID,
		IsTyping:       false,
	})
}

// ClearUser drops all typing state for userID without emitting anything.
// Called on disconnect so no notifications leak after the user is gone.
func (t *TypingTracker) ClearUser(userID string) {
	t.mu.Lock()
	for conversationID := range t.states[userID] {
		t.clearConversation(userID, conversationID)
	}
	delete(t.states, userID)
	t.mu.Unlock()
}

// expire fires when the debounce window elapses. The generation check makes
// cancel and fire mutually exclusive: a timer that lost the race against a
// re-arm or an explicit stop is a no-op.
func (t *TypingTracker) expire(userID, conversationID string, gen uint64) {
	t.mu.Lock()
	st := t.states[userID][conversationID]
	if st == nil || st.gen != gen {
		t.mu.Unlock()
		return
	}
	receiverID := st.receiverID
	t.clearConversation(userID, conversationID)
	t.mu.Unlock()

	t.notifier.Send(receiverID, EventUserTyping, TypingPayload{
		UserID:         userID,
		ConversationID: conversationID,
		IsTyping:       false,
	})
}

// clearConversation must be called with t.mu held.
func (t *TypingTracker) clearConversation(userID, conversationID string) {
	byConv := t.states[userID]
	st := byConv[conversationID]
	if st == nil {
		return
	}
	if st.timer != nil {
		st.timer.Stop()
	}
	st.gen++ // invalidate any in-flight expire
	delete(byConv, conversationID)
	if len(byConv) == 0 {
		delete(t.states, userID)
	}
}
