package realtime

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEvent struct {
	userID string
	event  string
	data   any
}

type fakeNotifier struct {
	mu     sync.Mutex
	online map[string]bool
	sent   []sentEvent
}

func newFakeNotifier(online ...string) *fakeNotifier {
	m := make(map[string]bool, len(online))
	for _, id := range online {
		m[id] = true
	}
	return &fakeNotifier{online: m}
}

func (f *fakeNotifier) IsOnline(userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online[userID]
}

func (f *fakeNotifier) Send(userID string, event string, data any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEvent{userID: userID, event: event, data: data})
	return f.online[userID]
}

func (f *fakeNotifier) BroadcastExcept(excludedUserID string, event string, data any) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEvent{userID: "*!" + excludedUserID, event: event, data: data})
	n := 0
	for id, on := range f.online {
		if on && id != excludedUserID {
			n++
		}
	}
	return n
}

func (f *fakeNotifier) typingEvents() []TypingPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []TypingPayload
	for _, e := range f.sent {
		if e.event == EventUserTyping {
			out = append(out, e.data.(TypingPayload))
		}
	}
	return out
}

func TestTypingStartNotifiesReceiver(t *testing.T) {
	notifier := newFakeNotifier("bob")
	tracker := NewTypingTracker(notifier, 50*time.Millisecond, zerolog.Nop())

	tracker.StartTyping("alice", "c1", "bob")

	events := notifier.typingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, TypingPayload{UserID: "alice", ConversationID: "c1", IsTyping: true}, events[0])
}

func TestTypingDebounceSingleStopAfterRepeatedStarts(t *testing.T) {
	notifier := newFakeNotifier("bob")
	tracker := NewTypingTracker(notifier, 40*time.Millisecond, zerolog.Nop())

	// Repeated starts inside the window re-arm the timer instead of stacking.
	tracker.StartTyping("alice", "c1", "bob")
	time.Sleep(15 * time.Millisecond)
	tracker.StartTyping("alice", "c1", "bob")
	time.Sleep(15 * time.Millisecond)
	tracker.StartTyping("alice", "c1", "bob")

	time.Sleep(100 * time.Millisecond)

	var stops int
	for _, e := range notifier.typingEvents() {
		if !e.IsTyping {
			stops++
		}
	}
	assert.Equal(t, 1, stops, "exactly one auto-stop after the last start")
}

func TestTypingStopCancelsExpiry(t *testing.T) {
	notifier := newFakeNotifier("bob")
	tracker := NewTypingTracker(notifier, 40*time.Millisecond, zerolog.Nop())

	tracker.StartTyping("alice", "c1", "bob")
	tracker.StopTyping("alice", "c1", "bob")

	time.Sleep(100 * time.Millisecond)

	events := notifier.typingEvents()
	require.Len(t, events, 2)
	assert.True(t, events[0].IsTyping)
	assert.False(t, events[1].IsTyping)
}

func TestTypingClearUserIsSilent(t *testing.T) {
	notifier := newFakeNotifier("bob")
	tracker := NewTypingTracker(notifier, 40*time.Millisecond, zerolog.Nop())

	tracker.StartTyping("alice", "c1", "bob")
	tracker.StartTyping("alice", "c2", "carol")
	tracker.ClearUser("alice")

	time.Sleep(100 * time.Millisecond)

	for _, e := range notifier.typingEvents() {
		assert.True(t, e.IsTyping, "no stop may fire after ClearUser")
	}
}

func TestTypingConversationsAreIndependent(t *testing.T) {
	notifier := newFakeNotifier("bob", "carol")
	tracker := NewTypingTracker(notifier, 30*time.Millisecond, zerolog.Nop())

	tracker.StartTyping("alice", "c1", "bob")
	tracker.StartTyping("alice", "c2", "carol")
	tracker.StopTyping("alice", "c1", "bob")

	time.Sleep(80 * time.Millisecond)

	var c1Stops, c2Stops int
	for _, e := range notifier.typingEvents() {
		if e.IsTyping {
			continue
		}
		switch e.ConversationID {
		case "c1":
			c1Stops++
		case "c2":
			c2Stops++
		}
	}
	assert.Equal(t, 1, c1Stops)
	assert.Equal(t, 1, c2Stops, "c2 still auto-expires after c1's explicit stop")
}

func TestTypingIgnoresIncompleteInput(t *testing.T) {
	notifier := newFakeNotifier("bob")
	tracker := NewTypingTracker(notifier, 40*time.Millisecond, zerolog.Nop())

	tracker.StartTyping("", "c1", "bob")
	tracker.StartTyping("alice", "", "bob")
	tracker.StartTyping("alice", "c1", "")

	assert.Empty(t, notifier.typingEvents())
}
