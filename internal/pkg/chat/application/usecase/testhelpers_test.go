package usecase

import (
	"sync"

	"github.com/rs/zerolog"

	chatadapter "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/persistence/repository/adapter"
	useradapter "github.com/Ishwar-meena/whatsappchat/internal/repository/adapter"
	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

type sentEvent struct {
	UserID string
	Event  string
	Data   any
}

// fakeNotifier records Send/Broadcast calls and lets tests flip users online.
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
	f.sent = append(f.sent, sentEvent{UserID: userID, Event: event, Data: data})
	return f.online[userID]
}

func (f *fakeNotifier) BroadcastExcept(excludedUserID string, event string, data any) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id, on := range f.online {
		if !on || id == excludedUserID {
			continue
		}
		f.sent = append(f.sent, sentEvent{UserID: id, Event: event, Data: data})
		n++
	}
	return n
}

func (f *fakeNotifier) eventsFor(userID, event string) []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentEvent
	for _, e := range f.sent {
		if e.UserID == userID && e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeNotifier) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

// fixture bundles the in-memory stores shared by the use case tests.
type fixture struct {
	chats    *chatadapter.MemoryChatRepository
	users    *useradapter.MemoryUserRepository
	notifier *fakeNotifier
	log      zerolog.Logger
}

func newFixture(online ...string) *fixture {
	f := &fixture{
		chats:    chatadapter.NewMemoryChatRepository(),
		users:    useradapter.NewMemoryUserRepository(),
		notifier: newFakeNotifier(online...),
		log:      zerolog.Nop(),
	}
	f.users.Seed(repository.User{ID: "alice", Username: "Alice"})
	f.users.Seed(repository.User{ID: "bob", Username: "Bob"})
	f.users.Seed(repository.User{ID: "carol", Username: "Carol"})
	return f
}
