package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/realtime"
	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
	status "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/domain"
	statusadapter "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/persistence/repository/adapter"
	useradapter "github.com/Ishwar-meena/whatsappchat/internal/repository/adapter"
	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

type sentEvent struct {
	UserID string
	Event  string
	Data   any
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

type fixture struct {
	statuses *statusadapter.MemoryStatusRepository
	users    *useradapter.MemoryUserRepository
	notifier *fakeNotifier
	log      zerolog.Logger
}

func newFixture(online ...string) *fixture {
	f := &fixture{
		statuses: statusadapter.NewMemoryStatusRepository(),
		users:    useradapter.NewMemoryUserRepository(),
		notifier: newFakeNotifier(online...),
		log:      zerolog.Nop(),
	}
	f.users.Seed(repository.User{ID: "alice", Username: "Alice"})
	f.users.Seed(repository.User{ID: "bob", Username: "Bob"})
	f.users.Seed(repository.User{ID: "carol", Username: "Carol"})
	return f
}

func TestCreateStatusBroadcastsToEveryoneElse(t *testing.T) {
	f := newFixture("alice", "bob", "carol")
	uc := NewCreateStatusUseCase(f.statuses, f.users, f.notifier, 24*time.Hour, f.log)

	view, err := uc.Execute(context.Background(), CreateStatusInput{
		AuthorID: "alice", Content: "hello world",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", view.Author.Username)
	assert.NotEmpty(t, view.ID)

	assert.Len(t, f.notifier.eventsFor("bob", realtime.EventNewStatus), 1)
	assert.Len(t, f.notifier.eventsFor("carol", realtime.EventNewStatus), 1)
	assert.Empty(t, f.notifier.eventsFor("alice", realtime.EventNewStatus))

	// The broadcast never carries the author's viewer list.
	broadcast := f.notifier.eventsFor("bob", realtime.EventNewStatus)[0].Data.(StatusView)
	assert.Nil(t, broadcast.Viewers)
}

func TestCreateStatusRejectsEmptyContent(t *testing.T) {
	f := newFixture()
	uc := NewCreateStatusUseCase(f.statuses, f.users, f.notifier, 24*time.Hour, f.log)

	_, err := uc.Execute(context.Background(), CreateStatusInput{AuthorID: "alice"})
	assert.ErrorIs(t, err, chat.ErrInvalidContent)
}

func TestViewStatusFirstViewNotifiesAuthorOnce(t *testing.T) {
	f := newFixture("alice")
	create := NewCreateStatusUseCase(f.statuses, f.users, f.notifier, 24*time.Hour, f.log)
	posted, err := create.Execute(context.Background(), CreateStatusInput{
		AuthorID: "alice", Content: "look",
	})
	require.NoError(t, err)

	uc := NewViewStatusUseCase(f.statuses, f.users, f.notifier, f.log)

	require.NoError(t, uc.Execute(context.Background(), ViewStatusInput{StatusID: posted.ID, ViewerID: "bob"}))
	require.NoError(t, uc.Execute(context.Background(), ViewStatusInput{StatusID: posted.ID, ViewerID: "bob"}))

	notices := f.notifier.eventsFor("alice", realtime.EventStatusViewed)
	require.Len(t, notices, 1, "repeat views raise no duplicate notification")
	payload := notices[0].Data.(StatusViewedPayload)
	assert.Equal(t, posted.ID, payload.StatusID)
	assert.Equal(t, "bob", payload.ViewerID)
	assert.Equal(t, "Bob", payload.Viewer.Username)
	assert.Equal(t, 1, payload.TotalViewers)
	require.Len(t, payload.Viewers, 1)
	assert.Equal(t, "Bob", payload.Viewers[0].Username)

	stored, err := f.statuses.FindByID(context.Background(), posted.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, stored.Viewers)
}

func TestViewStatusAuthorViewIsNoop(t *testing.T) {
	f := newFixture("alice")
	create := NewCreateStatusUseCase(f.statuses, f.users, f.notifier, 24*time.Hour, f.log)
	posted, err := create.Execute(context.Background(), CreateStatusInput{
		AuthorID: "alice", Content: "mine",
	})
	require.NoError(t, err)

	uc := NewViewStatusUseCase(f.statuses, f.users, f.notifier, f.log)
	require.NoError(t, uc.Execute(context.Background(), ViewStatusInput{StatusID: posted.ID, ViewerID: "alice"}))

	stored, err := f.statuses.FindByID(context.Background(), posted.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Viewers, "the author never appears in their own viewer list")
	assert.Empty(t, f.notifier.eventsFor("alice", realtime.EventStatusViewed))
}

func TestViewStatusUnknownID(t *testing.T) {
	f := newFixture()
	uc := NewViewStatusUseCase(f.statuses, f.users, f.notifier, f.log)

	err := uc.Execute(context.Background(), ViewStatusInput{StatusID: "missing", ViewerID: "bob"})
	assert.ErrorIs(t, err, status.ErrNotFound)
}

func TestViewStatusExpiredBehavesLikeMissing(t *testing.T) {
	f := newFixture("alice")
	stale, err := status.New("alice", "old news", nil, -time.Hour)
	require.NoError(t, err)
	id, err := f.statuses.Save(context.Background(), *stale)
	require.NoError(t, err)

	uc := NewViewStatusUseCase(f.statuses, f.users, f.notifier, f.log)
	err = uc.Execute(context.Background(), ViewStatusInput{StatusID: id, ViewerID: "bob"})
	assert.ErrorIs(t, err, status.ErrNotFound)
	assert.Empty(t, f.notifier.eventsFor("alice", realtime.EventStatusViewed))
}

func TestListStatusesHidesViewersFromOthers(t *testing.T) {
	f := newFixture()
	create := NewCreateStatusUseCase(f.statuses, f.users, f.notifier, 24*time.Hour, f.log)
	posted, err := create.Execute(context.Background(), CreateStatusInput{
		AuthorID: "alice", Content: "hi",
	})
	require.NoError(t, err)

	view := NewViewStatusUseCase(f.statuses, f.users, f.notifier, f.log)
	require.NoError(t, view.Execute(context.Background(), ViewStatusInput{StatusID: posted.ID, ViewerID: "bob"}))

	list := NewListStatusesUseCase(f.statuses, f.users, f.log)

	mine, err := list.Execute(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Len(t, mine[0].Viewers, 1)
	assert.Equal(t, "Bob", mine[0].Viewers[0].Username)

	theirs, err := list.Execute(context.Background(), "carol")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Nil(t, theirs[0].Viewers)
}

func TestDeleteStatus(t *testing.T) {
	f := newFixture("bob", "carol")
	create := NewCreateStatusUseCase(f.statuses, f.users, f.notifier, 24*time.Hour, f.log)
	posted, err := create.Execute(context.Background(), CreateStatusInput{
		AuthorID: "alice", Content: "temporary",
	})
	require.NoError(t, err)

	uc := NewDeleteStatusUseCase(f.statuses, f.notifier, f.log)

	t.Run("only the author may delete", func(t *testing.T) {
		err := uc.Execute(context.Background(), DeleteStatusInput{StatusID: posted.ID, RequesterID: "bob"})
		assert.ErrorIs(t, err, status.ErrForbidden)
	})

	t.Run("author delete removes and announces", func(t *testing.T) {
		require.NoError(t, uc.Execute(context.Background(), DeleteStatusInput{StatusID: posted.ID, RequesterID: "alice"}))

		_, err := f.statuses.FindByID(context.Background(), posted.ID)
		assert.ErrorIs(t, err, status.ErrNotFound)

		notices := f.notifier.eventsFor("bob", realtime.EventStatusDeleted)
		require.Len(t, notices, 1)
		assert.Equal(t, posted.ID, notices[0].Data.(StatusDeletedPayload).StatusID)
	})
}

func TestSweepExpired(t *testing.T) {
	f := newFixture()

	fresh, err := status.New("alice", "fresh", nil, 24*time.Hour)
	require.NoError(t, err)
	_, err = f.statuses.Save(context.Background(), *fresh)
	require.NoError(t, err)

	stale, err := status.New("bob", "stale", nil, -time.Hour)
	require.NoError(t, err)
	_, err = f.statuses.Save(context.Background(), *stale)
	require.NoError(t, err)

	uc := NewSweepExpiredUseCase(f.statuses, f.log)
	removed, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	active, err := f.statuses.ListActive(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "fresh", active[0].Content)

	// A second sweep finds nothing.
	removed, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
