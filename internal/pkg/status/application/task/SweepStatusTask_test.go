package task

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qport "github.com/Ishwar-meena/whatsappchat/internal/infrastructure/queue/port"
	"github.com/Ishwar-meena/whatsappchat/internal/pkg/status/application/usecase"
	statusadapter "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/persistence/repository/adapter"
)

type fakeServer struct {
	handlers map[string]qport.Handler
}

func newFakeServer() *fakeServer {
	return &fakeServer{handlers: make(map[string]qport.Handler)}
}

func (s *fakeServer) Register(taskType string, h qport.Handler) { s.handlers[taskType] = h }
func (s *fakeServer) Run(ctx context.Context) error             { return nil }
func (s *fakeServer) Stop(ctx context.Context) error            { return nil }

type fakeClient struct {
	enqueueErr error
	opts       []qport.EnqueueOption
}

func (c *fakeClient) Enqueue(ctx context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	if len(opts) > 0 {
		c.opts = append(c.opts, opts[0])
	}
	if c.enqueueErr != nil {
		return "", c.enqueueErr
	}
	return "task-id", nil
}

func (c *fakeClient) Close() error { return nil }

func newSweepFixture(t *testing.T, client *fakeClient, interval time.Duration) qport.Handler {
	t.Helper()
	srv := newFakeServer()
	sweep := usecase.NewSweepExpiredUseCase(statusadapter.NewMemoryStatusRepository(), zerolog.Nop())
	RegisterSweepStatusTask(srv, client, sweep, interval, zerolog.Nop())
	h, ok := srv.handlers[SweepStatusTaskType]
	require.True(t, ok, "sweep handler must be registered under its task type")
	return h
}

func TestSweepReschedulesItself(t *testing.T) {
	client := &fakeClient{}
	h := newSweepFixture(t, client, time.Hour)

	require.NoError(t, h(context.Background(), qport.Task{Type: SweepStatusTaskType}))

	require.Len(t, client.opts, 1)
	assert.Equal(t, "status", client.opts[0].Queue)
	assert.Equal(t, time.Hour, client.opts[0].ProcessIn)
	assert.Equal(t, time.Hour, client.opts[0].UniqueTTL)
}

func TestSweepTreatsDuplicateScheduleAsSuccess(t *testing.T) {
	client := &fakeClient{enqueueErr: fmt.Errorf("%w: task already pending", qport.ErrDuplicate)}
	h := newSweepFixture(t, client, time.Hour)

	assert.NoError(t, h(context.Background(), qport.Task{Type: SweepStatusTaskType}))
}

func TestSweepSurfacesRescheduleFailure(t *testing.T) {
	broken := errors.New("redis gone")
	client := &fakeClient{enqueueErr: broken}
	h := newSweepFixture(t, client, time.Hour)

	err := h(context.Background(), qport.Task{Type: SweepStatusTaskType})
	assert.ErrorIs(t, err, broken)
}
