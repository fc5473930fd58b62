package task

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	qport "github.com/Ishwar-meena/whatsappchat/internal/infrastructure/queue/port"
	"github.com/Ishwar-meena/whatsappchat/internal/pkg/status/application/usecase"
)

// SweepStatusTaskType is the queue task name for the periodic expiry sweep.
const SweepStatusTaskType = "status:sweep"

// RegisterSweepStatusTask binds the sweep handler to the server. Each run
// re-enqueues itself, so a single seed enqueue keeps the sweep going for the
// process group. Uniqueness over the interval stops multiple instances from
// stacking runs.
func RegisterSweepStatusTask(srv qport.Server, client qport.Client, sweep *usecase.SweepExpiredUseCase, interval time.Duration, log zerolog.Logger) {
	taskLog := log.With().Str("component", "status_sweep_task").Logger()
	srv.Register(SweepStatusTaskType, func(ctx context.Context, t qport.Task) error {
		runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		if _, err := sweep.Execute(runCtx); err != nil {
			return err
		}

		if _, err := Enqueue(ctx, client, interval); err != nil {
			// Another instance already scheduled the next run inside the
			// uniqueness window. The sweep itself succeeded.
			if errors.Is(err, qport.ErrDuplicate) {
				taskLog.Debug().Msg("next sweep already scheduled")
				return nil
			}
			taskLog.Error().Err(err).Msg("failed to re-enqueue sweep")
			return err
		}
		return nil
	})
}

// Enqueue schedules the next sweep run after delay.
func Enqueue(ctx context.Context, client qport.Client, delay time.Duration) (string, error) {
	return client.Enqueue(ctx, qport.Task{Type: SweepStatusTaskType}, qport.EnqueueOption{
		Queue:     "status",
		ProcessIn: delay,
		UniqueTTL: delay,
	})
}
