package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/metrics"
	statusrepo "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/persistence/repository/port"
)

// SweepExpiredUseCase removes statuses past their expiry. Reads already
// filter expired records out, so the sweep only reclaims storage and can run
// on any schedule.
type SweepExpiredUseCase struct {
	Repo statusrepo.StatusRepository
	log  zerolog.Logger
}

func NewSweepExpiredUseCase(repo statusrepo.StatusRepository, log zerolog.Logger) *SweepExpiredUseCase {
	return &SweepExpiredUseCase{Repo: repo, log: log.With().Str("component", "status_sweep").Logger()}
}

// Execute deletes expired statuses and returns how many were removed.
func (uc *SweepExpiredUseCase) Execute(ctx context.Context) (int64, error) {
	removed, err := uc.Repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if removed > 0 {
		metrics.StatusesSwept.Add(float64(removed))
		uc.log.Info().Int64("removed", removed).Msg("swept expired statuses")
	}
	return removed, nil
}
