package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/realtime"
	status "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/domain"
	statusrepo "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/persistence/repository/port"
)

// DeleteStatusInput identifies the status and the user asking to remove it.
type DeleteStatusInput struct {
	StatusID    string
	RequesterID string
}

// DeleteStatusUseCase removes a status on behalf of its author and tells
// everyone else to drop it.
type DeleteStatusUseCase struct {
	Repo     statusrepo.StatusRepository
	Notifier realtime.Notifier
	log      zerolog.Logger
}

func NewDeleteStatusUseCase(repo statusrepo.StatusRepository, notifier realtime.Notifier, log zerolog.Logger) *DeleteStatusUseCase {
	return &DeleteStatusUseCase{Repo: repo, Notifier: notifier, log: log.With().Str("component", "delete_status").Logger()}
}

// Execute deletes the status.
func (uc *DeleteStatusUseCase) Execute(ctx context.Context, in DeleteStatusInput) error {
	if in.StatusID == "" || in.RequesterID == "" {
		return fmt.Errorf("statusId and requesterId are required")
	}

	s, err := uc.Repo.FindByID(ctx, in.StatusID)
	if err != nil {
		if err == status.ErrNotFound {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if s.AuthorID != in.RequesterID {
		return status.ErrForbidden
	}

	if err := uc.Repo.Delete(ctx, in.StatusID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.Notifier.BroadcastExcept(in.RequesterID, realtime.EventStatusDeleted, StatusDeletedPayload{StatusID: in.StatusID})
	return nil
}
