package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/realtime"
	status "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/domain"
	statusrepo "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/persistence/repository/port"
	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

// ViewStatusInput records one user looking at a status.
type ViewStatusInput struct {
	StatusID string
	ViewerID string
}

// ViewStatusUseCase records a status view. The author looking at their own
// post and repeat views are silent no-ops; only the first view by another
// user notifies the author, and only while they are online.
type ViewStatusUseCase struct {
	Repo     statusrepo.StatusRepository
	Users    repository.UserRepository
	Notifier realtime.Notifier
	log      zerolog.Logger
}

func NewViewStatusUseCase(repo statusrepo.StatusRepository, users repository.UserRepository, notifier realtime.Notifier, log zerolog.Logger) *ViewStatusUseCase {
	return &ViewStatusUseCase{Repo: repo, Users: users, Notifier: notifier, log: log.With().Str("component", "view_status").Logger()}
}

// Execute registers the view.
func (uc *ViewStatusUseCase) Execute(ctx context.Context, in ViewStatusInput) error {
	if in.StatusID == "" || in.ViewerID == "" {
		return fmt.Errorf("statusId and viewerId are required")
	}

	s, err := uc.Repo.FindByID(ctx, in.StatusID)
	if err != nil {
		if err == status.ErrNotFound {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if s.Expired(time.Now()) {
		return status.ErrNotFound
	}
	if s.AuthorID == in.ViewerID {
		return nil
	}

	s, added, err := uc.Repo.AddViewer(ctx, in.StatusID, in.ViewerID)
	if err != nil {
		if err == status.ErrNotFound {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !added {
		return nil
	}

	if uc.Notifier.IsOnline(s.AuthorID) {
		summaries, err := summariesFor(ctx, uc.Users, s.Viewers)
		if err != nil {
			return err
		}
		viewers := make([]repository.Summary, 0, len(s.Viewers))
		for _, id := range s.Viewers {
			viewers = append(viewers, summaryOrStub(summaries, id))
		}
		uc.Notifier.Send(s.AuthorID, realtime.EventStatusViewed, StatusViewedPayload{
			StatusID:     s.ID,
			ViewerID:     in.ViewerID,
			Viewer:       summaryOrStub(summaries, in.ViewerID),
			TotalViewers: len(s.Viewers),
			Viewers:      viewers,
		})
	}
	return nil
}
