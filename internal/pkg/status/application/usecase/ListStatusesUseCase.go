package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	status "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/domain"
	statusrepo "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/persistence/repository/port"
	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

// ListStatusesUseCase returns all unexpired statuses for a caller. Viewer
// lists are included only on the caller's own posts.
type ListStatusesUseCase struct {
	Repo  statusrepo.StatusRepository
	Users repository.UserRepository
	log   zerolog.Logger
}

func NewListStatusesUseCase(repo statusrepo.StatusRepository, users repository.UserRepository, log zerolog.Logger) *ListStatusesUseCase {
	return &ListStatusesUseCase{Repo: repo, Users: users, log: log.With().Str("component", "list_statuses").Logger()}
}

// Execute lists active statuses newest first.
func (uc *ListStatusesUseCase) Execute(ctx context.Context, callerID string) ([]StatusView, error) {
	if callerID == "" {
		return nil, fmt.Errorf("userId is required")
	}

	active, err := uc.Repo.ListActive(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	summaries, err := summariesFor(ctx, uc.Users, statusParticipantIDs(active, callerID))
	if err != nil {
		return nil, err
	}

	views := make([]StatusView, 0, len(active))
	for i := range active {
		views = append(views, statusView(&active[i], callerID, summaries))
	}
	return views, nil
}

// statusParticipantIDs collects author ids for all statuses plus viewer ids
// for the caller's own, deduplicated.
func statusParticipantIDs(statuses []status.Status, callerID string) []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for i := range statuses {
		add(statuses[i].AuthorID)
		if statuses[i].AuthorID == callerID {
			for _, v := range statuses[i].Viewers {
				add(v)
			}
		}
	}
	return ids
}
