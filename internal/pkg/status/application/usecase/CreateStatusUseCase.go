package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/metrics"
	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/realtime"
	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
	status "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/domain"
	statusrepo "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/persistence/repository/port"
	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

// CreateStatusInput carries a new status post. Media, when present, is the
// result of an already-completed upload.
type CreateStatusInput struct {
	AuthorID string
	Content  string
	Media    *chat.Media
}

// CreateStatusUseCase posts an ephemeral status and announces it to every
// connected user except the author.
type CreateStatusUseCase struct {
	Repo     statusrepo.StatusRepository
	Users    repository.UserRepository
	Notifier realtime.Notifier
	TTL      time.Duration
	log      zerolog.Logger
}

func NewCreateStatusUseCase(repo statusrepo.StatusRepository, users repository.UserRepository, notifier realtime.Notifier, ttl time.Duration, log zerolog.Logger) *CreateStatusUseCase {
	return &CreateStatusUseCase{Repo: repo, Users: users, Notifier: notifier, TTL: ttl, log: log.With().Str("component", "create_status").Logger()}
}

// Execute persists the status and broadcasts it.
func (uc *CreateStatusUseCase) Execute(ctx context.Context, in CreateStatusInput) (*StatusView, error) {
	if in.AuthorID == "" {
		return nil, fmt.Errorf("authorId is required")
	}

	s, err := status.New(in.AuthorID, in.Content, in.Media, uc.TTL)
	if err != nil {
		return nil, err
	}

	id, err := uc.Repo.Save(ctx, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.ID = id
	metrics.StatusesCreated.Inc()

	summaries, err := summariesFor(ctx, uc.Users, []string{s.AuthorID})
	if err != nil {
		return nil, err
	}
	view := statusView(s, s.AuthorID, summaries)

	// The broadcast copy never carries the viewer list.
	broadcast := view
	broadcast.Viewers = nil
	uc.Notifier.BroadcastExcept(s.AuthorID, realtime.EventNewStatus, broadcast)

	return &view, nil
}
