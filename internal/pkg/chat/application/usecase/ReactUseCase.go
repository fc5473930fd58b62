package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/realtime"
	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
	chatrepo "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/persistence/repository/port"
	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

// ReactInput is one user's reaction toggle on a message.
type ReactInput struct {
	MessageID string
	UserID    string
	Emoji     string
}

// ReactUseCase toggles a reaction: reacting with the emoji already held
// removes it, a different emoji replaces it, none inserts it. Both ends of
// the conversation receive the full updated reaction list, so clients never
// merge deltas.
type ReactUseCase struct {
	Repo     chatrepo.ChatRepository
	Users    repository.UserRepository
	Notifier realtime.Notifier
	log      zerolog.Logger
}

func NewReactUseCase(repo chatrepo.ChatRepository, users repository.UserRepository, notifier realtime.Notifier, log zerolog.Logger) *ReactUseCase {
	return &ReactUseCase{Repo: repo, Users: users, Notifier: notifier, log: log.With().Str("component", "react").Logger()}
}

// Execute applies the toggle and fans out the resulting list.
func (uc *ReactUseCase) Execute(ctx context.Context, in ReactInput) (*ReactionUpdatePayload, error) {
	if in.MessageID == "" || in.UserID == "" || in.Emoji == "" {
		return nil, fmt.Errorf("messageId, userId and emoji are required")
	}

	msg, err := uc.Repo.MutateReactions(ctx, in.MessageID, func(reactions []chat.Reaction) []chat.Reaction {
		return chat.MutateReactions(reactions, in.UserID, in.Emoji)
	})
	if err != nil {
		if err == chat.ErrMessageNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	ids := make([]string, 0, len(msg.Reactions))
	for _, r := range msg.Reactions {
		ids = append(ids, r.UserID)
	}
	summaries, err := summariesFor(ctx, uc.Users, ids)
	if err != nil {
		return nil, err
	}

	payload := &ReactionUpdatePayload{MessageID: msg.ID, Reactions: reactionViews(msg.Reactions, summaries)}
	for _, target := range []string{msg.SenderID, msg.ReceiverID} {
		if uc.Notifier.IsOnline(target) {
			uc.Notifier.Send(target, realtime.EventReactionUpdate, payload)
		}
	}
	return payload, nil
}
