package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
	chatrepo "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/persistence/repository/port"
	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

// ListConversationsUseCase builds a user's conversation list with resolved
// participants and the preview message, most recently active first.
type ListConversationsUseCase struct {
	Repo  chatrepo.ChatRepository
	Users repository.UserRepository
	log   zerolog.Logger
}

func NewListConversationsUseCase(repo chatrepo.ChatRepository, users repository.UserRepository, log zerolog.Logger) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo, Users: users, log: log.With().Str("component", "list_conversations").Logger()}
}

// Execute returns the caller's conversations.
func (uc *ListConversationsUseCase) Execute(ctx context.Context, userID string) ([]ConversationView, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required")
	}

	convs, err := uc.Repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	ids := make([]string, 0, len(convs)*2)
	seen := make(map[string]struct{})
	for i := range convs {
		for _, p := range convs[i].Participants {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				ids = append(ids, p)
			}
		}
	}
	summaries, err := summariesFor(ctx, uc.Users, ids)
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(convs))
	for i := range convs {
		c := &convs[i]
		view := ConversationView{
			ID:          c.ID,
			UnreadCount: c.UnreadCount,
			UpdatedAt:   c.UpdatedAt,
			Participants: []repository.Summary{
				summaryOrStub(summaries, c.Participants[0]),
				summaryOrStub(summaries, c.Participants[1]),
			},
		}
		if c.LastMessageID != "" {
			last, err := uc.Repo.GetMessage(ctx, c.LastMessageID)
			switch err {
			case nil:
				view.LastMessage = messageView(last, summaries)
			case chat.ErrMessageNotFound:
				// Preview message was deleted; the list entry survives.
			default:
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
		}
		views = append(views, view)
	}
	return views, nil
}
