package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/metrics"
	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/realtime"
	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
	chatrepo "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/persistence/repository/port"
)

// MarkReadInput identifies the messages a reader acknowledges.
type MarkReadInput struct {
	MessageIDs []string
	ReaderID   string
}

// MarkReadUseCase advances the given messages to read on behalf of their
// receiver and notifies each sender that is online. Only messages addressed
// to the reader and still sent or delivered transition; repeating the call
// is a no-op and raises no duplicate notifications.
type MarkReadUseCase struct {
	Repo     chatrepo.ChatRepository
	Notifier realtime.Notifier
	log      zerolog.Logger
}

func NewMarkReadUseCase(repo chatrepo.ChatRepository, notifier realtime.Notifier, log zerolog.Logger) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo, Notifier: notifier, log: log.With().Str("component", "mark_read").Logger()}
}

// Execute marks the messages read and returns the ids that transitioned.
func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) ([]string, error) {
	if in.ReaderID == "" {
		return nil, fmt.Errorf("readerId is required")
	}
	if len(in.MessageIDs) == 0 {
		return nil, nil
	}

	updated, err := uc.Repo.MarkMessagesRead(ctx, in.MessageIDs, in.ReaderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	ids := make([]string, 0, len(updated))
	for i := range updated {
		m := &updated[i]
		ids = append(ids, m.ID)
		if uc.Notifier.IsOnline(m.SenderID) {
			uc.Notifier.Send(m.SenderID, realtime.EventMessageStatusUpdate, MessageStatusPayload{
				MessageID: m.ID,
				Status:    chat.MessageStatusRead,
				ReaderID:  in.ReaderID,
			})
		}
	}
	metrics.MessagesRead.Add(float64(len(updated)))
	return ids, nil
}
