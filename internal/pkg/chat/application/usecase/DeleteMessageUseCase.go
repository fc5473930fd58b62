package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/realtime"
	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
	chatrepo "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/persistence/repository/port"
)

// DeleteMessageInput identifies the message and the user asking to remove it.
type DeleteMessageInput struct {
	MessageID   string
	RequesterID string
}

// DeleteMessageUseCase removes a message on behalf of its sender. Only the
// sender may delete; a forbidden or missing message leaves every record
// untouched.
type DeleteMessageUseCase struct {
	Repo     chatrepo.ChatRepository
	Notifier realtime.Notifier
	log      zerolog.Logger
}

func NewDeleteMessageUseCase(repo chatrepo.ChatRepository, notifier realtime.Notifier, log zerolog.Logger) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{Repo: repo, Notifier: notifier, log: log.With().Str("component", "delete_message").Logger()}
}

// Execute deletes the message and notifies the receiver when online.
func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) error {
	if in.MessageID == "" || in.RequesterID == "" {
		return fmt.Errorf("messageId and requesterId are required")
	}

	msg, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if err != nil {
		if err == chat.ErrMessageNotFound {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg.SenderID != in.RequesterID {
		return chat.ErrForbidden
	}

	if err := uc.Repo.DeleteMessage(ctx, in.MessageID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Notifier.IsOnline(msg.ReceiverID) {
		uc.Notifier.Send(msg.ReceiverID, realtime.EventMessageDeleted, MessageDeletedPayload{MessageID: msg.ID})
	}
	return nil
}
