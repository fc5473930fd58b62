package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/metrics"
	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/realtime"
	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
	chatrepo "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/persistence/repository/port"
	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

// SendMessageInput carries the data needed to send a new message. Media, when
// present, is the result of an already-completed upload.
type SendMessageInput struct {
	SenderID   string
	ReceiverID string
	Content    string
	Media      *chat.Media
}

// SendMessageUseCase persists a message into the pair's conversation and
// pushes it to the receiver when they are online. Delivery is advanced only
// after the push is attempted, so an offline receiver leaves the message in
// the sent state.
type SendMessageUseCase struct {
	Repo     chatrepo.ChatRepository
	Users    repository.UserRepository
	Notifier realtime.Notifier
	log      zerolog.Logger
}

func NewSendMessageUseCase(repo chatrepo.ChatRepository, users repository.UserRepository, notifier realtime.Notifier, log zerolog.Logger) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Users: users, Notifier: notifier, log: log.With().Str("component", "send_message").Logger()}
}

// Execute sends a message from sender to receiver, creating the conversation
// on first contact.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*MessageView, error) {
	if in.SenderID == "" || in.ReceiverID == "" {
		return nil, fmt.Errorf("senderId and receiverId are required")
	}
	if in.SenderID == in.ReceiverID {
		return nil, fmt.Errorf("sender and receiver must differ")
	}

	conv, err := uc.Repo.GetOrCreateConversation(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msg, err := chat.NewMessage(conv.ID, in.SenderID, in.ReceiverID, in.Content, in.Media)
	if err != nil {
		return nil, err
	}

	id, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id

	// Only text-carrying messages become the conversation preview.
	if msg.Content != "" {
		if err := uc.Repo.SetLastMessage(ctx, conv.ID, msg.ID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	if err := uc.Repo.IncrementUnread(ctx, conv.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	summaries, err := summariesFor(ctx, uc.Users, []string{msg.SenderID, msg.ReceiverID})
	if err != nil {
		return nil, err
	}
	view := messageView(msg, summaries)
	metrics.MessagesSent.Inc()

	if uc.Notifier.IsOnline(msg.ReceiverID) {
		uc.Notifier.Send(msg.ReceiverID, realtime.EventReceiveMessage, view)
		advanced, err := uc.Repo.AdvanceMessageStatus(ctx, msg.ID, chat.MessageStatusDelivered)
		if err != nil {
			uc.log.Warn().Err(err).Str("message_id", msg.ID).Msg("failed to advance message to delivered")
		} else if advanced {
			view.Status = chat.MessageStatusDelivered
			metrics.MessagesDelivered.Inc()
			uc.Notifier.Send(msg.SenderID, realtime.EventMessageStatusUpdate, MessageStatusPayload{
				MessageID: msg.ID,
				Status:    chat.MessageStatusDelivered,
			})
		}
	}

	return view, nil
}
