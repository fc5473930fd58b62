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

// GetMessagesInput carries parameters to fetch a conversation's messages.
type GetMessagesInput struct {
	ConversationID string
	UserID         string
}

// GetMessagesUseCase returns a conversation's messages for one participant.
// Fetching doubles as the read acknowledgement: every message addressed to
// the caller is marked read and the unread counter resets. The returned
// views carry the statuses as they were before the update, so the client
// renders exactly what it had at open time and learns of its own read via
// the counterpart's receipts.
type GetMessagesUseCase struct {
	Repo     chatrepo.ChatRepository
	Users    repository.UserRepository
	Notifier realtime.Notifier
	log      zerolog.Logger
}

func NewGetMessagesUseCase(repo chatrepo.ChatRepository, users repository.UserRepository, notifier realtime.Notifier, log zerolog.Logger) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo, Users: users, Notifier: notifier, log: log.With().Str("component", "get_messages").Logger()}
}

// Execute lists the conversation oldest-first and acknowledges reads.
func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) ([]MessageView, error) {
	if in.ConversationID == "" || in.UserID == "" {
		return nil, fmt.Errorf("conversationId and userId are required")
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		if err == chat.ErrConversationNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.UserID) {
		return nil, chat.ErrForbidden
	}

	messages, err := uc.Repo.ListMessages(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := uc.Repo.MarkConversationRead(ctx, in.ConversationID, in.UserID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := uc.Repo.ResetUnread(ctx, in.ConversationID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Tell the counterpart their messages were read.
	peer := conv.OtherParticipant(in.UserID)
	peerOnline := uc.Notifier.IsOnline(peer)
	var read int
	for i := range messages {
		m := &messages[i]
		if m.ReceiverID != in.UserID || m.Status == chat.MessageStatusRead {
			continue
		}
		read++
		if peerOnline {
			uc.Notifier.Send(peer, realtime.EventMessageStatusUpdate, MessageStatusPayload{
				MessageID: m.ID,
				Status:    chat.MessageStatusRead,
				ReaderID:  in.UserID,
			})
		}
	}
	metrics.MessagesRead.Add(float64(read))

	summaries, err := summariesFor(ctx, uc.Users, messageParticipantIDs(messages))
	if err != nil {
		return nil, err
	}
	views := make([]MessageView, 0, len(messages))
	for i := range messages {
		views = append(views, *messageView(&messages[i], summaries))
	}
	return views, nil
}
