package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/realtime"
	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
)

func TestMarkReadNotifiesSenderOncePerMessage(t *testing.T) {
	f := newFixture("alice")
	send := NewSendMessageUseCase(f.chats, f.users, f.notifier, f.log)
	view, err := send.Execute(context.Background(), SendMessageInput{
		SenderID: "alice", ReceiverID: "bob", Content: "hi",
	})
	require.NoError(t, err)
	f.notifier.reset()

	uc := NewMarkReadUseCase(f.chats, f.notifier, f.log)

	updated, err := uc.Execute(context.Background(), MarkReadInput{
		MessageIDs: []string{view.ID}, ReaderID: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{view.ID}, updated)

	receipts := f.notifier.eventsFor("alice", realtime.EventMessageStatusUpdate)
	require.Len(t, receipts, 1)
	payload := receipts[0].Data.(MessageStatusPayload)
	assert.Equal(t, chat.MessageStatusRead, payload.Status)
	assert.Equal(t, "bob", payload.ReaderID)

	// Repeating the ack is a no-op: no transition, no second receipt.
	updated, err = uc.Execute(context.Background(), MarkReadInput{
		MessageIDs: []string{view.ID}, ReaderID: "bob",
	})
	require.NoError(t, err)
	assert.Empty(t, updated)
	assert.Len(t, f.notifier.eventsFor("alice", realtime.EventMessageStatusUpdate), 1)
}

func TestMarkReadOnlyTouchesOwnInbound(t *testing.T) {
	f := newFixture()
	send := NewSendMessageUseCase(f.chats, f.users, f.notifier, f.log)
	view, err := send.Execute(context.Background(), SendMessageInput{
		SenderID: "alice", ReceiverID: "bob", Content: "hi",
	})
	require.NoError(t, err)

	uc := NewMarkReadUseCase(f.chats, f.notifier, f.log)

	// The sender cannot read-ack their own message.
	updated, err := uc.Execute(context.Background(), MarkReadInput{
		MessageIDs: []string{view.ID}, ReaderID: "alice",
	})
	require.NoError(t, err)
	assert.Empty(t, updated)

	stored, err := f.chats.GetMessage(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.MessageStatusSent, stored.Status)

	// Unknown ids are skipped rather than failing the batch.
	updated, err = uc.Execute(context.Background(), MarkReadInput{
		MessageIDs: []string{"missing", view.ID}, ReaderID: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{view.ID}, updated)
}

func TestMarkReadEmptyBatch(t *testing.T) {
	f := newFixture()
	uc := NewMarkReadUseCase(f.chats, f.notifier, f.log)

	updated, err := uc.Execute(context.Background(), MarkReadInput{ReaderID: "bob"})
	require.NoError(t, err)
	assert.Empty(t, updated)

	_, err = uc.Execute(context.Background(), MarkReadInput{MessageIDs: []string{"m1"}})
	assert.Error(t, err)
}
