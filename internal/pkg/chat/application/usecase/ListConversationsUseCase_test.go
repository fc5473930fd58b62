package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListConversations(t *testing.T) {
	f := newFixture()
	send := NewSendMessageUseCase(f.chats, f.users, f.notifier, f.log)

	first, err := send.Execute(context.Background(), SendMessageInput{
		SenderID: "alice", ReceiverID: "bob", Content: "to bob",
	})
	require.NoError(t, err)
	second, err := send.Execute(context.Background(), SendMessageInput{
		SenderID: "alice", ReceiverID: "carol", Content: "to carol",
	})
	require.NoError(t, err)

	uc := NewListConversationsUseCase(f.chats, f.users, f.log)

	views, err := uc.Execute(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Most recently active first.
	assert.Equal(t, second.ConversationID, views[0].ID)
	assert.Equal(t, first.ConversationID, views[1].ID)

	require.NotNil(t, views[0].LastMessage)
	assert.Equal(t, "to carol", views[0].LastMessage.Content)
	assert.Equal(t, 1, views[0].UnreadCount)

	names := []string{views[1].Participants[0].Username, views[1].Participants[1].Username}
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, names)

	// Bob only sees his own thread.
	views, err = uc.Execute(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, first.ConversationID, views[0].ID)

	// Carol's view of a user with no threads.
	views, err = uc.Execute(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestListConversationsSurvivesDeletedPreview(t *testing.T) {
	f := newFixture()
	send := NewSendMessageUseCase(f.chats, f.users, f.notifier, f.log)
	view, err := send.Execute(context.Background(), SendMessageInput{
		SenderID: "alice", ReceiverID: "bob", Content: "gone soon",
	})
	require.NoError(t, err)

	del := NewDeleteMessageUseCase(f.chats, f.notifier, f.log)
	require.NoError(t, del.Execute(context.Background(), DeleteMessageInput{
		MessageID: view.ID, RequesterID: "alice",
	}))

	uc := NewListConversationsUseCase(f.chats, f.users, f.log)
	views, err := uc.Execute(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].LastMessage)
}
