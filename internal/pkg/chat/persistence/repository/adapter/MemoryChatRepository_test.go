package adapter

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
)

func TestGetOrCreateConversationConvergesUnderConcurrency(t *testing.T) {
	repo := NewMemoryChatRepository()

	const workers = 32
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Half the workers pass the pair reversed.
			a, b := "alice", "bob"
			if i%2 == 1 {
				a, b = b, a
			}
			c, err := repo.GetOrCreateConversation(context.Background(), a, b)
			require.NoError(t, err)
			ids[i] = c.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id, "every racer must land on the same conversation")
	}

	convs, err := repo.ListConversations(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}

func TestAdvanceMessageStatusIsMonotonic(t *testing.T) {
	repo := NewMemoryChatRepository()
	msg, err := chat.NewMessage("c1", "alice", "bob", "hi", nil)
	require.NoError(t, err)
	id, err := repo.SaveMessage(context.Background(), *msg)
	require.NoError(t, err)

	advanced, err := repo.AdvanceMessageStatus(context.Background(), id, chat.MessageStatusRead)
	require.NoError(t, err)
	assert.True(t, advanced)

	// A late delivered ack must not regress a read message.
	advanced, err = repo.AdvanceMessageStatus(context.Background(), id, chat.MessageStatusDelivered)
	require.NoError(t, err)
	assert.False(t, advanced)

	stored, err := repo.GetMessage(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, chat.MessageStatusRead, stored.Status)
}

func TestMutateReactionsSerializesConcurrentToggles(t *testing.T) {
	repo := NewMemoryChatRepository()
	msg, err := chat.NewMessage("c1", "alice", "bob", "hi", nil)
	require.NoError(t, err)
	id, err := repo.SaveMessage(context.Background(), *msg)
	require.NoError(t, err)

	// An even number of same-emoji toggles per user nets out to no reaction.
	const togglesPerUser = 4
	var wg sync.WaitGroup
	for _, user := range []string{"alice", "bob"} {
		for i := 0; i < togglesPerUser; i++ {
			wg.Add(1)
			go func(user string) {
				defer wg.Done()
				_, err := repo.MutateReactions(context.Background(), id, func(rs []chat.Reaction) []chat.Reaction {
					return chat.MutateReactions(rs, user, "👍")
				})
				require.NoError(t, err)
			}(user)
		}
	}
	wg.Wait()

	stored, err := repo.GetMessage(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, stored.Reactions)
}

func TestMarkConversationReadScopedToReceiver(t *testing.T) {
	repo := NewMemoryChatRepository()
	conv, err := repo.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	toBob, err := chat.NewMessage(conv.ID, "alice", "bob", "for bob", nil)
	require.NoError(t, err)
	toBobID, err := repo.SaveMessage(context.Background(), *toBob)
	require.NoError(t, err)

	toAlice, err := chat.NewMessage(conv.ID, "bob", "alice", "for alice", nil)
	require.NoError(t, err)
	toAliceID, err := repo.SaveMessage(context.Background(), *toAlice)
	require.NoError(t, err)

	require.NoError(t, repo.MarkConversationRead(context.Background(), conv.ID, "bob"))

	bobMsg, err := repo.GetMessage(context.Background(), toBobID)
	require.NoError(t, err)
	assert.Equal(t, chat.MessageStatusRead, bobMsg.Status)

	aliceMsg, err := repo.GetMessage(context.Background(), toAliceID)
	require.NoError(t, err)
	assert.Equal(t, chat.MessageStatusSent, aliceMsg.Status, "the other direction is untouched")
}
