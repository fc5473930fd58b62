package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	t.Run("text message", func(t *testing.T) {
		m, err := NewMessage("c1", "alice", "bob", "  hello  ", nil)
		require.NoError(t, err)
		assert.Equal(t, "hello", m.Content)
		assert.Equal(t, ContentTypeText, m.ContentType)
		assert.Equal(t, MessageStatusSent, m.Status)
		assert.Empty(t, m.MediaURL)
	})

	t.Run("media message without caption", func(t *testing.T) {
		m, err := NewMessage("c1", "alice", "bob", "", &Media{URL: "/media/x.png", Kind: ContentTypeImage})
		require.NoError(t, err)
		assert.Equal(t, ContentTypeImage, m.ContentType)
		assert.Equal(t, "/media/x.png", m.MediaURL)
	})

	t.Run("media wins over caption for content type", func(t *testing.T) {
		m, err := NewMessage("c1", "alice", "bob", "look at this", &Media{URL: "/media/v.mp4", Kind: ContentTypeVideo})
		require.NoError(t, err)
		assert.Equal(t, ContentTypeVideo, m.ContentType)
		assert.Equal(t, "look at this", m.Content)
	})

	t.Run("empty message rejected", func(t *testing.T) {
		_, err := NewMessage("c1", "alice", "bob", "   ", nil)
		assert.ErrorIs(t, err, ErrInvalidContent)
	})

	t.Run("unsupported media kind rejected", func(t *testing.T) {
		_, err := NewMessage("c1", "alice", "bob", "", &Media{URL: "/media/a.pdf", Kind: "document"})
		assert.ErrorIs(t, err, ErrUnsupportedMedia)
	})

	t.Run("missing ids rejected", func(t *testing.T) {
		_, err := NewMessage("", "alice", "bob", "hi", nil)
		assert.ErrorIs(t, err, ErrInvalidContent)
	})
}

func TestMessageStatusCanAdvanceTo(t *testing.T) {
	tests := []struct {
		from, to MessageStatus
		want     bool
	}{
		{MessageStatusSent, MessageStatusDelivered, true},
		{MessageStatusSent, MessageStatusRead, true},
		{MessageStatusDelivered, MessageStatusRead, true},
		{MessageStatusDelivered, MessageStatusSent, false},
		{MessageStatusRead, MessageStatusDelivered, false},
		{MessageStatusRead, MessageStatusSent, false},
		{MessageStatusSent, MessageStatusSent, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestMutateReactions(t *testing.T) {
	t.Run("new reaction is inserted", func(t *testing.T) {
		out := MutateReactions(nil, "alice", "👍")
		require.Len(t, out, 1)
		assert.Equal(t, Reaction{UserID: "alice", Emoji: "👍"}, out[0])
	})

	t.Run("same emoji removes the reaction", func(t *testing.T) {
		in := []Reaction{{UserID: "alice", Emoji: "👍"}}
		out := MutateReactions(in, "alice", "👍")
		assert.Empty(t, out)
	})

	t.Run("different emoji replaces the reaction", func(t *testing.T) {
		in := []Reaction{{UserID: "alice", Emoji: "👍"}}
		out := MutateReactions(in, "alice", "❤️")
		require.Len(t, out, 1)
		assert.Equal(t, "❤️", out[0].Emoji)
	})

	t.Run("one user never holds two entries", func(t *testing.T) {
		var out []Reaction
		for _, emoji := range []string{"👍", "❤️", "😂", "❤️"} {
			out = MutateReactions(out, "alice", emoji)
		}
		// last toggle on ❤️ flips 😂 -> ❤️
		require.Len(t, out, 1)
		assert.Equal(t, "❤️", out[0].Emoji)
	})

	t.Run("other users are untouched", func(t *testing.T) {
		in := []Reaction{{UserID: "alice", Emoji: "👍"}, {UserID: "bob", Emoji: "😂"}}
		out := MutateReactions(in, "alice", "👍")
		require.Len(t, out, 1)
		assert.Equal(t, "bob", out[0].UserID)
	})
}

func TestConversationHelpers(t *testing.T) {
	a, b := CanonicalPair("zoe", "adam")
	assert.Equal(t, "adam", a)
	assert.Equal(t, "zoe", b)

	c := &Conversation{Participants: [2]string{"adam", "zoe"}}
	assert.True(t, c.HasParticipant("adam"))
	assert.False(t, c.HasParticipant("eve"))
	assert.Equal(t, "zoe", c.OtherParticipant("adam"))
	assert.Equal(t, "adam", c.OtherParticipant("zoe"))
	assert.Equal(t, "", c.OtherParticipant("eve"))
}
