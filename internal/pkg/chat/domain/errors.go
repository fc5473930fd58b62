package chat

import "errors"

var (
	// ErrInvalidContent means neither non-empty text nor a media result was
	// provided.
	ErrInvalidContent = errors.New("message requires text content or media")

	// ErrUnsupportedMedia means the media kind is neither image nor video.
	ErrUnsupportedMedia = errors.New("unsupported media type")

	// ErrConversationNotFound means the conversation does not exist.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrMessageNotFound means the message does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrForbidden means the actor does not own the entity it tried to act on.
	ErrForbidden = errors.New("access denied")
)
