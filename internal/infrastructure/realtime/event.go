package realtime

import "encoding/json"

// Event names pushed over the live channel. The payload shape for each event
// is owned by the emitting component.
const (
	EventUserStatus          = "user_status"
	EventUserTyping          = "user_typing"
	EventReceiveMessage      = "receive_message"
	EventMessageStatusUpdate = "message_status_update"
	EventMessageDeleted      = "message_deleted"
	EventReactionUpdate      = "reaction_update"
	EventNewStatus           = "new_status"
	EventStatusViewed        = "status_viewed"
	EventStatusDeleted       = "status_deleted"
)

// Envelope is the wire frame for outbound events.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// encodeEvent marshals an event envelope for delivery.
func encodeEvent(event string, data any) ([]byte, error) {
	return json.Marshal(Envelope{Event: event, Data: data})
}

// Notifier is the outbound side of the presence layer as seen by the
// application components. Delivery is at-most-once best-effort: a false or
// zero return means some receivers were offline or unreachable, never that
// durable state must be rolled back.
type Notifier interface {
	IsOnline(userID string) bool
	Send(userID string, event string, data any) bool
	BroadcastExcept(excludedUserID string, event string, data any) int
}
