package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const fanoutChannel = "realtime:events"

// fanoutFrame is the message exchanged between server instances. Exactly one
// of Target (direct delivery) or Exclude (broadcast) is meaningful.
type fanoutFrame struct {
	Origin  string          `json:"origin"`
	Target  string          `json:"target,omitempty"`
	Exclude string          `json:"exclude,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// localSink is the slice of the registry the fanout delivers into.
type localSink interface {
	deliverLocal(userID string, payload []byte) bool
	broadcastLocal(excludedUserID string, payload []byte) int
}

// Fanout relays realtime events between server instances over Redis pub/sub,
// so users connected to different instances behind a shared durable store
// still see each other's events. Publishing is fire-and-forget: the durable
// store remains the source of truth when a relay is missed.
type Fanout struct {
	rdb        *redis.Client
	instanceID string
	sink       localSink
	log        zerolog.Logger
}

// NewFanout constructs a fanout over the given Redis client.
func NewFanout(rdb *redis.Client, log zerolog.Logger) *Fanout {
	return &Fanout{
		rdb:        rdb,
		instanceID: uuid.NewString(),
		log:        log.With().Str("component", "fanout").Logger(),
	}
}

// Bind wires the fanout to a registry and starts the subscribe loop. The loop
// stops when ctx is cancelled.
func (f *Fanout) Bind(ctx context.Context, reg *Registry) {
	f.sink = reg
	reg.SetFanout(f)

	sub := f.rdb.Subscribe(ctx, fanoutChannel)
	go f.run(ctx, sub)
}

// PublishDirect forwards an already-encoded event for userID to other
// instances.
func (f *Fanout) PublishDirect(userID string, payload []byte) {
	f.publish(fanoutFrame{Origin: f.instanceID, Target: userID, Payload: payload})
}

// PublishBroadcast forwards an already-encoded broadcast to other instances.
func (f *Fanout) PublishBroadcast(excludedUserID string, payload []byte) {
	f.publish(fanoutFrame{Origin: f.instanceID, Exclude: excludedUserID, Payload: payload})
}

func (f *Fanout) publish(frame fanoutFrame) {
	raw, err := json.Marshal(frame)
	if err != nil {
		f.log.Error().Err(err).Msg("encode fanout frame")
		return
	}
	if err := f.rdb.Publish(context.Background(), fanoutChannel, raw).Err(); err != nil {
		f.log.Warn().Err(err).Msg("publish fanout frame")
	}
}

func (f *Fanout) run(ctx context.Context, sub *redis.PubSub) {
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			f.handle([]byte(msg.Payload))
		}
	}
}

func (f *Fanout) handle(raw []byte) {
	var frame fanoutFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		f.log.Warn().Err(err).Msg("decode fanout frame")
		return
	}
	if frame.Origin == f.instanceID {
		return
	}
	if frame.Target != "" {
		f.sink.deliverLocal(frame.Target, frame.Payload)
		return
	}
	f.sink.broadcastLocal(frame.Exclude, frame.Payload)
}
