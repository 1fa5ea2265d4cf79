package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// envelope is the wire format on the Redis channel. The channel name
// itself carries the room identifier, so only event and payload travel in
// the body.
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type redisBridge struct {
	client *redis.Client
}

func NewRedisBridge(client *redis.Client) Bridge {
	return &redisBridge{client: client}
}

func (b *redisBridge) Publish(ctx context.Context, channel, event string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event, err)
	}

	data, err := json.Marshal(envelope{Event: event, Payload: body})
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", event, err)
	}

	if err := b.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s to %s: %w", event, channel, err)
	}
	return nil
}

func (b *redisBridge) Subscribe(ctx context.Context, channels, events []string, fn func(Event)) (UnsubscribeFunc, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("at least one channel is required")
	}

	wanted := make(map[string]bool, len(events))
	for _, e := range events {
		wanted[e] = true
	}

	sub := b.client.Subscribe(ctx, channels...)

	// Force the SUBSCRIBE round trip so a dead connection surfaces here
	// instead of as a silently idle subscription.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %v: %w", channels, err)
	}

	go func() {
		for msg := range sub.Channel() {
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("realtime: dropping malformed event on %s: %v", msg.Channel, err)
				continue
			}

			if len(wanted) > 0 && !wanted[env.Event] {
				continue
			}

			fn(Event{
				Channel: msg.Channel,
				Event:   env.Event,
				Payload: env.Payload,
			})
		}
	}()

	return func() {
		_ = sub.Close()
	}, nil
}
