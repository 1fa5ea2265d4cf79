// Package realtime is the fan-out bridge: publish-side for the server,
// subscribe-side for connected clients. Delivery is at-least-once and
// best-effort with no ordering or replay guarantees, so every event is a
// hint to re-fetch authoritative state, never the state itself.
package realtime

import (
	"context"
	"encoding/json"
)

const (
	// EventChatMessage announces a message was appended to the room log.
	EventChatMessage = "chat.message"
	// EventChatDestroy announces explicit destruction. Natural TTL expiry
	// is silent; clients detect it by polling the room's TTL.
	EventChatDestroy = "chat.destroy"
)

// DestroyPayload is the body of a chat.destroy event.
type DestroyPayload struct {
	IsDestroyed bool `json:"isDestroyed"`
}

// Event is the envelope delivered to subscribers. Channel is the room
// identifier the event was published on.
type Event struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type UnsubscribeFunc func()

type Bridge interface {
	// Publish sends an event to everyone subscribed to channel. Callers
	// must treat failures as non-fatal: a publish error never fails the
	// state mutation it announces.
	Publish(ctx context.Context, channel, event string, payload any) error

	// Subscribe delivers matching events to fn until the returned
	// function is called. fn runs on the bridge's goroutine and must not
	// block.
	Subscribe(ctx context.Context, channels, events []string, fn func(Event)) (UnsubscribeFunc, error)
}
