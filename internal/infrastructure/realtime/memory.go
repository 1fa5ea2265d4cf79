package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type memorySub struct {
	channels map[string]bool
	events   map[string]bool
	fn       func(Event)
}

// MemoryBridge is an in-process Bridge for tests. It dispatches
// synchronously and records everything it publishes, in order.
type MemoryBridge struct {
	mu        sync.Mutex
	subs      map[int]*memorySub
	nextSubID int
	published []Event
}

func NewMemoryBridge() *MemoryBridge {
	return &MemoryBridge{
		subs: make(map[int]*memorySub),
	}
}

func (b *MemoryBridge) Publish(_ context.Context, channel, event string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event, err)
	}

	ev := Event{
		Channel: channel,
		Event:   event,
		Payload: body,
	}

	b.mu.Lock()
	b.published = append(b.published, ev)
	subs := make([]*memorySub, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		if !s.channels[channel] {
			continue
		}
		if len(s.events) > 0 && !s.events[event] {
			continue
		}
		s.fn(ev)
	}
	return nil
}

func (b *MemoryBridge) Subscribe(_ context.Context, channels, events []string, fn func(Event)) (UnsubscribeFunc, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("at least one channel is required")
	}

	sub := &memorySub{
		channels: make(map[string]bool, len(channels)),
		events:   make(map[string]bool, len(events)),
		fn:       fn,
	}
	for _, c := range channels {
		sub.channels[c] = true
	}
	for _, e := range events {
		sub.events[e] = true
	}

	b.mu.Lock()
	id := b.nextSubID
	b.nextSubID++
	b.subs[id] = sub
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}, nil
}

// Subscribers reports how many subscriptions are currently active.
func (b *MemoryBridge) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}

// Published returns a copy of every event published so far.
func (b *MemoryBridge) Published() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Event, len(b.published))
	copy(out, b.published)
	return out
}
