package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/emberlabs/ember/internal/domain"
	"github.com/emberlabs/ember/internal/persistence/kv"
)

type messageRepository struct {
	store kv.Store
}

func NewMessageRepository(store kv.Store) domain.MessageRepository {
	return &messageRepository{store: store}
}

// Append pushes the message (bearer token included, for later redaction)
// onto the room's log, then re-derives the log key's expiry from the room
// metadata key's remaining TTL so all per-room keys converge on the same
// expiry instant. If the room expired mid-flight the append stands: it
// is a best-effort last message that dies with the unrefreshed log key.
func (r *messageRepository) Append(ctx context.Context, msg *domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message %s: %w", msg.ID, err)
	}

	messagesKey := domain.MessagesKey(msg.RoomID)

	if err := r.store.RPush(ctx, messagesKey, data); err != nil {
		return err
	}

	remaining, err := r.store.TTL(ctx, domain.MetaKey(msg.RoomID))
	if err != nil {
		return err
	}
	if remaining <= 0 {
		// Lost the race with expiry. No rollback; the log key keeps
		// whatever expiry it already had.
		return nil
	}

	return r.store.Expire(ctx, messagesKey, remaining)
}

func (r *messageRepository) List(ctx context.Context, roomID, bearerToken string) ([]domain.Message, error) {
	items, err := r.store.LRange(ctx, domain.MessagesKey(roomID))
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(items))
	for _, item := range items {
		var msg domain.Message
		if err := json.Unmarshal(item, &msg); err != nil {
			log.Printf("skipping malformed message in room %s: %v", roomID, err)
			continue
		}
		messages = append(messages, msg.Redacted(bearerToken))
	}

	return messages, nil
}
