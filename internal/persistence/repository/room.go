package repository

import (
	"context"
	"time"

	"github.com/emberlabs/ember/internal/domain"
	"github.com/emberlabs/ember/internal/persistence/kv"
)

type roomRepository struct {
	store   kv.Store
	roomTTL time.Duration
}

// NewRoomRepository backs the room registry with the key-value store.
// roomTTL is fixed at construction and applied to every room created.
func NewRoomRepository(store kv.Store, roomTTL time.Duration) domain.RoomRepository {
	return &roomRepository{
		store:   store,
		roomTTL: roomTTL,
	}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	metaKey := domain.MetaKey(room.ID)

	fields := map[string]any{
		"connected": "[]",
		"createdAt": room.CreatedAt.UnixMilli(),
	}
	if err := r.store.HSet(ctx, metaKey, fields); err != nil {
		return err
	}

	// The metadata key's expiry IS the room's lifetime: when the store
	// drops it, the room is gone with no code executing.
	return r.store.Expire(ctx, metaKey, r.roomTTL)
}

func (r *roomRepository) TTL(ctx context.Context, roomID string) (time.Duration, error) {
	return r.store.TTL(ctx, domain.MetaKey(roomID))
}

func (r *roomRepository) Exists(ctx context.Context, roomID string) (bool, error) {
	return r.store.Exists(ctx, domain.MetaKey(roomID))
}

// Destroy clears every key belonging to the room in one multi-key delete.
// The bare room key has no producer today and is cleared defensively. The
// operation is idempotent: deleting absent keys is a no-op.
func (r *roomRepository) Destroy(ctx context.Context, roomID string) error {
	return r.store.Del(ctx,
		roomID,
		domain.MetaKey(roomID),
		domain.MessagesKey(roomID),
	)
}
