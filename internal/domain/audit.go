package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RoomEventType string

const (
	AuditRoomCreated   RoomEventType = "room_created"
	AuditRoomDestroyed RoomEventType = "room_destroyed"
	AuditMessagePosted RoomEventType = "message_posted"
)

// RoomAuditLog records a lifecycle event for operational history. It
// carries identifiers and counts only, never message content or tokens,
// so the room's own data stays fully erasable.
type RoomAuditLog struct {
	ID        string         `bson:"_id" json:"id"`
	RoomID    string         `bson:"room_id" json:"roomId"`
	EventType RoomEventType  `bson:"event_type" json:"eventType"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type RoomAuditRepository interface {
	Log(ctx context.Context, log *RoomAuditLog) error
	GetByRoomID(ctx context.Context, roomID string, limit int) ([]RoomAuditLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
	EnsureIndexes(ctx context.Context) error
}

func NewRoomCreatedLog(roomID string, ttl time.Duration) *RoomAuditLog {
	return &RoomAuditLog{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		EventType: AuditRoomCreated,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"ttl_seconds": ttl.Seconds(),
		},
	}
}

func NewRoomDestroyedLog(roomID string, reason string) *RoomAuditLog {
	return &RoomAuditLog{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		EventType: AuditRoomDestroyed,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"reason": reason, // "explicit" is the only producer today
		},
	}
}

func NewMessagePostedLog(roomID, messageID string) *RoomAuditLog {
	return &RoomAuditLog{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		EventType: AuditMessagePosted,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"message_id": messageID,
		},
	}
}
