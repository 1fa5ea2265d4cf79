package domain

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"
)

const (
	roomIDLength = 21

	// URL-safe alphabet, 64 characters: 21 characters carry 126 bits of
	// entropy, enough to make collisions and guessing negligible.
	roomIDChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
)

var (
	roomIDCharsetLen = big.NewInt(int64(len(roomIDChars)))

	ErrUnauthorized = errors.New("capability token invalid for room")
	ErrRoomNotFound = errors.New("room not found")
)

// Room is a short-lived namespace for messages. Its existence is defined
// solely by the presence of its metadata key in the store: once that key
// expires or is deleted the room is gone, whatever the state of dependent
// keys.
type Room struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Connected []string  `json:"connected"`
}

type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	// TTL reports the room's remaining lifetime. Absent or expired rooms
	// report zero, never a negative value or an error.
	TTL(ctx context.Context, roomID string) (time.Duration, error)
	Exists(ctx context.Context, roomID string) (bool, error)
	// Destroy removes every key belonging to the room. Deleting an
	// already-destroyed room is a no-op.
	Destroy(ctx context.Context, roomID string) error
}

func NewRoom() (*Room, error) {
	id, err := generateRoomID()
	if err != nil {
		return nil, err
	}

	return &Room{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Connected: []string{},
	}, nil
}

// MetaKey is the room's metadata key. Its expiry defines the room's life.
func MetaKey(roomID string) string {
	return "meta:" + roomID
}

// MessagesKey holds the room's ordered message log. Its expiry is
// re-derived from the metadata key's remaining TTL on every append.
func MessagesKey(roomID string) string {
	return "messages:" + roomID
}

func generateRoomID() (string, error) {
	var sb strings.Builder
	sb.Grow(roomIDLength)

	for i := 0; i < roomIDLength; i++ {
		n, err := rand.Int(rand.Reader, roomIDCharsetLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(roomIDChars[n.Int64()])
	}

	return sb.String(), nil
}
