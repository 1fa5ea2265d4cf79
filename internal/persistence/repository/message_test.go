package repository

import (
	"context"
	"testing"
	"time"

	"github.com/emberlabs/ember/internal/domain"
	"github.com/emberlabs/ember/internal/persistence/kv"
)

func mustAppend(t *testing.T, repo domain.MessageRepository, roomID, token, sender, text string) *domain.Message {
	t.Helper()

	msg, err := domain.NewMessage(roomID, token, sender, text)
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}
	if err := repo.Append(context.Background(), msg); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	return msg
}

func TestMessageRepository_AppendAndListInOrder(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	rooms := NewRoomRepository(store, 600*time.Second)
	messages := NewMessageRepository(store)

	room, err := domain.NewRoom()
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}
	if err := rooms.Create(ctx, room); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	first := mustAppend(t, messages, room.ID, "tok-a", "wolf-1", "hello")
	second := mustAppend(t, messages, room.ID, "tok-a", "wolf-1", "world")

	listed, err := messages.List(ctx, room.ID, "tok-a")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("List() returned %d messages, want 2", len(listed))
	}
	if listed[0].ID != first.ID || listed[1].ID != second.ID {
		t.Errorf("List() order = [%s, %s], want [%s, %s]",
			listed[0].ID, listed[1].ID, first.ID, second.ID)
	}
}

func TestMessageRepository_ListRedactsForeignTokens(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	rooms := NewRoomRepository(store, 600*time.Second)
	messages := NewMessageRepository(store)

	room, err := domain.NewRoom()
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}
	if err := rooms.Create(ctx, room); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	mustAppend(t, messages, room.ID, "tok-a", "wolf-1", "mine")
	mustAppend(t, messages, room.ID, "tok-b", "wolf-2", "theirs")

	listed, err := messages.List(ctx, room.ID, "tok-a")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("List() returned %d messages, want 2", len(listed))
	}

	if listed[0].Token != "tok-a" {
		t.Errorf("own message token = %q, want %q", listed[0].Token, "tok-a")
	}
	if listed[1].Token != "" {
		t.Errorf("foreign message token = %q, want empty", listed[1].Token)
	}
}

func TestMessageRepository_AppendRefreshesLogExpiry(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	rooms := NewRoomRepository(store, 600*time.Second)
	messages := NewMessageRepository(store)

	room, err := domain.NewRoom()
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}
	if err := rooms.Create(ctx, room); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	mustAppend(t, messages, room.ID, "tok-a", "wolf-1", "hello")

	metaTTL, err := store.TTL(ctx, domain.MetaKey(room.ID))
	if err != nil {
		t.Fatalf("TTL(meta) error = %v", err)
	}
	logTTL, err := store.TTL(ctx, domain.MessagesKey(room.ID))
	if err != nil {
		t.Fatalf("TTL(messages) error = %v", err)
	}

	if logTTL == 0 {
		t.Fatal("messages key has no expiry after Append")
	}

	// The log key's expiry is derived from the metadata key's remaining
	// TTL, so the two must land within a breath of each other.
	diff := metaTTL - logTTL
	if diff < 0 {
		diff = -diff
	}
	if diff > time.Second {
		t.Errorf("meta TTL %v and log TTL %v diverge by %v", metaTTL, logTTL, diff)
	}
}

func TestMessageRepository_AppendToExpiredRoomStands(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	messages := NewMessageRepository(store)

	// No room metadata at all: the append goes through and the log key
	// simply never gains an expiry.
	msg := mustAppend(t, messages, "ghost-room", "tok-a", "wolf-1", "anyone there?")

	listed, err := messages.List(ctx, "ghost-room", "tok-a")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 1 || listed[0].ID != msg.ID {
		t.Fatalf("List() = %v, want the single appended message", listed)
	}

	logTTL, err := store.TTL(ctx, domain.MessagesKey("ghost-room"))
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if logTTL != 0 {
		t.Errorf("log TTL = %v, want 0 when the room is gone", logTTL)
	}
}

func TestMessageRepository_ListAbsentRoomIsEmpty(t *testing.T) {
	ctx := context.Background()
	messages := NewMessageRepository(kv.NewMemory())

	listed, err := messages.List(ctx, "never-created", "tok-a")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("List() returned %d messages, want 0", len(listed))
	}
}

func TestMessageRepository_ListSkipsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	messages := NewMessageRepository(store)

	good := mustAppend(t, messages, "room-1", "tok-a", "wolf-1", "hello")

	if err := store.RPush(ctx, domain.MessagesKey("room-1"), []byte("{not json")); err != nil {
		t.Fatalf("RPush() error = %v", err)
	}

	listed, err := messages.List(ctx, "room-1", "tok-a")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 1 || listed[0].ID != good.ID {
		t.Errorf("List() = %v, want only the well-formed message", listed)
	}
}
