package domain

import (
	"strings"
	"testing"
)

func TestNewRoom_IDShape(t *testing.T) {
	room, err := NewRoom()
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}

	if len(room.ID) != roomIDLength {
		t.Errorf("len(room.ID) = %d, want %d", len(room.ID), roomIDLength)
	}

	for _, c := range room.ID {
		if !strings.ContainsRune(roomIDChars, c) {
			t.Errorf("room.ID contains %q, not in the allowed alphabet", c)
		}
	}

	if room.CreatedAt.IsZero() {
		t.Error("room.CreatedAt is zero")
	}
	if room.Connected == nil {
		t.Error("room.Connected is nil, want empty slice")
	}
}

func TestNewRoom_IDsAreUnique(t *testing.T) {
	seen := make(map[string]bool, 10000)

	for i := 0; i < 10000; i++ {
		room, err := NewRoom()
		if err != nil {
			t.Fatalf("NewRoom() error = %v", err)
		}
		if seen[room.ID] {
			t.Fatalf("duplicate room ID after %d rooms: %s", i, room.ID)
		}
		seen[room.ID] = true
	}
}

func TestKeyNamespaces(t *testing.T) {
	const roomID = "V1StGXR8_Z5jdHi6B-myT"

	if got, want := MetaKey(roomID), "meta:"+roomID; got != want {
		t.Errorf("MetaKey() = %q, want %q", got, want)
	}
	if got, want := MessagesKey(roomID), "messages:"+roomID; got != want {
		t.Errorf("MessagesKey() = %q, want %q", got, want)
	}
}
