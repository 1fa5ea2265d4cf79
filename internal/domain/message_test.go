package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage("room-1", "tok-a", "wolf-1", "hello")
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}

	if msg.ID == "" {
		t.Error("msg.ID is empty")
	}
	if msg.Sender != "wolf-1" {
		t.Errorf("msg.Sender = %q, want %q", msg.Sender, "wolf-1")
	}
	if msg.Text != "hello" {
		t.Errorf("msg.Text = %q, want %q", msg.Text, "hello")
	}
	if msg.RoomID != "room-1" {
		t.Errorf("msg.RoomID = %q, want %q", msg.RoomID, "room-1")
	}
	if msg.Token != "tok-a" {
		t.Errorf("msg.Token = %q, want %q", msg.Token, "tok-a")
	}
	if msg.Timestamp == 0 {
		t.Error("msg.Timestamp is zero")
	}
}

func TestNewMessage_TrimsSender(t *testing.T) {
	msg, err := NewMessage("room-1", "tok-a", "  wolf-1  ", "hello")
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}
	if msg.Sender != "wolf-1" {
		t.Errorf("msg.Sender = %q, want %q", msg.Sender, "wolf-1")
	}
}

func TestNewMessage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		sender  string
		text    string
		wantErr bool
	}{
		{"valid", "wolf-1", "hello", false},
		{"empty sender", "", "hello", true},
		{"blank sender", "   ", "hello", true},
		{"empty text", "wolf-1", "", true},
		{"sender at limit", strings.Repeat("a", 100), "hello", false},
		{"sender too long", strings.Repeat("a", 101), "hello", true},
		{"text at limit", "wolf-1", strings.Repeat("b", 1000), false},
		{"text too long", "wolf-1", strings.Repeat("b", 1001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMessage("room-1", "tok-a", tt.sender, tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMessage_Redacted(t *testing.T) {
	msg, err := NewMessage("room-1", "tok-a", "wolf-1", "hello")
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}

	own := msg.Redacted("tok-a")
	if own.Token != "tok-a" {
		t.Errorf("own message token = %q, want preserved", own.Token)
	}

	other := msg.Redacted("tok-b")
	if other.Token != "" {
		t.Errorf("other bearer's view of token = %q, want empty", other.Token)
	}

	// Redaction must not touch the stored original.
	if msg.Token != "tok-a" {
		t.Errorf("original token = %q, mutated by Redacted", msg.Token)
	}
}

func TestMessage_RedactedTokenOmittedFromJSON(t *testing.T) {
	msg, err := NewMessage("room-1", "tok-a", "wolf-1", "hello")
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}

	data, err := json.Marshal(msg.Redacted("tok-b"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if strings.Contains(string(data), "token") {
		t.Errorf("redacted JSON still carries a token field: %s", data)
	}
}
