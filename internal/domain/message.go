package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emberlabs/ember/internal/infrastructure/validate"
)

const (
	senderMaxLength = 100
	textMaxLength   = 1000
)

// Message is an immutable entry in a room's append-only log. The bearer's
// capability token is stored alongside the message so that a later list
// call can tell the sender's own messages apart; it is compared, never
// exposed to other bearers.
type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	RoomID    string `json:"roomId"`
	Token     string `json:"token,omitempty"`
}

type MessageRepository interface {
	Append(ctx context.Context, msg *Message) error
	// List returns the room's full log in insertion order, with each
	// message's token redacted unless it equals bearerToken.
	List(ctx context.Context, roomID, bearerToken string) ([]Message, error)
}

func NewMessage(roomID, token, sender, text string) (*Message, error) {
	validateSender := validate.Field("sender", validate.Required(), validate.MaxLength(senderMaxLength))
	validateText := validate.Field("text", validate.Required(), validate.MaxLength(textMaxLength))

	if err := validateSender(sender); err != nil {
		return nil, err
	}
	if err := validateText(text); err != nil {
		return nil, err
	}

	return &Message{
		ID:        uuid.NewString(),
		Sender:    strings.TrimSpace(sender),
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
		RoomID:    roomID,
		Token:     token,
	}, nil
}

// Redacted returns a copy safe to serve to bearerToken: the stored token
// survives only on the bearer's own messages.
func (m Message) Redacted(bearerToken string) Message {
	if m.Token != bearerToken {
		m.Token = ""
	}
	return m
}
