package messages

import "github.com/emberlabs/ember/internal/domain"

// createMessageRequest represents the request to post a new message
type createMessageRequest struct {
	Sender string `json:"sender" example:"wolf-1" minLength:"1" maxLength:"100"`          // Display name of the sender
	Text   string `json:"text" example:"Hello, everyone!" minLength:"1" maxLength:"1000"` // Message content
}

// listMessagesResponse represents the room's full log in insertion order
type listMessagesResponse struct {
	Messages []domain.Message `json:"messages"` // Messages with token-scoped redaction applied
}
