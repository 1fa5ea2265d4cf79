package messaging

import "github.com/emberlabs/ember/internal/domain"

const (
	AuditQueue      = "room_audit"
	DeadLetterQueue = "dead_letter_queue"
)

type AuditEventData struct {
	Log domain.RoomAuditLog `json:"log"`
}
