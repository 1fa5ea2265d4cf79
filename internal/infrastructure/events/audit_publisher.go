package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/emberlabs/ember/internal/domain"
	"github.com/emberlabs/ember/internal/infrastructure/contracts"
	"github.com/emberlabs/ember/internal/infrastructure/messaging"
)

// AuditPublisher emits room lifecycle events onto the audit exchange.
// Callers treat publish failures as non-fatal: the audit trail is an
// operational nicety, never part of the request's success.
type AuditPublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewAuditPublisher(rabbitmq *messaging.RabbitMQ) *AuditPublisher {
	return &AuditPublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *AuditPublisher) PublishRoomCreated(ctx context.Context, roomID string, ttl time.Duration) error {
	return p.publish(ctx, contracts.EventRoomCreated, domain.NewRoomCreatedLog(roomID, ttl))
}

func (p *AuditPublisher) PublishRoomDestroyed(ctx context.Context, roomID string) error {
	return p.publish(ctx, contracts.EventRoomDestroyed, domain.NewRoomDestroyedLog(roomID, "explicit"))
}

func (p *AuditPublisher) PublishMessagePosted(ctx context.Context, roomID, messageID string) error {
	return p.publish(ctx, contracts.EventMessagePosted, domain.NewMessagePostedLog(roomID, messageID))
}

func (p *AuditPublisher) publish(ctx context.Context, routingKey string, auditLog *domain.RoomAuditLog) error {
	payload := messaging.AuditEventData{
		Log: *auditLog,
	}

	auditEventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		RoomID: auditLog.RoomID,
		Data:   auditEventJSON,
	})
}
