package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/rabbitmq/amqp091-go"

	"github.com/emberlabs/ember/internal/domain"
	"github.com/emberlabs/ember/internal/infrastructure/contracts"
	"github.com/emberlabs/ember/internal/infrastructure/messaging"
)

type auditConsumer struct {
	rabbitmq *messaging.RabbitMQ
	audits   domain.RoomAuditRepository
}

func NewAuditConsumer(rabbitmq *messaging.RabbitMQ, audits domain.RoomAuditRepository) *auditConsumer {
	return &auditConsumer{
		rabbitmq: rabbitmq,
		audits:   audits,
	}
}

func (c *auditConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.AuditQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var message contracts.AmqpMessage
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			return err
		}

		var payload messaging.AuditEventData
		if err := json.Unmarshal(message.Data, &payload); err != nil {
			log.Printf("Failed to unmarshal audit event: %v", err)
			return err
		}

		if err := c.audits.Log(ctx, &payload.Log); err != nil {
			log.Printf("Failed to write audit log for room %s: %v", payload.Log.RoomID, err)
			return err
		}

		return nil
	})
}
