package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	RoomID string `json:"roomId"`
	Data   []byte `json:"data"`
}

// Routing keys - using consistent event/command patterns
const (
	EventRoomCreated   = "room.created"
	EventRoomDestroyed = "room.destroyed"
	EventMessagePosted = "message.posted"
)
