package ws

import "encoding/json"

// Frame types mirror the bridge's event names; NewEvent passes them
// through untouched. Only the error frame is minted here.
const ErrorEvent = "error"

type WSMessage struct {
	Type   string          `json:"type"`
	RoomID string          `json:"roomId"`
	Data   json.RawMessage `json:"data"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func NewEvent(eventType, roomID string, payload json.RawMessage) *WSMessage {
	return &WSMessage{
		Type:   eventType,
		RoomID: roomID,
		Data:   payload,
	}
}

func NewError(roomID, message string) *WSMessage {
	data, _ := json.Marshal(ErrorPayload{Message: message})

	return &WSMessage{
		Type:   ErrorEvent,
		RoomID: roomID,
		Data:   data,
	}
}
