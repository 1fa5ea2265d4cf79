package rooms

// createRoomResponse represents the response after creating a room
type createRoomResponse struct {
	RoomID string `json:"roomId" example:"V1StGXR8_Z5jdHi6B-myT"` // Unique room identifier
	Token  string `json:"token"`                                  // Capability token scoped to the room
}

// joinRoomResponse represents the response after joining an existing room
type joinRoomResponse struct {
	Token string `json:"token"` // Capability token scoped to the room
}

// ttlResponse represents the room's remaining lifetime
type ttlResponse struct {
	TTL int64 `json:"ttl" example:"594"` // Remaining lifetime in whole seconds, 0 once the room is gone
}
