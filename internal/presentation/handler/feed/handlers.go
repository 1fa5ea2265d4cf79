package feed

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/emberlabs/ember/internal/domain"
	"github.com/emberlabs/ember/internal/infrastructure/json"
	"github.com/emberlabs/ember/internal/infrastructure/realtime"
	"github.com/emberlabs/ember/internal/infrastructure/token"
	"github.com/emberlabs/ember/internal/infrastructure/ws"
	"github.com/emberlabs/ember/internal/presentation/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Capability tokens gate the feed, not the Origin header.
		return true
	},
}

type Handler struct {
	roomRepository domain.RoomRepository
	tokens         *token.Service
	bridge         realtime.Bridge
}

func NewHandler(
	roomRepository domain.RoomRepository,
	tokens *token.Service,
	bridge realtime.Bridge,
) *Handler {
	return &Handler{
		roomRepository: roomRepository,
		tokens:         tokens,
		bridge:         bridge,
	}
}

// SubscribeHandler godoc
// @Summary      Subscribe to a room's event feed
// @Description  Upgrades to a WebSocket and forwards chat.message and chat.destroy events for the room. Events are hints to re-fetch state, not the state itself.
// @Tags         feed
// @Param        roomId path string true "Room ID"
// @Param        token query string true "Capability token for the room"
// @Success      101 "Switching Protocols"
// @Failure      400 {object} map[string]interface{} "Bad request - missing room ID"
// @Failure      401 {object} map[string]interface{} "Unauthorized - token does not match room"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Router       /rooms/{roomId}/ws [get]
func (h *Handler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	bearerToken := utils.GetBearerToken(r)
	if err := h.tokens.Validate(bearerToken, roomID); err != nil {
		json.WriteError(w, http.StatusUnauthorized, domain.ErrUnauthorized, "Missing or invalid token")
		return
	}

	ctx := r.Context()

	exists, err := h.roomRepository.Exists(ctx, roomID)
	if err != nil {
		log.Printf("Failed to check room %s: %v", roomID, err)
		json.WriteInternalError(w, err)
		return
	}
	if !exists {
		json.WriteError(w, http.StatusNotFound, domain.ErrRoomNotFound, "Room not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed for room %s: %v", roomID, err)
		return
	}

	client := ws.NewClient(conn, uuid.NewString(), roomID)

	// The request context dies when this handler returns, the
	// subscription must outlive it.
	unsubscribe, err := h.bridge.Subscribe(
		context.Background(),
		[]string{roomID},
		[]string{realtime.EventChatMessage, realtime.EventChatDestroy},
		func(ev realtime.Event) {
			client.Send(ws.NewEvent(ev.Event, ev.Channel, ev.Payload))

			// Destruction is the feed's terminal event.
			if ev.Event == realtime.EventChatDestroy {
				client.CloseSend()
			}
		},
	)
	if err != nil {
		log.Printf("Failed to subscribe to room %s: %v", roomID, err)
		_ = conn.WriteJSON(ws.NewError(roomID, "subscription failed"))
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go func() {
		client.ReadPump()
		unsubscribe()
	}()
}
