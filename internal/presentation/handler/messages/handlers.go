package messages

import (
	"errors"
	"log"
	"net/http"

	"github.com/emberlabs/ember/internal/domain"
	"github.com/emberlabs/ember/internal/infrastructure/events"
	"github.com/emberlabs/ember/internal/infrastructure/json"
	"github.com/emberlabs/ember/internal/infrastructure/metrics"
	"github.com/emberlabs/ember/internal/infrastructure/realtime"
	"github.com/emberlabs/ember/internal/infrastructure/token"
	"github.com/emberlabs/ember/internal/presentation/utils"
)

type Handler struct {
	roomRepository    domain.RoomRepository
	messageRepository domain.MessageRepository
	tokens            *token.Service
	bridge            realtime.Bridge
	auditPublisher    *events.AuditPublisher
}

func NewHandler(
	roomRepository domain.RoomRepository,
	messageRepository domain.MessageRepository,
	tokens *token.Service,
	bridge realtime.Bridge,
	auditPublisher *events.AuditPublisher,
) *Handler {
	return &Handler{
		roomRepository:    roomRepository,
		messageRepository: messageRepository,
		tokens:            tokens,
		bridge:            bridge,
		auditPublisher:    auditPublisher,
	}
}

// CreateNewMessageHandler godoc
// @Summary      Post a message to a room
// @Description  Appends a message to the room's log and announces it to subscribers. The append is durable even when the announcement fails.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        roomId query string true "Room ID"
// @Param        request body createMessageRequest true "Message content"
// @Success      204 "Message appended"
// @Failure      400 {object} map[string]interface{} "Bad request - validation error or missing room ID"
// @Failure      401 {object} map[string]interface{} "Unauthorized - token does not match room"
// @Failure      404 {object} map[string]interface{} "Room not found or expired"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Security     RoomToken
// @Router       /messages [post]
func (h *Handler) CreateNewMessageHandler(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("roomId query parameter is required"))
		return
	}

	var req createMessageRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
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

	msg, err := domain.NewMessage(roomID, bearerToken, req.Sender, req.Text)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.messageRepository.Append(ctx, msg); err != nil {
		log.Printf("Failed to append message to room %s: %v", roomID, err)
		json.WriteInternalError(w, err)
		return
	}

	metrics.MessagesAppended.Inc()

	// The announcement carries the redacted form: subscribers never see
	// another bearer's token. A failed publish is swallowed, the append
	// already happened.
	if err := h.bridge.Publish(ctx, roomID, realtime.EventChatMessage, msg.Redacted("")); err != nil {
		metrics.PublishFailures.Inc()
		log.Printf("Failed to publish message event for room %s: %v", roomID, err)
	}

	if h.auditPublisher != nil {
		if err := h.auditPublisher.PublishMessagePosted(ctx, roomID, msg.ID); err != nil {
			log.Printf("Error publishing message posted audit event: %v", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMessagesHandler godoc
// @Summary      List a room's messages
// @Description  Returns the room's full log in insertion order. Each message's token is redacted unless it belongs to the caller. An absent or expired room yields an empty list.
// @Tags         messages
// @Produce      json
// @Param        roomId query string true "Room ID"
// @Success      200 {object} listMessagesResponse "Messages in insertion order"
// @Failure      400 {object} map[string]interface{} "Bad request - missing room ID"
// @Failure      401 {object} map[string]interface{} "Unauthorized - token does not match room"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Security     RoomToken
// @Router       /messages [get]
func (h *Handler) ListMessagesHandler(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("roomId query parameter is required"))
		return
	}

	bearerToken := utils.GetBearerToken(r)
	if err := h.tokens.Validate(bearerToken, roomID); err != nil {
		json.WriteError(w, http.StatusUnauthorized, domain.ErrUnauthorized, "Missing or invalid token")
		return
	}

	msgs, err := h.messageRepository.List(r.Context(), roomID, bearerToken)
	if err != nil {
		log.Printf("Failed to list messages for room %s: %v", roomID, err)
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, listMessagesResponse{Messages: msgs})
}
