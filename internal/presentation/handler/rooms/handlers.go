package rooms

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/emberlabs/ember/internal/domain"
	"github.com/emberlabs/ember/internal/infrastructure/events"
	"github.com/emberlabs/ember/internal/infrastructure/json"
	"github.com/emberlabs/ember/internal/infrastructure/metrics"
	"github.com/emberlabs/ember/internal/infrastructure/realtime"
	"github.com/emberlabs/ember/internal/infrastructure/token"
	"github.com/emberlabs/ember/internal/presentation/utils"
)

type Handler struct {
	roomRepository domain.RoomRepository
	tokens         *token.Service
	bridge         realtime.Bridge
	auditPublisher *events.AuditPublisher
	roomTTL        time.Duration
}

func NewHandler(
	roomRepository domain.RoomRepository,
	tokens *token.Service,
	bridge realtime.Bridge,
	auditPublisher *events.AuditPublisher,
	roomTTL time.Duration,
) *Handler {
	return &Handler{
		roomRepository: roomRepository,
		tokens:         tokens,
		bridge:         bridge,
		auditPublisher: auditPublisher,
		roomTTL:        roomTTL,
	}
}

// CreateRoomHandler godoc
// @Summary      Create a new chat room
// @Description  Creates an auto-expiring room and returns its identifier with the creator's capability token
// @Tags         rooms
// @Produce      json
// @Success      201 {object} createRoomResponse "Room created successfully"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /room/create [post]
func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	newRoom, err := domain.NewRoom()
	if err != nil {
		log.Printf("Failed to generate room ID: %v", err)
		json.WriteInternalError(w, err)
		return
	}

	ctx := r.Context()
	if err := h.roomRepository.Create(ctx, newRoom); err != nil {
		log.Printf("Repository error creating room %s: %v", newRoom.ID, err)
		json.WriteInternalError(w, err)
		return
	}

	bearerToken, err := h.tokens.Issue(newRoom.ID)
	if err != nil {
		log.Printf("Failed to issue token for room %s: %v", newRoom.ID, err)
		json.WriteInternalError(w, err)
		return
	}

	metrics.RoomsCreated.Inc()

	if h.auditPublisher != nil {
		if err := h.auditPublisher.PublishRoomCreated(ctx, newRoom.ID, h.roomTTL); err != nil {
			log.Printf("Error publishing room created audit event: %v", err)
		}
	}

	json.Write(w, http.StatusCreated, createRoomResponse{
		RoomID: newRoom.ID,
		Token:  bearerToken,
	})
}

// JoinRoomHandler godoc
// @Summary      Join an existing chat room
// @Description  Issues a capability token for an existing room so a second participant can post and read
// @Tags         rooms
// @Produce      json
// @Param        roomId query string true "Room ID"
// @Success      200 {object} joinRoomResponse "Token issued"
// @Failure      400 {object} map[string]interface{} "Bad request - missing room ID"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /room/join [post]
func (h *Handler) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("roomId query parameter is required"))
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

	bearerToken, err := h.tokens.Issue(roomID)
	if err != nil {
		log.Printf("Failed to issue token for room %s: %v", roomID, err)
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, joinRoomResponse{Token: bearerToken})
}

// RoomTTLHandler godoc
// @Summary      Get a room's remaining lifetime
// @Description  Reports the seconds until the room expires. A destroyed or expired room reports zero.
// @Tags         rooms
// @Produce      json
// @Param        roomId query string true "Room ID"
// @Success      200 {object} ttlResponse "Remaining lifetime"
// @Failure      400 {object} map[string]interface{} "Bad request - missing room ID"
// @Failure      401 {object} map[string]interface{} "Unauthorized - token does not match room"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Security     RoomToken
// @Router       /room/ttl [get]
func (h *Handler) RoomTTLHandler(w http.ResponseWriter, r *http.Request) {
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

	ttl, err := h.roomRepository.TTL(r.Context(), roomID)
	if err != nil {
		log.Printf("Failed to read TTL for room %s: %v", roomID, err)
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, ttlResponse{TTL: int64(ttl.Seconds())})
}

// DestroyRoomHandler godoc
// @Summary      Destroy a room
// @Description  Announces destruction to subscribers, then removes the room and everything under it. Destroying an absent room succeeds.
// @Tags         rooms
// @Produce      json
// @Param        roomId query string true "Room ID"
// @Success      204 "Room destroyed"
// @Failure      400 {object} map[string]interface{} "Bad request - missing room ID"
// @Failure      401 {object} map[string]interface{} "Unauthorized - token does not match room"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Security     RoomToken
// @Router       /room [delete]
func (h *Handler) DestroyRoomHandler(w http.ResponseWriter, r *http.Request) {
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

	ctx := r.Context()

	// Announce before deleting: subscribers must hear about destruction
	// while the channel's room still nominally exists. A failed publish
	// never blocks the deletion itself.
	if err := h.bridge.Publish(ctx, roomID, realtime.EventChatDestroy, realtime.DestroyPayload{IsDestroyed: true}); err != nil {
		metrics.PublishFailures.Inc()
		log.Printf("Failed to publish destroy event for room %s: %v", roomID, err)
	}

	if err := h.roomRepository.Destroy(ctx, roomID); err != nil {
		log.Printf("Failed to destroy room %s: %v", roomID, err)
		json.WriteInternalError(w, err)
		return
	}

	metrics.RoomsDestroyed.Inc()

	if h.auditPublisher != nil {
		if err := h.auditPublisher.PublishRoomDestroyed(ctx, roomID); err != nil {
			log.Printf("Error publishing room destroyed audit event: %v", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
