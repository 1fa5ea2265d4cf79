package messages

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/emberlabs/ember/internal/domain"
	"github.com/emberlabs/ember/internal/infrastructure/realtime"
	"github.com/emberlabs/ember/internal/infrastructure/token"
	"github.com/emberlabs/ember/internal/persistence/kv"
	"github.com/emberlabs/ember/internal/persistence/repository"
)

type testEnv struct {
	handler  *Handler
	rooms    domain.RoomRepository
	messages domain.MessageRepository
	tokens   *token.Service
	bridge   *realtime.MemoryBridge
	store    *kv.Memory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := kv.NewMemory()
	rooms := repository.NewRoomRepository(store, 600*time.Second)
	messages := repository.NewMessageRepository(store)
	tokens := token.NewService("test-secret", "test-issuer")
	bridge := realtime.NewMemoryBridge()

	return &testEnv{
		handler:  NewHandler(rooms, messages, tokens, bridge, nil),
		rooms:    rooms,
		messages: messages,
		tokens:   tokens,
		bridge:   bridge,
		store:    store,
	}
}

func (env *testEnv) newRoom(t *testing.T) (string, string) {
	t.Helper()

	room, err := domain.NewRoom()
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}
	if err := env.rooms.Create(context.Background(), room); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	bearer, err := env.tokens.Issue(room.ID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return room.ID, bearer
}

func postMessage(env *testEnv, roomID, bearer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/messages?roomId="+roomID, strings.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.handler.CreateNewMessageHandler(rec, req)
	return rec
}

func listMessages(t *testing.T, env *testEnv, roomID, bearer string) []domain.Message {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/messages?roomId="+roomID, nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	env.handler.ListMessagesHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp listMessagesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	return resp.Messages
}

func TestCreateNewMessageHandler(t *testing.T) {
	env := newTestEnv(t)
	roomID, bearer := env.newRoom(t)

	rec := postMessage(env, roomID, bearer, `{"sender":"wolf-1","text":"hello"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("post status = %d, want %d, body %s", rec.Code, http.StatusNoContent, rec.Body)
	}

	listed := listMessages(t, env, roomID, bearer)
	if len(listed) != 1 {
		t.Fatalf("listed %d messages, want 1", len(listed))
	}
	if listed[0].Sender != "wolf-1" || listed[0].Text != "hello" {
		t.Errorf("listed message = %+v", listed[0])
	}
	if listed[0].Token != bearer {
		t.Errorf("own message token = %q, want the bearer token", listed[0].Token)
	}

	published := env.bridge.Published()
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	if published[0].Channel != roomID || published[0].Event != realtime.EventChatMessage {
		t.Errorf("published event = %+v", published[0])
	}

	// The fan-out payload never carries anyone's token.
	var announced domain.Message
	if err := json.Unmarshal(published[0].Payload, &announced); err != nil {
		t.Fatalf("decode announced message: %v", err)
	}
	if announced.Token != "" {
		t.Errorf("announced token = %q, want empty", announced.Token)
	}
}

func TestCreateNewMessageHandler_RequiresToken(t *testing.T) {
	env := newTestEnv(t)
	roomID, bearer := env.newRoom(t)

	rec := postMessage(env, roomID, "", `{"sender":"wolf-1","text":"hello"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("post status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// A rejected post must leave no trace.
	if listed := listMessages(t, env, roomID, bearer); len(listed) != 0 {
		t.Errorf("listed %d messages after rejected post, want 0", len(listed))
	}
	if published := env.bridge.Published(); len(published) != 0 {
		t.Errorf("published %d events after rejected post, want 0", len(published))
	}
}

func TestCreateNewMessageHandler_RejectsForeignToken(t *testing.T) {
	env := newTestEnv(t)
	roomID, _ := env.newRoom(t)
	_, foreignBearer := env.newRoom(t)

	rec := postMessage(env, roomID, foreignBearer, `{"sender":"wolf-1","text":"hello"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("post status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestCreateNewMessageHandler_AbsentRoom(t *testing.T) {
	env := newTestEnv(t)

	bearer, err := env.tokens.Issue("never-created")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	rec := postMessage(env, "never-created", bearer, `{"sender":"wolf-1","text":"hello"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("post status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCreateNewMessageHandler_ExpiredRoom(t *testing.T) {
	env := newTestEnv(t)

	store := kv.NewMemory()
	rooms := repository.NewRoomRepository(store, 10*time.Millisecond)
	msgs := repository.NewMessageRepository(store)
	env.handler = NewHandler(rooms, msgs, env.tokens, env.bridge, nil)

	room, err := domain.NewRoom()
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}
	if err := rooms.Create(context.Background(), room); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	bearer, err := env.tokens.Issue(room.ID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	// The token is still signature-valid; the room is simply gone.
	rec := postMessage(env, room.ID, bearer, `{"sender":"wolf-1","text":"hello"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("post status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCreateNewMessageHandler_Validation(t *testing.T) {
	env := newTestEnv(t)
	roomID, bearer := env.newRoom(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty sender", `{"sender":"","text":"hello"}`},
		{"empty text", `{"sender":"wolf-1","text":""}`},
		{"text too long", `{"sender":"wolf-1","text":"` + strings.Repeat("x", 1001) + `"}`},
		{"unknown field", `{"sender":"wolf-1","text":"hi","admin":true}`},
		{"not json", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postMessage(env, roomID, bearer, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("post status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestListMessagesHandler_RedactsForeignTokens(t *testing.T) {
	env := newTestEnv(t)
	roomID, bearerA := env.newRoom(t)

	bearerB, err := env.tokens.Issue(roomID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if rec := postMessage(env, roomID, bearerA, `{"sender":"wolf-1","text":"from a"}`); rec.Code != http.StatusNoContent {
		t.Fatalf("post status = %d", rec.Code)
	}
	if rec := postMessage(env, roomID, bearerB, `{"sender":"wolf-2","text":"from b"}`); rec.Code != http.StatusNoContent {
		t.Fatalf("post status = %d", rec.Code)
	}

	listed := listMessages(t, env, roomID, bearerA)
	if len(listed) != 2 {
		t.Fatalf("listed %d messages, want 2", len(listed))
	}
	if listed[0].Token != bearerA {
		t.Errorf("own message token = %q, want preserved", listed[0].Token)
	}
	if listed[1].Token != "" {
		t.Errorf("foreign message token = %q, want empty", listed[1].Token)
	}
}

func TestListMessagesHandler_RequiresMatchingToken(t *testing.T) {
	env := newTestEnv(t)
	roomID, _ := env.newRoom(t)
	_, foreignBearer := env.newRoom(t)

	req := httptest.NewRequest(http.MethodGet, "/api/messages?roomId="+roomID, nil)
	req.Header.Set("Authorization", "Bearer "+foreignBearer)
	rec := httptest.NewRecorder()
	env.handler.ListMessagesHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("list status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestListMessagesHandler_DestroyedRoomIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	roomID, bearer := env.newRoom(t)

	if rec := postMessage(env, roomID, bearer, `{"sender":"wolf-1","text":"hello"}`); rec.Code != http.StatusNoContent {
		t.Fatalf("post status = %d", rec.Code)
	}

	if err := env.rooms.Destroy(context.Background(), roomID); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}

	// The token still verifies; the log is simply gone.
	if listed := listMessages(t, env, roomID, bearer); len(listed) != 0 {
		t.Errorf("listed %d messages after destroy, want 0", len(listed))
	}
}
