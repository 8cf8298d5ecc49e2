package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"rentalChat/internal/enums"
	"rentalChat/internal/models"
	socketModels "rentalChat/internal/models/socket"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startSocketServer(t *testing.T, env *testEnv) string {
	t.Helper()
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func dial(t *testing.T, url string, header http.Header) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readEvent(t *testing.T, ws *websocket.Conn) (socketModels.SocketEvent, []byte) {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var event socketModels.SocketEvent
	if err := json.Unmarshal(frame, &event); err != nil {
		t.Fatalf("decode frame %q: %v", frame, err)
	}
	return event, frame
}

func connectWithAuthFrame(t *testing.T, url, token string) *websocket.Conn {
	t.Helper()
	ws := dial(t, url, nil)
	if err := ws.WriteJSON(socketModels.SocketEvent{Type: enums.SOCKET_EVENT_AUTH, Token: token}); err != nil {
		t.Fatalf("write auth: %v", err)
	}
	if event, _ := readEvent(t, ws); event.Type != enums.SOCKET_EVENT_READY {
		t.Fatalf("expected READY, got %#v", event)
	}
	return ws
}

func TestSocketHandshakeWithHeader(t *testing.T) {
	env := newTestEnv(t)
	url := startSocketServer(t, env)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+tokenFor(t, 42, models.RoleClient))
	ws := dial(t, url, header)
	if event, _ := readEvent(t, ws); event.Type != enums.SOCKET_EVENT_READY {
		t.Fatalf("expected READY, got %#v", event)
	}
	if !env.registry.Online(42) {
		t.Fatal("expected identity to be registered")
	}
}

func TestSocketHandshakeWithQueryToken(t *testing.T) {
	env := newTestEnv(t)
	url := startSocketServer(t, env)

	ws := dial(t, url+"?token="+tokenFor(t, 7, models.RoleLandlord), nil)
	if event, _ := readEvent(t, ws); event.Type != enums.SOCKET_EVENT_READY {
		t.Fatalf("expected READY, got %#v", event)
	}
}

func TestSocketHandshakeRejected(t *testing.T) {
	env := newTestEnv(t)
	url := startSocketServer(t, env)

	tests := []struct {
		name  string
		first interface{}
	}{
		{"invalid token", socketModels.SocketEvent{Type: enums.SOCKET_EVENT_AUTH, Token: "forged"}},
		{"send before auth", socketModels.SocketEvent{Type: enums.SOCKET_EVENT_SEND_MESSAGE, SenderID: 42, ReceiverID: 7, Message: "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := dial(t, url, nil)
			if err := ws.WriteJSON(tt.first); err != nil {
				t.Fatalf("write: %v", err)
			}
			event, _ := readEvent(t, ws)
			if event.Type != enums.SOCKET_EVENT_ERROR {
				t.Fatalf("expected ERROR, got %#v", event)
			}
			if _, _, err := ws.ReadMessage(); err == nil {
				t.Fatal("expected the connection to be closed")
			}
		})
	}
	if env.registry.Count() != 0 {
		t.Fatal("rejected handshakes must not register")
	}
}

func TestSocketHandshakeTimeout(t *testing.T) {
	env := newTestEnv(t)
	url := startSocketServer(t, env)

	ws := dial(t, url, nil)
	event, _ := readEvent(t, ws)
	if event.Type != enums.SOCKET_EVENT_ERROR {
		t.Fatalf("expected ERROR after the handshake timeout, got %#v", event)
	}
}

func TestSocketRelaysOriginalFrame(t *testing.T) {
	env := newTestEnv(t)
	url := startSocketServer(t, env)

	receiver := connectWithAuthFrame(t, url, tokenFor(t, 7, models.RoleLandlord))
	sender := connectWithAuthFrame(t, url, tokenFor(t, 42, models.RoleClient))

	// Neither of these may reach the receiver, and the socket stays open.
	if err := sender.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	spoofed := `{"type":"SEND_MESSAGE","sender_id":9,"receiver_id":7,"message":"spoofed"}`
	if err := sender.WriteMessage(websocket.TextMessage, []byte(spoofed)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := sender.WriteMessage(websocket.TextMessage, []byte(`{"type":"TYPING"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	frame := `{"type":"SEND_MESSAGE","sender_id":42,"receiver_id":7,"rental_id":100,"message":"still available?","client_ref":"abc"}`
	if err := sender.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, raw := readEvent(t, receiver)
	if string(raw) != frame {
		t.Fatalf("expected the original frame verbatim, got %s", raw)
	}

	var stored []models.Message
	if err := env.db.Where("rental_id = ?", 100).Find(&stored).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(stored) != 1 || stored[0].Body != "still available?" {
		t.Fatalf("expected exactly the authenticated message stored, got %#v", stored)
	}
}

func TestSocketPushFromRestSend(t *testing.T) {
	env := newTestEnv(t)
	url := startSocketServer(t, env)
	receiver := connectWithAuthFrame(t, url, tokenFor(t, 7, models.RoleLandlord))

	rec, _ := env.do(t, http.MethodPost, "/api/chat/send", "", sendBody(42, 7, "over rest", nil))
	assertStatus(t, rec, http.StatusOK)

	event, _ := readEvent(t, receiver)
	if event.Type != enums.SOCKET_EVENT_SEND_MESSAGE || event.SenderID != 42 || event.Message != "over rest" {
		t.Fatalf("unexpected pushed event %#v", event)
	}
}

func TestSocketReconnectReplacesConnection(t *testing.T) {
	env := newTestEnv(t)
	url := startSocketServer(t, env)

	first := connectWithAuthFrame(t, url, tokenFor(t, 7, models.RoleLandlord))
	second := connectWithAuthFrame(t, url, tokenFor(t, 7, models.RoleLandlord))

	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatal("expected the first connection to be closed")
	}

	rec, _ := env.do(t, http.MethodPost, "/api/chat/send", "", sendBody(42, 7, "to the new socket", nil))
	assertStatus(t, rec, http.StatusOK)
	if event, _ := readEvent(t, second); event.Message != "to the new socket" {
		t.Fatalf("unexpected event %#v", event)
	}
	if env.registry.Count() != 1 {
		t.Fatalf("expected one live connection, got %d", env.registry.Count())
	}
}
