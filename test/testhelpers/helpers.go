// Package testhelpers provides common utilities and helper functions for
// testing the Salachat server.
//
// This package contains reusable test utilities that are shared across the
// integration tests: starting a fully wired server, dialing WebSocket
// clients, and exchanging chat events with deadlines.
package testhelpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/salachat/salachat/internal/server"
)

// Event mirrors every envelope the server can emit, for test decoding.
type Event struct {
	Event       string   `json:"event"`
	Name        string   `json:"name"`
	Room        string   `json:"room"`
	Sender      string   `json:"sender"`
	Text        string   `json:"text"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// StartServer wires a hub and router the way cmd/server does and serves
// them from an httptest server. Cleanup is registered on t.
func StartServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := server.NewConfig()
	cfg.AllowedOrigins = []string{"*"}

	hub := server.NewHub(*cfg, zap.NewNop())
	go hub.Run()

	router := server.NewRouter(hub, *cfg, zap.NewNop())
	ts := httptest.NewServer(router.Routes())

	t.Cleanup(func() {
		ts.Close()
		_ = hub.Shutdown(2 * time.Second)
	})
	return ts
}

// WebSocketURL converts an httptest server URL into its ws:// /ws endpoint.
func WebSocketURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

// Connect dials a WebSocket client and waits for its assignName event,
// returning the connection and the assigned display name.
func Connect(t *testing.T, ts *httptest.Server) (*websocket.Conn, string) {
	t.Helper()

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	headers := http.Header{}
	headers.Set("Origin", "http://localhost:8080")

	conn, resp, err := dialer.Dial(WebSocketURL(ts), headers)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("failed to connect WebSocket client: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	ev := ReceiveEvent(t, conn)
	if ev.Event != "assignName" || ev.Name == "" {
		t.Fatalf("expected assignName as the first event, got %+v", ev)
	}
	return conn, ev.Name
}

// SendEvent writes one JSON event to the server.
func SendEvent(t *testing.T, conn *websocket.Conn, event map[string]string) {
	t.Helper()
	if err := conn.WriteJSON(event); err != nil {
		t.Fatalf("failed to send event %v: %v", event, err)
	}
}

// ReceiveEvent reads the next event, failing the test after a short deadline.
func ReceiveEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("failed to set read deadline: %v", err)
	}

	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	return ev
}

// WaitForEvent reads events until one with the wanted name arrives,
// discarding others. It fails the test if the deadline passes first.
func WaitForEvent(t *testing.T, conn *websocket.Conn, name string) Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ev := ReceiveEvent(t, conn)
		if ev.Event == name {
			return ev
		}
	}
	t.Fatalf("timed out waiting for %q event", name)
	return Event{}
}

// ExpectSilence asserts that no event arrives within the given window.
// The timed-out read poisons the connection, so this must be the last
// operation performed on it.
func ExpectSilence(t *testing.T, conn *websocket.Conn, window time.Duration) {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(window)); err != nil {
		t.Fatalf("failed to set read deadline: %v", err)
	}

	var ev Event
	if err := conn.ReadJSON(&ev); err == nil {
		t.Fatalf("expected no event, got %+v", ev)
	}
}

// CloseWebSocket gracefully closes a WebSocket connection.
func CloseWebSocket(conn *websocket.Conn) error {
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		return err
	}
	return conn.Close()
}
