// Package server manages individual WebSocket clients, handling read/write
// pumps, rate limiting, and lifecycle control for each connection.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/salachat/salachat/internal/chat"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = 54 * time.Second
)

// Client represents one WebSocket connection in the chat system. The hub
// assigns its display name at connect time; the name never changes for the
// connection's lifetime.
type Client struct {
	id   chat.ConnID
	name string

	conn *websocket.Conn
	send chan []byte
	hub  *Hub
	addr string
	log  *zap.Logger

	closed bool

	maxMessageSize int64
	rateLimiter    *rateLimiter
	rateLimit      RateLimitConfig
}

// NewClient creates a Client for an upgraded connection. The connection
// identifier is assigned here and stays opaque to the rest of the system.
func NewClient(conn *websocket.Conn, hub *Hub, addr string) *Client {
	cfg := hub.cfg
	if conn != nil {
		conn.SetReadLimit(cfg.MaxMessageSize)
	}

	return &Client{
		id:             chat.ConnID(uuid.NewString()),
		conn:           conn,
		send:           make(chan []byte, 256),
		hub:            hub,
		addr:           addr,
		log:            hub.log,
		maxMessageSize: cfg.MaxMessageSize,
		rateLimiter:    newRateLimiter(cfg.RateLimit.Burst, cfg.RateLimit.RefillInterval),
		rateLimit:      cfg.RateLimit,
	}
}

// ID returns the opaque connection identifier.
func (c *Client) ID() chat.ConnID {
	return c.id
}

// Name returns the display name assigned by the hub, or "" before connect
// has been processed.
func (c *Client) Name() string {
	return c.name
}

func (c *Client) setupReadConnection() {
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Warn("error setting initial read deadline", zap.String("addr", c.addr), zap.Error(err))
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.Warn("error setting read deadline in pong handler", zap.String("addr", c.addr), zap.Error(err))
		}
		return nil
	})
}

// readReason classifies a read error into a human-readable disconnect
// reason for the hub's cleanup log.
func (c *Client) readReason(err error) string {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		c.log.Warn("message exceeded maximum size",
			zap.String("addr", c.addr), zap.Int64("limit", c.maxMessageSize))
		return "message too large"
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		return "client closed connection"
	case websocket.IsCloseError(err, websocket.CloseAbnormalClosure):
		return "connection lost"
	case errors.Is(err, io.EOF), isExpectedCloseError(err):
		return "connection closed"
	default:
		c.log.Warn("WebSocket read error", zap.String("addr", c.addr), zap.Error(err))
		return "transport failure"
	}
}

// processFrame decodes one inbound frame and posts the matching event to
// the hub. Malformed or unknown events are logged and dropped without
// touching any shared state.
func (c *Client) processFrame(raw []byte) {
	var ev clientEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		c.log.Warn("invalid frame from client",
			zap.String("conn_id", string(c.id)), zap.Error(err))
		return
	}

	switch ev.Event {
	case wireJoinRoom:
		c.hub.post(hubEvent{kind: eventJoinRoom, client: c, room: strings.TrimSpace(ev.Room)})
	case wireTyping:
		c.hub.post(hubEvent{kind: eventTyping, client: c, text: ev.Text})
	case wireChatMessage:
		c.hub.post(hubEvent{kind: eventChatMessage, client: c, room: strings.TrimSpace(ev.Room), text: ev.Message})
	default:
		c.log.Warn("unknown event from client",
			zap.String("conn_id", string(c.id)), zap.String("event", ev.Event))
	}
}

// readPump reads frames until the connection dies, then posts the
// disconnect event so the hub runs cleanup exactly once per connection.
func (c *Client) readPump() {
	reason := "connection closed"
	defer func() {
		c.hub.post(hubEvent{kind: eventDisconnect, client: c, reason: reason})
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			c.log.Warn("error closing connection in readPump", zap.Error(err))
		}
	}()

	c.setupReadConnection()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			reason = c.readReason(err)
			return
		}

		if !c.rateLimiter.allow() {
			c.log.Warn("rate limit exceeded; discarding event",
				zap.String("addr", c.addr),
				zap.Int("burst", c.rateLimit.Burst),
				zap.Duration("interval", c.rateLimit.RefillInterval))
			continue
		}

		c.processFrame(raw)
	}
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with periodic pings. A write failure is reported to the hub as a
// transport error; the subsequent connection close drives the disconnect
// path through readPump.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			c.log.Warn("error closing connection in writePump", zap.Error(err))
		}
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.Warn("error setting write deadline", zap.String("addr", c.addr), zap.Error(err))
				return
			}
			if !ok {
				// Hub closed the channel: say goodbye properly.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.hub.post(hubEvent{kind: eventTransportError, client: c, err: err})
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.Warn("error setting ping deadline", zap.String("addr", c.addr), zap.Error(err))
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
