// Package server coordinates connection lifecycle, room membership, and
// message broadcast for the Salachat WebSocket system via the Hub type.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/salachat/salachat/internal/chat"
)

// Hub is the connection lifecycle controller. A single goroutine running
// Run consumes the event channel and dispatches each tagged event
// synchronously, so every mutation of the session registry and the room
// table is serialized and per-connection ordering is preserved.
type Hub struct {
	cfg      Config
	log      *zap.Logger
	registry *chat.Registry
	rooms    *chat.Rooms

	events chan hubEvent

	mu      sync.RWMutex
	clients map[chat.ConnID]*Client

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a hub ready to manage connections. Call Run in its own
// goroutine before serving any WebSocket upgrades.
func NewHub(cfg Config, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		cfg:      sanitizeConfig(cfg),
		log:      log,
		registry: chat.NewRegistry(),
		rooms:    chat.NewRooms(),
		events:   make(chan hubEvent),
		clients:  make(map[chat.ConnID]*Client),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Connect hands a freshly upgraded connection to the hub. The hub assigns
// its display name, registers it, and starts its pumps; no other event from
// the connection is processed before that completes.
func (h *Hub) Connect(client *Client) {
	if client == nil {
		h.log.Warn("ignoring nil client connect")
		return
	}
	h.post(hubEvent{kind: eventConnect, client: client})
}

// post enqueues an event for the hub loop, dropping it if the hub is
// already shutting down.
func (h *Hub) post(ev hubEvent) {
	select {
	case h.events <- ev:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main event loop. This method should be called in a
// separate goroutine as it runs until Shutdown.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.closeAllClients()
			return
		case ev := <-h.events:
			h.dispatch(ev)
		}
	}
}

func (h *Hub) dispatch(ev hubEvent) {
	switch ev.kind {
	case eventConnect:
		h.handleConnect(ev.client)
	case eventJoinRoom:
		h.handleJoinRoom(ev.client, ev.room)
	case eventTyping:
		h.handleTyping(ev.client, ev.text)
	case eventChatMessage:
		h.handleChatMessage(ev.client, ev.room, ev.text)
	case eventDisconnect:
		h.handleDisconnect(ev.client, ev.reason)
	case eventTransportError:
		// Transport errors that did not terminate the connection are
		// logged only; cleanup belongs to the disconnect path.
		h.log.Warn("transport error",
			zap.String("conn_id", string(ev.client.id)),
			zap.String("addr", ev.client.addr),
			zap.Error(ev.err))
	default:
		h.log.Error("unhandled hub event", zap.Stringer("kind", ev.kind))
	}
}

func (h *Hub) handleConnect(client *Client) {
	name := chat.RandomName()
	if err := h.registry.Register(client.id, name); err != nil {
		// Unreachable while each connection registers exactly once.
		h.log.Error("session registration failed",
			zap.String("conn_id", string(client.id)), zap.Error(err))
		return
	}
	client.name = name

	h.mu.Lock()
	h.clients[client.id] = client
	client.closed = false
	total := len(h.clients)
	h.mu.Unlock()

	h.log.Info("client connected",
		zap.String("conn_id", string(client.id)),
		zap.String("name", name),
		zap.String("addr", client.addr),
		zap.Int("total_clients", total))

	h.sendEvent(client.id, assignNameEvent{Event: wireAssignName, Name: name})

	// Pumps start only after the name is assigned, so no event from this
	// connection can be observed before connect completes. The nil guard
	// keeps hub tests free of real sockets.
	if client.conn != nil {
		h.wg.Add(2)
		go func() {
			defer h.wg.Done()
			client.writePump()
		}()
		go func() {
			defer h.wg.Done()
			client.readPump()
		}()
	}
}

func (h *Hub) handleJoinRoom(client *Client, room string) {
	if room == "" {
		h.log.Warn("join with empty room ignored",
			zap.String("conn_id", string(client.id)))
		return
	}

	name, err := h.registry.Lookup(client.id)
	if err != nil {
		h.log.Error("join from unregistered connection",
			zap.String("conn_id", string(client.id)), zap.Error(err))
		return
	}

	h.rooms.Join(client.id, room)
	h.log.Info("client joined room",
		zap.String("conn_id", string(client.id)),
		zap.String("name", name),
		zap.String("room", room))

	h.broadcast(room, systemMessageEvent{
		Event: wireSystemMessage,
		Room:  room,
		Text:  "Welcome, " + name + ".",
	})
}

func (h *Hub) handleTyping(client *Client, text string) {
	if text == "" {
		return
	}

	suggestions := chat.Suggest(text, h.registry.Names())
	if suggestions == nil {
		suggestions = []string{}
	}

	// Suggestions go back to the typist only, never to the room.
	h.sendEvent(client.id, mentionSuggestionsEvent{
		Event:       wireMentionSuggestions,
		Suggestions: suggestions,
	})
}

func (h *Hub) handleChatMessage(client *Client, room, message string) {
	if room == "" || message == "" {
		h.log.Warn("invalid chat message dropped",
			zap.String("conn_id", string(client.id)),
			zap.Bool("missing_room", room == ""),
			zap.Bool("missing_message", message == ""))
		return
	}

	sender, err := h.registry.Lookup(client.id)
	if err != nil {
		h.log.Error("message from unregistered connection",
			zap.String("conn_id", string(client.id)), zap.Error(err))
		return
	}

	rendered, mentioned := chat.ResolveAndHighlight(message, h.registry.Names())
	if len(mentioned) > 0 {
		h.log.Info("message mentions users",
			zap.String("conn_id", string(client.id)),
			zap.Strings("mentioned", mentioned))
	}

	h.log.Info("chat message",
		zap.String("conn_id", string(client.id)),
		zap.String("sender", sender),
		zap.String("room", room))

	h.broadcast(room, chatMessageEvent{
		Event:   wireChatMessage,
		Room:    room,
		Sender:  sender,
		Message: rendered,
	})
}

func (h *Hub) handleDisconnect(client *Client, reason string) {
	h.rooms.LeaveAll(client.id)
	h.registry.Remove(client.id)

	h.mu.Lock()
	if _, ok := h.clients[client.id]; !ok {
		// Cleanup already ran (error followed by disconnect); nothing to do.
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.id)
	client.closed = true
	total := len(h.clients)
	h.mu.Unlock()

	close(client.send)
	h.log.Info("client disconnected",
		zap.String("conn_id", string(client.id)),
		zap.String("name", client.name),
		zap.String("reason", reason),
		zap.Int("total_clients", total))
}

// broadcast marshals event once and fans it out to every member of room.
func (h *Hub) broadcast(room string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("marshal broadcast payload", zap.Error(err))
		return
	}
	h.rooms.Broadcast(room, payload, h.send)
}

// sendEvent marshals event and delivers it to a single connection.
func (h *Hub) sendEvent(id chat.ConnID, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("marshal event payload", zap.Error(err))
		return
	}
	_ = h.send(id, payload)
}

var errSendFailed = errors.New("send failed")

// send queues payload on one client's send channel without blocking. A
// missing, closed, or saturated client is reported as a failed send; the
// caller decides whether that matters, broadcast fan-out ignores it.
func (h *Hub) send(id chat.ConnID, payload []byte) error {
	defer func() {
		if r := recover(); r != nil {
			h.log.Warn("recovered from panic in send", zap.Any("panic", r))
		}
	}()

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[id]
	if !ok || client.closed {
		return errSendFailed
	}

	select {
	case client.send <- payload:
		return nil
	default:
		return errSendFailed
	}
}

// closeAllClients closes every active client connection during shutdown.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		if client.conn != nil {
			if err := client.conn.Close(); err != nil && !isExpectedCloseError(err) {
				h.log.Warn("error closing client connection",
					zap.String("addr", client.addr), zap.Error(err))
			}
		}
	}

	h.log.Info("closed client connections", zap.Int("count", len(clients)))
}

// Shutdown initiates graceful shutdown of the hub and waits for all client
// goroutines to complete, or until the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.log.Info("initiating hub shutdown")

	h.cancel()
	<-h.done

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		h.log.Info("hub shutdown completed")
		return nil
	case <-time.After(timeout):
		h.log.Warn("hub shutdown timeout reached")
		return context.DeadlineExceeded
	}
}
