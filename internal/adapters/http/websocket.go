package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/geofunlab/internal/core/domain"
	"github.com/samirrijal/geofunlab/internal/core/usecases"
	"github.com/samirrijal/geofunlab/internal/pkg/metrics"
)

const (
	wsSendBuffer = 16
	wsWriteWait  = 10 * time.Second
	wsPingEvery  = 30 * time.Second
)

// wsMessage is sent from client to server.
type wsMessage struct {
	Action string `json:"action"` // "view" | "ping"
}

// wsEnvelope is sent from server to client.
type wsEnvelope struct {
	Type  string              `json:"type"` // "view" | "view_changed" | "pong" | "error"
	Event *domain.ViewChanged `json:"event,omitempty"`
	View  *usecases.View      `json:"view,omitempty"`
	Error string              `json:"error,omitempty"`
}

// wsConn is the part of *websocket.Conn the writer needs.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// wsClient is one connected browser. Only its writer goroutine touches the
// connection; everyone else queues on send.
type wsClient struct {
	id   string
	send chan []byte
	done chan struct{}
	once sync.Once
}

// enqueue queues data without blocking. It reports false when the client
// is gone or its queue is full.
func (c *wsClient) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *wsClient) close() {
	c.once.Do(func() { close(c.done) })
}

// Hub fans view events out to connected WebSocket clients. It implements
// ports.EventPublisher, so it can be fed by the NATS subscriber or directly
// by the shell when no broker is configured. Publishing never blocks: a
// client whose queue is full is disconnected.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*wsClient
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*wsClient)}
}

// PublishViewChanged queues ev for every connected client.
func (h *Hub) PublishViewChanged(ctx context.Context, ev *domain.ViewChanged) error {
	data, err := json.Marshal(wsEnvelope{Type: "view_changed", Event: ev})
	if err != nil {
		return err
	}

	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.enqueue(data) {
			slog.Warn("ws client not keeping up, disconnecting", "client", c.id)
			h.unregister(c)
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register() *wsClient {
	c := &wsClient{
		id:   uuid.NewString(),
		send: make(chan []byte, wsSendBuffer),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	metrics.ActiveWebSockets.Inc()
	return c
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()
	c.close()
	if ok {
		metrics.ActiveWebSockets.Dec()
	}
}

// writePump is the only writer of conn. It returns when the client is
// unregistered or a write fails, and closes conn so a pending read returns.
func (h *Hub) writePump(conn wsConn, c *wsClient, pingEvery time.Duration) {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()
	defer conn.Close()
	defer h.unregister(c)

	write := func(messageType int, data []byte) error {
		if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
			return err
		}
		return conn.WriteMessage(messageType, data)
	}

	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if err := write(websocket.TextMessage, data); err != nil {
				slog.Debug("ws write failed", "client", c.id, "error", err)
				return
			}
		case <-ticker.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// WebSocketHandler returns a handler that upgrades to WebSocket, sends the
// current view, then relays view events until the client goes away.
// Clients may send {"action":"view"} to get a fresh snapshot.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		client := deps.Hub.register()
		log := slog.With("client", client.id, "remote", conn.RemoteAddr().String())
		log.Info("ws client connected")

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			deps.Hub.writePump(conn, client, wsPingEvery)
		}()
		// conn is released once this handler returns
		defer func() {
			deps.Hub.unregister(client)
			wg.Wait()
			log.Info("ws client disconnected")
		}()

		view := deps.Shell.View()
		if !client.enqueue(encodeEnvelope(wsEnvelope{Type: "view", View: &view})) {
			return
		}

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if !client.enqueue(encodeEnvelope(handleClientMessage(deps, msg))) {
				return
			}
		}
	}
}

func encodeEnvelope(env wsEnvelope) []byte {
	data, err := json.Marshal(env)
	if err != nil {
		data, _ = json.Marshal(wsEnvelope{Type: "error", Error: err.Error()})
	}
	return data
}

func handleClientMessage(deps *Dependencies, msg []byte) wsEnvelope {
	var m wsMessage
	if err := json.Unmarshal(msg, &m); err != nil {
		return wsEnvelope{Type: "error", Error: "invalid JSON"}
	}
	switch m.Action {
	case "view":
		view := deps.Shell.View()
		return wsEnvelope{Type: "view", View: &view}
	case "ping":
		return wsEnvelope{Type: "pong"}
	default:
		return wsEnvelope{Type: "error", Error: "unknown action: " + m.Action}
	}
}
