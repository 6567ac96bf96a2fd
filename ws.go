/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/quizbox/trivia"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 64
	maxFrameSize = 4096
)

var (
	clientsConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "quizbox",
		Name:      "clients_connected",
		Help:      "Open WebSocket connections.",
	})

	messagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quizbox",
		Name:      "messages_dropped_total",
		Help:      "Outbound messages dropped because a client fell behind.",
	})
)

// Envelope is the frame format in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type joinGame struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type answerQuestion struct {
	Answer string `json:"answer"`
}

type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	// room is guarded by the hub lock.
	room string
}

// Hub tracks open connections and the room each one has joined. It delivers
// room notifications without ever blocking the caller.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

func newHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c
	clientsConnected.Inc()
}

// unregister closes the client's send channel and returns the room it was in.
func (h *Hub) unregister(id string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[id]
	if !ok {
		return ""
	}

	delete(h.clients, id)
	close(c.send)
	clientsConnected.Dec()

	return c.room
}

func (h *Hub) roomOf(id string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if c, ok := h.clients[id]; ok {
		return c.room
	}
	return ""
}

func (h *Hub) setRoom(id, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[id]; ok {
		c.room = room
	}
}

// Tag routes room broadcasts to a connection once its join is admitted.
func (h *Hub) Tag(connID, roomID string) {
	h.setRoom(connID, roomID)
}

func encode(n trivia.Notification) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Envelope{Type: n.Event(), Data: data})
}

// deliver must be called with the hub lock held.
func (h *Hub) deliver(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		messagesDropped.Inc()
		h.logger.Debug("dropping message for slow client", zap.String("conn", c.id))
	}
}

func (h *Hub) Broadcast(roomID string, n trivia.Notification) {
	msg, err := encode(n)
	if err != nil {
		h.logger.Error("encoding notification", zap.String("event", n.Event()), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if c.room == roomID {
			h.deliver(c, msg)
		}
	}
}

func (h *Hub) Send(connID string, n trivia.Notification) {
	msg, err := encode(n)
	if err != nil {
		h.logger.Error("encoding notification", zap.String("event", n.Event()), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if c, ok := h.clients[connID]; ok {
		h.deliver(c, msg)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWebSocket(cfg *Config, hub *Hub, registry *trivia.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.logger.Debug("websocket upgrade failed", zap.String("remote", realIP(r)), zap.Error(err))
			return
		}

		client := &Client{
			id:   uuid.NewString(),
			conn: conn,
			send: make(chan []byte, sendBuffer),
		}

		hub.register(client)

		logf(cfg, "CONNECT: %s from %s", client.id, realIP(r))

		go client.writePump()
		client.readPump(hub, registry)
	}
}

func (c *Client) readPump(hub *Hub, registry *trivia.Registry) {
	defer func() {
		if room := hub.unregister(c.id); room != "" {
			registry.Leave(room, c.id)
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)

	for {
		var msg Envelope
		if err := c.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
				hub.logger.Debug("malformed frame", zap.String("conn", c.id), zap.Error(err))
				continue
			}
			return
		}

		switch msg.Type {
		case "joinGame":
			var req joinGame
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				hub.logger.Debug("malformed join", zap.String("conn", c.id), zap.Error(err))
				continue
			}
			c.join(hub, registry, req)

		case "answerQuestion":
			var req answerQuestion
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				hub.logger.Debug("malformed answer", zap.String("conn", c.id), zap.Error(err))
				continue
			}
			if room := hub.roomOf(c.id); room != "" {
				registry.Answer(room, c.id, req.Answer)
			}

		default:
			hub.logger.Debug("unknown message type", zap.String("conn", c.id), zap.String("type", msg.Type))
		}
	}
}

// join moves the connection into req.Room. The room tags the connection
// itself on admission, so a rejected join never sees room broadcasts.
func (c *Client) join(hub *Hub, registry *trivia.Registry, req joinGame) {
	req.Room = strings.TrimSpace(req.Room)
	if req.Room == "" || strings.TrimSpace(req.Username) == "" {
		hub.logger.Debug("malformed join", zap.String("conn", c.id), zap.Error(trivia.ErrInvalidJoin))
		return
	}

	prev := hub.roomOf(c.id)
	if prev != "" && prev == req.Room {
		hub.logger.Debug("ignoring repeated join", zap.String("conn", c.id), zap.String("room", prev))
		return
	}

	if prev != "" {
		registry.Leave(prev, c.id)
		hub.setRoom(c.id, "")
	}

	if err := registry.Join(req.Room, c.id, req.Username); err != nil {
		if trivia.IsRejection(err) {
			hub.logger.Debug("join rejected", zap.String("conn", c.id), zap.String("room", req.Room), zap.Error(err))
			return
		}

		hub.logger.Warn("join failed", zap.String("conn", c.id), zap.String("room", req.Room), zap.Error(err))
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}

	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
