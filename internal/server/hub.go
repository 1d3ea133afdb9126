// Package server streams pipeline snapshots to websocket clients.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"heightfield/internal/core"
	"heightfield/internal/pipeline"
)

// Snapshot is the message broadcast after every iteration.
type Snapshot struct {
	Type   string                 `json:"type"`
	Step   int                    `json:"step"`
	Width  int                    `json:"width"`
	Height int                    `json:"height"`
	Layer  string                 `json:"layer"`
	Cells  []uint8                `json:"cells"`
	Report pipeline.StepReport    `json:"report"`
	Params core.ParameterSnapshot `json:"params"`
}

// NewSnapshot captures the current state of p.
func NewSnapshot(p *pipeline.Pipeline) Snapshot {
	s := p.Size()
	return Snapshot{
		Type:   "snapshot",
		Step:   p.StepCount(),
		Width:  s.W,
		Height: s.H,
		Layer:  p.Layer().String(),
		Cells:  append([]uint8(nil), p.Cells()...),
		Report: p.LastReport(),
		Params: p.Parameters(),
	}
}

// Command is a control message sent by a client.
type Command struct {
	Layer string             `json:"layer,omitempty"`
	Set   map[string]float64 `json:"set,omitempty"`
	Reset bool               `json:"reset,omitempty"`
	Seed  int64              `json:"seed,omitempty"`
	Pause *bool              `json:"pause,omitempty"`
}

// Hub tracks connected clients and fans snapshots out to them.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
	latest  []byte

	commands chan Command
}

// NewHub returns an empty hub. A nil logger uses the standard logger.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:   logger,
		clients:  make(map[*websocket.Conn]*sync.Mutex),
		commands: make(chan Command, 16),
	}
}

// Commands delivers control messages received from clients.
func (h *Hub) Commands() <-chan Command { return h.commands }

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handler upgrades requests to websocket connections. New clients receive
// the latest snapshot straight away.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Println("websocket upgrade:", err)
			return
		}
		defer conn.Close()

		connMu := &sync.Mutex{}
		h.mu.Lock()
		h.clients[conn] = connMu
		latest := h.latest
		h.mu.Unlock()
		defer h.remove(conn)

		if latest != nil {
			connMu.Lock()
			err := conn.WriteMessage(websocket.TextMessage, latest)
			connMu.Unlock()
			if err != nil {
				return
			}
		}

		for {
			var cmd Command
			if err := conn.ReadJSON(&cmd); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Println("websocket read:", err)
				}
				return
			}
			select {
			case h.commands <- cmd:
			default:
				h.logger.Println("command queue full, dropping", cmd)
			}
		}
	})
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// Broadcast sends s to every client and keeps it for clients that connect
// later. Clients that fail to receive it are dropped.
func (h *Hub) Broadcast(s Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.latest = data
	targets := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for c, m := range h.clients {
		targets[c] = m
	}
	h.mu.Unlock()

	for conn, m := range targets {
		m.Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		m.Unlock()
		if err != nil {
			h.logger.Println("websocket write:", err)
			h.remove(conn)
			conn.Close()
		}
	}
	return nil
}
