// Package net exposes the dungeon engine over HTTP and websockets. The hub
// owns the subscriber set; the presenter translates engine callbacks into
// broadcast frames.
package net

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Frame is the wire envelope every client receives.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Command is a parsed client request forwarded to the engine loop.
type Command struct {
	Kind string `json:"kind"`
}

const (
	CommandEndTurn = "end_turn"
)

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans frames out to every connected client.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Broadcast serializes one frame and sends it to every subscriber. Failed
// subscribers are dropped.
func (h *Hub) Broadcast(frameType string, data any) {
	payload, err := json.Marshal(Frame{Type: frameType, Data: data})
	if err != nil {
		log.Printf("hub: marshal frame %s: %v", frameType, err)
		return
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.send(payload); err != nil {
			h.drop(sub)
		}
	}
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	sub.conn.Close()
}

// SubscriberCount reports the live connection count.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Handler upgrades websocket requests and pumps client commands into the
// engine channel. The read loop runs on the request goroutine.
func (h *Hub) Handler(commands chan<- Command) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("hub: upgrade: %v", err)
			return
		}
		sub := &subscriber{conn: conn}
		h.mu.Lock()
		h.subs[sub] = struct{}{}
		h.mu.Unlock()

		defer h.drop(sub)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var cmd Command
			if err := json.Unmarshal(data, &cmd); err != nil {
				continue
			}
			if cmd.Kind == "" {
				continue
			}
			select {
			case commands <- cmd:
			default:
				// Engine backlog full; the client can resend.
			}
		}
	}
}
