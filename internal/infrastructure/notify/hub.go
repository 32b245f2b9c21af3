package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/taskpulse/backend/internal/infrastructure/logger"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
}

// ReminderMessage is the frame pushed to live subscribers.
type ReminderMessage struct {
	Type    string    `json:"type"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

// Hub fans reminders out to websocket subscribers keyed by address.
// Sending to an address nobody is listening on is not an error.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[Conn]struct{}
	logger *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[Conn]struct{}),
		logger: log,
	}
}

func (h *Hub) Subscribe(address string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[address]
	if !ok {
		set = make(map[Conn]struct{})
		h.subs[address] = set
	}
	set[conn] = struct{}{}
	h.logger.Debugw("ws_subscribed", "address", address, "connections", len(set))
}

func (h *Hub) Unsubscribe(address string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[address]
	delete(set, conn)
	if len(set) == 0 {
		delete(h.subs, address)
	}
}

func (h *Hub) Subscribers(address string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[address])
}

func (h *Hub) Send(ctx context.Context, address, subject, body string) error {
	h.mu.RLock()
	conns := make([]Conn, 0, len(h.subs[address]))
	for c := range h.subs[address] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return nil
	}

	msg := ReminderMessage{Type: "reminder", Subject: subject, Body: body, SentAt: time.Now().UTC()}
	var errs []error
	for _, c := range conns {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.WriteJSON(msg); err != nil {
			h.logger.Warnw("ws_write_failed", "address", address, "error", err)
			h.Unsubscribe(address, c)
			errs = append(errs, err)
		}
	}
	if len(errs) == len(conns) {
		return errors.Join(errs...)
	}
	return nil
}
