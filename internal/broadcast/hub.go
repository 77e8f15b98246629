// Package broadcast fans contribution events out to every live connection.
package broadcast

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"

	"globalai-knowledge/internal/language"
)

// DefaultBufferSize is the per-connection outbound buffer.
const DefaultBufferSize = 64

// Observer is notified of every event after it has been fanned out.
type Observer interface {
	Observe(Event)
}

// Subscription is one registered connection. Events is closed on Unregister
// or Hub.Close.
type Subscription struct {
	ID     string
	Label  string
	Events <-chan Event

	ch chan Event
}

// Hub owns the connection set. Register, Unregister and Close are the only
// mutation points; Submit fans out while holding the read lock so a
// concurrent Unregister can never close a channel mid-send.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*Subscription
	closed bool

	bufferSize int
	observer   Observer
	validate   *validator.Validate
	log        *slog.Logger
	now        func() time.Time
	lastID     atomic.Int64
}

// Option customizes a Hub.
type Option func(*Hub)

// WithBufferSize sets the per-connection outbound buffer.
func WithBufferSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

// WithObserver attaches an observer called after each broadcast.
func WithObserver(o Observer) Option {
	return func(h *Hub) { h.observer = o }
}

// NewHub creates a hub. Pass nil logger for default.
func NewHub(log *slog.Logger, opts ...Option) *Hub {
	if log == nil {
		log = slog.Default()
	}
	h := &Hub{
		conns:      make(map[string]*Subscription),
		bufferSize: DefaultBufferSize,
		validate:   validator.New(),
		log:        log.With("component", "broadcaster"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds a connection. Registering an id twice returns the existing
// subscription. After Close, the returned subscription's channel is already closed.
func (h *Hub) Register(connID string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.conns[connID]; ok {
		return sub
	}
	ch := make(chan Event, h.bufferSize)
	sub := &Subscription{ID: connID, Label: Label(connID), Events: ch, ch: ch}
	if h.closed {
		close(ch)
		return sub
	}
	h.conns[connID] = sub
	h.log.Info("connection registered", "conn_id", connID, "connections", len(h.conns))
	return sub
}

// Unregister removes a connection and closes its channel. Idempotent.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.conns[connID]
	if !ok {
		return
	}
	delete(h.conns, connID)
	close(sub.ch)
	h.log.Info("connection unregistered", "conn_id", connID, "connections", len(h.conns))
}

// Submit validates c, enriches it with defaults from the sender and fans it
// out to every connection registered at this moment, the sender included.
// Invalid contributions are dropped silently; ok reports whether a broadcast happened.
func (h *Hub) Submit(connID string, c Contribution) (Event, bool) {
	if err := h.validate.Struct(c); err != nil {
		h.log.Debug("contribution dropped", "conn_id", connID, "err", err)
		return Event{}, false
	}

	contributor := c.Contributor
	if contributor == "" {
		contributor = Label(connID)
	}
	now := h.now()
	ev := Event{
		ID:          h.nextID(now),
		Topic:       c.Topic,
		Content:     c.Content,
		Language:    language.Normalize(c.Language),
		Contributor: contributor,
		Time:        formatTime(now),
	}

	delivered, dropped := h.fanOut(ev)
	h.log.Debug("contribution broadcast", "conn_id", connID, "event_id", ev.ID,
		"delivered", delivered, "dropped", dropped)

	if h.observer != nil {
		h.observer.Observe(ev)
	}
	return ev, true
}

func (h *Hub) fanOut(ev Event) (delivered, dropped int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, sub := range h.conns {
		select {
		case sub.ch <- ev:
			delivered++
		default:
			// Slow consumer misses this event.
			dropped++
			h.log.Debug("dropped event for slow connection", "conn_id", id, "event_id", ev.ID)
		}
	}
	return delivered, dropped
}

// nextID is millisecond-based and strictly increasing.
func (h *Hub) nextID(now time.Time) int64 {
	for {
		last := h.lastID.Load()
		id := now.UnixMilli()
		if id <= last {
			id = last + 1
		}
		if h.lastID.CompareAndSwap(last, id) {
			return id
		}
	}
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close unregisters every connection. Later registrations are closed immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.conns {
		close(sub.ch)
		delete(h.conns, id)
	}
	h.closed = true
	h.log.Debug("broadcaster closed")
}
