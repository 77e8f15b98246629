// Package relay mirrors broadcast contributions onto an external message bus
// so other systems can observe them. It only publishes: nothing is consumed,
// replayed or stored.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"globalai-knowledge/internal/broadcast"
	"globalai-knowledge/internal/retry"
)

// Relay publishes opaque payloads to a subject (NATS) or channel (Redis).
type Relay interface {
	Publish(ctx context.Context, subject string, payload []byte) error
	Close() error
}

// PublishWithRetry attempts to publish with retries and capped exponential backoff.
func PublishWithRetry(ctx context.Context, r Relay, subject string, payload []byte, attempts int, base time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		if err := r.Publish(ctx, subject, payload); err == nil {
			return nil
		} else if attempt == attempts-1 {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.CappedBackoff(attempt, base, 2*time.Second)):
		}
	}
	return nil
}

// envelope is the wire shape on the bus.
type envelope struct {
	Event string          `json:"event"`
	Data  broadcast.Event `json:"data"`
}

// Forwarder adapts a Relay to broadcast.Observer. Publishing runs off the
// submitter's goroutine and is bounded by Timeout.
type Forwarder struct {
	relay    Relay
	subject  string
	log      *slog.Logger
	attempts int
	base     time.Duration
	timeout  time.Duration
	publish  func(func())
}

// NewForwarder builds a forwarder publishing to subject.
func NewForwarder(r Relay, subject string, log *slog.Logger) *Forwarder {
	if log == nil {
		log = slog.Default()
	}
	return &Forwarder{
		relay:    r,
		subject:  subject,
		log:      log.With("component", "relay"),
		attempts: 3,
		base:     200 * time.Millisecond,
		timeout:  5 * time.Second,
		publish:  func(f func()) { go f() },
	}
}

// Observe implements broadcast.Observer.
func (f *Forwarder) Observe(ev broadcast.Event) {
	body, err := json.Marshal(envelope{Event: broadcast.OutboundEvent, Data: ev})
	if err != nil {
		f.log.Error("marshal event failed", "event_id", ev.ID, "err", err)
		return
	}
	f.publish(func() {
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()
		if err := PublishWithRetry(ctx, f.relay, f.subject, body, f.attempts, f.base); err != nil {
			f.log.Warn("relay publish failed", "event_id", ev.ID, "subject", f.subject, "err", err)
		}
	})
}

// Noop discards everything; used when RELAY_PROVIDER=none.
type Noop struct{}

func (Noop) Publish(context.Context, string, []byte) error { return nil }
func (Noop) Close() error { return nil }

var errEmptySubject = errors.New("relay: subject required")
