package relay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// NATS publishes on a core NATS connection.
type NATS struct {
	log *slog.Logger
	nc  *nats.Conn
}

// DialNATS connects to url.
func DialNATS(url string, log *slog.Logger) (*NATS, error) {
	nc, err := nats.Connect(url, nats.Name("globalai-knowledge"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewNATS(log, nc), nil
}

// NewNATS wraps an existing connection.
func NewNATS(log *slog.Logger, nc *nats.Conn) *NATS {
	return &NATS{log: log, nc: nc}
}

func (n *NATS) Publish(_ context.Context, subject string, payload []byte) error {
	if subject == "" {
		return errEmptySubject
	}
	return n.nc.Publish(subject, payload)
}

// Close flushes pending messages and closes the connection.
func (n *NATS) Close() error {
	if err := n.nc.Drain(); err != nil {
		n.log.Warn("nats drain failed", "err", err)
		n.nc.Close()
	}
	return nil
}
