package broadcast

import "time"

const (
	// InboundEvent names the message a client sends to contribute.
	InboundEvent = "knowledge_contribution"
	// OutboundEvent names the message fanned out to every connection.
	OutboundEvent = "new_contribution"

	labelPrefix = "anonymous_"
	labelIDLen  = 6
)

// Contribution is the raw inbound payload.
type Contribution struct {
	Topic       string `json:"topic" validate:"required"`
	Content     string `json:"content" validate:"required"`
	Language    string `json:"language,omitempty"`
	Contributor string `json:"contributor,omitempty"`
}

// Event is a validated, enriched contribution. It is never stored.
type Event struct {
	ID          int64  `json:"id"`
	Topic       string `json:"topic"`
	Content     string `json:"content"`
	Language    string `json:"language"`
	Contributor string `json:"contributor"`
	Time        string `json:"time"`
}

// Label derives the anonymized contributor label for a connection id.
func Label(connID string) string {
	if len(connID) > labelIDLen {
		connID = connID[:labelIDLen]
	}
	return labelPrefix + connID
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
