package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the backend answers without any choice text.
var ErrEmptyCompletion = errors.New("llm: no choices returned")

// CompletionRequest is one non-streaming chat completion against an
// OpenAI-compatible endpoint.
type CompletionRequest struct {
	Endpoint    string
	Model       string
	APIKey      string
	System      string
	User        string
	Temperature float64
}

// Client issues exactly one outbound call per Complete.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// StatusError carries the upstream HTTP status of a failed call.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: upstream status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }
