// Package knowledge dispatches natural-language questions to a language
// model backend and normalizes the answer.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"globalai-knowledge/internal/language"
	"globalai-knowledge/internal/llm"
	"globalai-knowledge/internal/registry"
)

const (
	DefaultTimeout     = 15 * time.Second
	DefaultTemperature = 0.2
)

// Request is one inbound question.
type Request struct {
	Text        string
	Language    string
	BackendID   string
	WantSources bool
}

// SourceRef is an illustrative citation attached on request.
type SourceRef struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

// Result is the normalized answer.
type Result struct {
	Answer    string      `json:"answer"`
	Language  string      `json:"language"`
	Model     string      `json:"model"`
	RequestID string      `json:"requestId"`
	Sources   []SourceRef `json:"sources,omitempty"`
}

// placeholderSources stands in for a real retrieval system.
var placeholderSources = []SourceRef{
	{Kind: "encyclopedia", Title: "Global Knowledge Encyclopedia (2025)"},
	{Kind: "academic", Title: "Cross-Cultural Studies Quarterly"},
}

// Dispatcher resolves a backend and issues exactly one outbound call per Search.
type Dispatcher struct {
	registry    *registry.Registry
	client      llm.Client
	log         *slog.Logger
	ids         *IDGenerator
	timeout     time.Duration
	temperature float64
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout bounds the outbound call.
func WithTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

// WithTemperature sets the sampling temperature sent to backends.
func WithTemperature(t float64) Option {
	return func(disp *Dispatcher) { disp.temperature = t }
}

// WithIDGenerator replaces the request id source.
func WithIDGenerator(g *IDGenerator) Option {
	return func(disp *Dispatcher) { disp.ids = g }
}

func NewDispatcher(reg *registry.Registry, client llm.Client, log *slog.Logger, opts ...Option) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		registry:    reg,
		client:      client,
		log:         log.With("component", "dispatcher"),
		ids:         NewIDGenerator(),
		timeout:     DefaultTimeout,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search answers req. Errors are always *Error.
func (d *Dispatcher) Search(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return Result{}, &Error{Kind: InvalidInput, Status: http.StatusBadRequest, Message: msgEmptyQuery}
	}
	lang := language.Normalize(req.Language)

	backend := d.registry.Resolve(req.BackendID)
	log := d.log.With("backend", backend.ID, "model", backend.ModelName, "language", lang)

	key, err := d.registry.Credential(backend)
	if err != nil {
		log.Error("backend credential missing", "err", err)
		return Result{}, &Error{Kind: ConfigurationError, Status: http.StatusInternalServerError, Message: msgNotConfigured, Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	answer, err := d.client.Complete(callCtx, llm.CompletionRequest{
		Endpoint:    backend.EndpointURL,
		Model:       backend.ModelName,
		APIKey:      key,
		System:      systemPrompt(lang),
		User:        req.Text,
		Temperature: d.temperature,
	})
	if err != nil {
		derr := classify(callCtx, err)
		log.Error("backend call failed", "kind", derr.Kind.String(), "status", derr.Status, "err", err,
			"duration_ms", time.Since(start).Milliseconds())
		return Result{}, derr
	}

	res := Result{
		Answer:    answer,
		Language:  lang,
		Model:     backend.ModelName,
		RequestID: d.ids.Next(),
	}
	if req.WantSources {
		res.Sources = append([]SourceRef(nil), placeholderSources...)
	}
	log.Debug("search answered", "request_id", res.RequestID, "duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

func classify(callCtx context.Context, err error) *Error {
	if isTimeout(callCtx, err) {
		return &Error{Kind: Timeout, Status: http.StatusGatewayTimeout, Message: msgTimeout, Err: err}
	}
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode >= http.StatusBadRequest {
		return &Error{Kind: BackendError, Status: statusErr.StatusCode, Message: msgBackendFailed, Err: err}
	}
	return &Error{Kind: BackendError, Message: msgBackendFailed, Err: err}
}

func isTimeout(callCtx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func systemPrompt(lang string) string {
	return fmt.Sprintf("You are the AI assistant of a global knowledge base. Answer in the language with code %q. "+
		"Be accurate and neutral. When a question touches religion, culture or other sensitive topics, "+
		"respect diversity and present the different viewpoints instead of asserting a single one.", lang)
}
