package knowledge

import (
	"errors"
	"fmt"
)

// ErrorKind classifies dispatch failures.
type ErrorKind int

const (
	// InvalidInput is a caller error; never retried.
	InvalidInput ErrorKind = iota + 1
	// ConfigurationError needs operator action (e.g. a missing credential).
	ConfigurationError
	// Timeout is transient and safe to retry.
	Timeout
	// BackendError is an upstream failure; Status mirrors upstream when known.
	BackendError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case ConfigurationError:
		return "configuration_error"
	case Timeout:
		return "timeout"
	case BackendError:
		return "backend_error"
	default:
		return "unknown"
	}
}

const (
	msgEmptyQuery    = "query must not be empty"
	msgNotConfigured = "search backend is not configured"
	msgTimeout       = "request timed out, please check your network or retry later"
	msgBackendFailed = "knowledge search failed, please try another query"
)

// Error is the typed failure returned by Dispatcher.Search. Message is safe to
// show to clients; Err holds the internal cause.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the kind of a dispatch error, or 0 for foreign errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
