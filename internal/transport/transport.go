// Package transport delivers OpenLineage events to a lineage backend.
//
// A Transport performs exactly one delivery attempt per Send call. Retry,
// backoff, and queuing are deliberately absent from this layer: a failed
// send surfaces a *Error to the caller, which owns any retry policy. This
// keeps each event atomic from the transport's perspective (one event = one
// request) with no partial-delivery state to reconcile.
package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/lineage-audit/emitter/internal/lineage"
)

// Transport serializes an event to the wire format expected by an external
// lineage service and delivers it.
//
// Implementations must not mutate the event, must perform a single delivery
// attempt per call, and should honor ctx for cancellation/timeout; the
// caller-supplied deadline is the only suspension point this layer defines.
//
// Implementations that hold connections should also implement io.Closer.
type Transport interface {
	// Send delivers one event. A nil return means the backend accepted the
	// event (or, for fire-and-forget modes, that it was handed off as the
	// implementation documents). A non-nil return is always a *Error.
	Send(ctx context.Context, event *lineage.RunEvent) error
}

// ErrSend is the sentinel all transport delivery failures wrap.
// Check with errors.Is(err, transport.ErrSend).
var ErrSend = errors.New("lineage event delivery failed")

// Error describes a single failed delivery attempt.
//
// StatusCode is the HTTP response status for the HTTP transport and zero for
// non-HTTP transports. Detail carries backend-supplied context (response
// body excerpt, broker error) when available.
type Error struct {
	Transport  string // "http", "kafka", "console"
	StatusCode int
	Detail     string
	Err        error // underlying error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("%s transport: status %d: %s", e.Transport, e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s transport: status %d", e.Transport, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s transport: %v", e.Transport, e.Err)
	default:
		return fmt.Sprintf("%s transport: %s", e.Transport, e.Detail)
	}
}

// Unwrap makes errors.Is(err, transport.ErrSend) hold for every *Error,
// while still exposing the underlying cause chain.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSend, e.Err}
	}

	return []error{ErrSend}
}

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}

	return nil, false
}
