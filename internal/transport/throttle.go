package transport

import (
	"context"
	"io"

	"golang.org/x/time/rate"

	"github.com/lineage-audit/emitter/internal/lineage"
)

// Throttled paces sends through a token bucket before delegating to the
// wrapped transport.
//
// This is an operational wrapper, not part of the core delivery contract:
// it delays sends to stay under a backend's ingestion rate limit, but it
// never retries, reorders, or drops an event. Waiting ends early if ctx is
// cancelled, in which case the event is not sent and the cancellation is
// surfaced as a *Error.
type Throttled struct {
	next    Transport
	limiter *rate.Limiter
}

// NewThrottled wraps next with a token bucket of eventsPerSecond sustained
// rate and burst capacity. A burst below 1 is raised to 1 so the first send
// never deadlocks.
func NewThrottled(next Transport, eventsPerSecond float64, burst int) *Throttled {
	if burst < 1 {
		burst = 1
	}

	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(eventsPerSecond), burst),
	}
}

// Send blocks until a token is available, then performs exactly one delivery
// attempt via the wrapped transport.
func (t *Throttled) Send(ctx context.Context, event *lineage.RunEvent) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return &Error{Transport: "throttle", Detail: "rate limit wait aborted", Err: err}
	}

	return t.next.Send(ctx, event)
}

// Close forwards to the wrapped transport when it holds connections.
func (t *Throttled) Close() error {
	if closer, ok := t.next.(io.Closer); ok {
		return closer.Close() //nolint:wrapcheck
	}

	return nil
}
