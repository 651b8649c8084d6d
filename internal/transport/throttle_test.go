package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lineage-audit/emitter/internal/lineage"
)

// recordingTransport counts deliveries and optionally tracks Close calls.
type recordingTransport struct {
	sent   int
	closed bool
}

func (r *recordingTransport) Send(_ context.Context, _ *lineage.RunEvent) error {
	r.sent++
	return nil
}

func (r *recordingTransport) Close() error {
	r.closed = true
	return nil
}

func TestThrottledDelegates(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	next := &recordingTransport{}
	throttled := NewThrottled(next, 1000, 10)

	for i := 0; i < 5; i++ {
		if err := throttled.Send(context.Background(), testEvent()); err != nil {
			t.Fatalf("Send() unexpected error: %v", err)
		}
	}

	if next.sent != 5 {
		t.Errorf("wrapped transport received %d events, want 5", next.sent)
	}
}

func TestThrottledPacesSends(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	next := &recordingTransport{}
	// Burst of 1 at 20 events/sec: the second send must wait ~50ms.
	throttled := NewThrottled(next, 20, 1)
	ctx := context.Background()

	start := time.Now()

	if err := throttled.Send(ctx, testEvent()); err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}

	if err := throttled.Send(ctx, testEvent()); err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}

	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("second send completed after %v, expected pacing delay", elapsed)
	}
}

func TestThrottledContextCancelled(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	next := &recordingTransport{}
	throttled := NewThrottled(next, 0.001, 1)
	ctx := context.Background()

	// Exhaust the burst token.
	if err := throttled.Send(ctx, testEvent()); err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}

	cancelledCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	err := throttled.Send(cancelledCtx, testEvent())
	if !errors.Is(err, ErrSend) {
		t.Fatalf("Send() error = %v, want ErrSend", err)
	}

	// The event must not have been delivered after an aborted wait.
	if next.sent != 1 {
		t.Errorf("wrapped transport received %d events, want 1", next.sent)
	}
}

func TestThrottledBurstFloor(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	next := &recordingTransport{}
	throttled := NewThrottled(next, 100, 0)

	// A zero burst would deadlock the first send without the floor.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := throttled.Send(ctx, testEvent()); err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
}

func TestThrottledCloseForwards(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	next := &recordingTransport{}
	throttled := NewThrottled(next, 1, 1)

	if err := throttled.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	if !next.closed {
		t.Error("Close() did not forward to the wrapped transport")
	}

	// Wrapping a transport without Close is fine.
	plain := NewThrottled(NewConsole(&discardWriter{}), 1, 1)
	if err := plain.Close(); err != nil {
		t.Errorf("Close() on closer-less transport = %v, want nil", err)
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) {
	return len(p), nil
}
