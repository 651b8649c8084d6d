package transport

import (
	"context"
	"io"
	"sync"

	"github.com/lineage-audit/emitter/internal/lineage"
)

// Console writes events as newline-delimited wire JSON to an io.Writer.
//
// It is the development and test sink: pipe it to stdout to inspect what
// would be posted, or to a buffer in tests to reparse emitted events with
// lineage.Unmarshal. A mutex serializes writes so interleaved callers do not
// corrupt the stream.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console transport writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Send writes one event followed by a newline.
func (t *Console) Send(_ context.Context, event *lineage.RunEvent) error {
	body, err := lineage.Marshal(event)
	if err != nil {
		return &Error{Transport: "console", Detail: "event serialization failed", Err: err}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.out.Write(append(body, '\n')); err != nil {
		return &Error{Transport: "console", Detail: "write failed", Err: err}
	}

	return nil
}
