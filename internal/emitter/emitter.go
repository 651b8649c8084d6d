// Package emitter builds OpenLineage run events and hands them to a
// transport for delivery.
//
// The emitter is deliberately stateless: everything needed to build an event
// travels through the immutable RunHandle and call arguments, so there is no
// global run registry and no hidden correlation state. Correlating a START
// event with its later COMPLETE/FAIL event is by run ID equality only, and
// the handle is the sole carrier of that ID.
package emitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/lineage-audit/emitter/internal/lineage"
	"github.com/lineage-audit/emitter/internal/transport"
	"github.com/lineage-audit/emitter/internal/urn"
)

// DefaultProducer identifies this emitter in the producer field of every
// event, for provenance.
const DefaultProducer = "https://github.com/lineage-audit/emitter"

// ErrIdentifierGeneration indicates run ID generation failed. This is a pure
// local operation with no realistic failure mode beyond resource exhaustion;
// treat it as fatal.
var ErrIdentifierGeneration = errors.New("failed to generate run identifier")

// ErrNonTerminalOutcome indicates EndRun was asked to close a run with an
// event type that does not close runs (anything but COMPLETE, FAIL, ABORT).
var ErrNonTerminalOutcome = errors.New("end-run outcome must be a terminal event type")

type (
	// Config holds emitter construction settings. Configuration is explicit
	// and passed at construction, never read from ambient process state.
	Config struct {
		// Namespace is the job namespace applied by BeginRun.
		Namespace string

		// Producer overrides DefaultProducer when non-empty.
		Producer string
	}

	// Emitter constructs well-formed RunEvents from caller-supplied
	// descriptors and performs exactly one synchronous delivery per recorded
	// event. Order of delivery equals order of recording: each call blocks
	// until the transport returns, and there is no batching or reordering.
	//
	// An Emitter is safe for concurrent use; it holds no mutable state.
	// Sharing one RunHandle between concurrent callers is the caller's
	// responsibility (simultaneous terminal events on one handle are a
	// caller error with receiver-defined outcome).
	Emitter struct {
		namespace string
		producer  string
		transport transport.Transport
		validator *lineage.Validator
		clock     clockwork.Clock
		logger    *slog.Logger
	}

	// RunHandle is the opaque, immutable correlation handle returned by
	// BeginRun. Reuse only requires read access; no method mutates a handle.
	RunHandle struct {
		// JobNamespace and JobName identify the job this run belongs to.
		JobNamespace string
		JobName      string

		// RunID is the UUIDv7 minted at BeginRun and reused verbatim for
		// every later event of this run.
		RunID string

		// StartTime is the clock reading taken at BeginRun. It is recorded
		// once and never regenerated, whatever the later events do.
		StartTime time.Time
	}

	// Option customizes an Emitter beyond its Config.
	Option func(*Emitter)
)

// WithClock injects a clock. Tests pass clockwork.NewFakeClock for
// deterministic event times; production uses the real clock.
func WithClock(clock clockwork.Clock) Option {
	return func(e *Emitter) {
		e.clock = clock
	}
}

// WithLogger injects a structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) {
		e.logger = logger
	}
}

// New creates an Emitter that delivers through t.
func New(cfg *Config, t transport.Transport, opts ...Option) *Emitter {
	producer := cfg.Producer
	if producer == "" {
		producer = DefaultProducer
	}

	e := &Emitter{
		namespace: cfg.Namespace,
		producer:  producer,
		transport: t,
		validator: lineage.NewValidator(),
		clock:     clockwork.NewRealClock(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Namespace returns the configured job namespace.
func (e *Emitter) Namespace() string {
	return e.namespace
}

// Producer returns the producer URI stamped on every event.
func (e *Emitter) Producer() string {
	return e.producer
}

// NewRunHandle mints a handle without emitting anything. Callers that want
// the reference behavior (START emitted immediately) use BeginRun instead.
//
// Fails only with ErrIdentifierGeneration.
func (e *Emitter) NewRunHandle(jobNamespace, jobName string) (RunHandle, error) {
	runID, err := uuid.NewV7()
	if err != nil {
		return RunHandle{}, fmt.Errorf("%w: %w", ErrIdentifierGeneration, err)
	}

	return RunHandle{
		JobNamespace: jobNamespace,
		JobName:      jobName,
		RunID:        runID.String(),
		StartTime:    e.clock.Now().UTC(),
	}, nil
}

// BeginRun mints a new run handle and emits its START event.
//
// The run ID is a UUIDv7, unique across repeated calls; the start time is
// the current clock reading. The returned handle carries both and is the
// caller's correlation token for every later event of this run.
func (e *Emitter) BeginRun(
	ctx context.Context,
	jobNamespace, jobName string,
	inputs, outputs []lineage.Dataset,
	runFacets, jobFacets lineage.Facets,
) (RunHandle, error) {
	handle, err := e.NewRunHandle(jobNamespace, jobName)
	if err != nil {
		return RunHandle{}, err
	}

	if _, err := e.RecordEvent(ctx, handle, lineage.EventTypeStart, inputs, outputs, runFacets, jobFacets); err != nil {
		return RunHandle{}, err
	}

	return handle, nil
}

// RecordEvent builds an immutable event from the handle and supplied
// descriptors, validates it, and performs exactly one delivery attempt.
//
// Validation is fail-fast: a malformed event is rejected with a validation
// error BEFORE any transport attempt, so no partial transmission of bad
// events can occur. Dataset namespaces are canonicalized before sending so
// emitted identities match what correlating receivers compute.
//
// The returned event ID is the deterministic idempotency key receivers
// dedupe on (see lineage.RunEvent.ID).
//
// runFacets attach to the run (errorMessage and friends); jobFacets attach
// to the job (sql, documentation), where Marquez-compatible consumers look
// for them.
//
// The START event's clock reading is the handle's StartTime; every other
// event is stamped with the current clock reading at the moment of the call.
func (e *Emitter) RecordEvent(
	ctx context.Context,
	handle RunHandle,
	eventType lineage.EventType,
	inputs, outputs []lineage.Dataset,
	runFacets, jobFacets lineage.Facets,
) (string, error) {
	eventTime := e.clock.Now().UTC()
	if eventType == lineage.EventTypeStart {
		eventTime = handle.StartTime
	}

	event := &lineage.RunEvent{
		EventTime: eventTime,
		EventType: eventType,
		Producer:  e.producer,
		SchemaURL: lineage.DefaultSchemaURL,
		Run: lineage.Run{
			ID:     handle.RunID,
			Facets: orEmptyFacets(runFacets),
		},
		Job: lineage.Job{
			Namespace: handle.JobNamespace,
			Name:      handle.JobName,
			Facets:    orEmptyFacets(jobFacets),
		},
		Inputs:  e.canonicalize(inputs),
		Outputs: e.canonicalize(outputs),
	}

	if err := e.validator.ValidateRunEvent(event); err != nil {
		return "", fmt.Errorf("invalid lineage event: %w", err)
	}

	if err := e.transport.Send(ctx, event); err != nil {
		return "", err
	}

	eventID := event.ID()

	e.logger.Info("Emitted lineage event",
		slog.String("event_id", eventID),
		slog.String("event_type", string(eventType)),
		slog.String("job_namespace", handle.JobNamespace),
		slog.String("job_name", handle.JobName),
		slog.String("run_id", handle.RunID),
		slog.Int("inputs", len(inputs)),
		slog.Int("outputs", len(outputs)),
	)

	return eventID, nil
}

// EndRun closes the logical span opened by BeginRun with a terminal event.
//
// Equivalent to RecordEvent with eventType = outcome; the handle's run ID is
// reused, not regenerated. Outcome must be one of COMPLETE, FAIL, ABORT;
// any other value is rejected with ErrNonTerminalOutcome before any
// transport attempt, because a non-terminal type would leave the run open
// on the receiver.
func (e *Emitter) EndRun(
	ctx context.Context,
	handle RunHandle,
	outcome lineage.EventType,
	outputs []lineage.Dataset,
	facets lineage.Facets,
) (string, error) {
	if !outcome.IsTerminal() {
		return "", fmt.Errorf("%w: %s", ErrNonTerminalOutcome, outcome)
	}

	return e.RecordEvent(ctx, handle, outcome, nil, outputs, facets, nil)
}

// orEmptyFacets returns a non-nil facet map.
func orEmptyFacets(facets lineage.Facets) lineage.Facets {
	if facets == nil {
		return lineage.Facets{}
	}

	return facets
}

// canonicalize normalizes dataset namespaces without mutating the caller's
// slice. Canonicalization failures degrade gracefully to the original values
// rather than blocking emission.
func (e *Emitter) canonicalize(datasets []lineage.Dataset) []lineage.Dataset {
	if datasets == nil {
		return nil
	}

	canonical := make([]lineage.Dataset, len(datasets))

	for i, d := range datasets {
		namespace, name := d.Namespace, d.Name

		if namespace != "" && name != "" {
			normalized := urn.GenerateDatasetURN(namespace, name)
			if ns, n, err := urn.ParseDatasetURN(normalized); err == nil {
				namespace, name = ns, n
			}
		}

		canonical[i] = lineage.Dataset{
			Namespace:    namespace,
			Name:         name,
			Facets:       d.Facets,
			InputFacets:  d.InputFacets,
			OutputFacets: d.OutputFacets,
		}
	}

	return canonical
}
