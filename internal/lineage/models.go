// Package lineage provides the OpenLineage domain model used by the emitter.
// Spec: https://openlineage.io/docs/spec/object-model
package lineage

import (
	"time"

	"github.com/lineage-audit/emitter/internal/urn"
)

type (
	// RunEvent represents an OpenLineage RunEvent - Domain Model.
	// A RunEvent is an immutable fact asserting that at EventTime, Run of Job
	// transitioned to the state named by EventType, consuming Inputs and
	// producing Outputs. Events are append-only; the receiving system is
	// responsible for aggregating them into current job/dataset state.
	//
	// This is a pure domain model without JSON tags. The transport layer uses
	// WireEvent for JSON marshaling (see wire.go).
	//
	// Spec: https://openlineage.io/docs/spec/object-model#job-run-state-update
	RunEvent struct {
		// EventTime is the timestamp when this event occurred.
		// Receivers order events by this value, not arrival time.
		EventTime time.Time

		// EventType is the run state: START, RUNNING, COMPLETE, FAIL, ABORT, or OTHER.
		EventType EventType

		// Producer identifies the tool that generated this event.
		// Format: URL with version (e.g., "https://github.com/lineage-audit/emitter")
		Producer string

		// SchemaURL is the OpenLineage spec version URL.
		// Example: "https://openlineage.io/spec/2-0-2/OpenLineage.json"
		SchemaURL string

		// Run contains metadata about this specific run instance.
		Run Run

		// Job contains metadata about the job definition.
		Job Job

		// Inputs are datasets consumed by this run (optional).
		Inputs []Dataset

		// Outputs are datasets produced by this run (optional).
		// Typically specified in the COMPLETE event.
		Outputs []Dataset
	}

	// EventType represents OpenLineage run states.
	// Spec: https://openlineage.io/docs/spec/run-cycle#run-states
	EventType string

	// Facets are extensible metadata attached to a job, run, or dataset
	// within a single event. The core model treats facet contents as an
	// opaque mapping from string key to structured value.
	// Spec: https://openlineage.io/docs/spec/facets/dataset-facets
	Facets map[string]interface{}

	// Run represents a single execution instance of a Job - Domain Model.
	// The emitter generates the run ID once (see emitter.BeginRun) and the
	// caller carries it between state updates; correlation of the START event
	// with later COMPLETE/FAIL events is by ID equality only.
	//
	// Spec: https://openlineage.io/docs/spec/object-model#run
	Run struct {
		// ID uniquely identifies this run. Generated as UUIDv7 by BeginRun
		// and reused verbatim for every later event of the same run.
		ID string

		// Facets are extensible metadata about this run instance.
		// Standard facets: nominalTime, parent, errorMessage, sql
		Facets Facets
	}

	// Job represents a recurring data transformation process - Domain Model.
	// Jobs are identified by a unique name within a namespace and are
	// versionless; they accumulate runs over time.
	//
	// Spec: https://openlineage.io/docs/spec/object-model#job
	Job struct {
		// Namespace identifies the scheduler/orchestrator or project.
		// Example: "data-lineage-audit"
		Namespace string

		// Name is unique within the namespace.
		// Example: "order_data_transformation"
		Name string

		// Facets are extensible metadata about the job definition.
		// Standard facets: documentation, sourceCode, sql, jobType
		Facets Facets
	}

	// Dataset represents an abstract data artifact: a table, file, topic, or
	// directory - Domain Model. Datasets are identified by (namespace, name);
	// the pair must be enough to uniquely identify the dataset within a data
	// ecosystem. A Dataset is an immutable reference and does not own data.
	//
	// Spec: https://openlineage.io/docs/spec/object-model#dataset
	Dataset struct {
		// Namespace identifies the data source.
		// Examples: "postgresql://postgres", "s3://raw-data", "data-lineage-audit"
		Namespace string

		// Name is the hierarchical path to the dataset.
		// Examples: "public.raw_orders", "/orders/2026-08-29.parquet"
		Name string

		// Facets are metadata common to inputs and outputs.
		// Standard facets: schema, dataSource, documentation, ownership
		Facets Facets

		// InputFacets are metadata specific to input datasets.
		InputFacets Facets

		// OutputFacets are metadata specific to output datasets.
		// Standard facets: outputStatistics
		OutputFacets Facets
	}
)

const (
	// EventTypeStart indicates the beginning of a job execution.
	EventTypeStart EventType = "START"

	// EventTypeRunning provides additional information about a running job.
	EventTypeRunning EventType = "RUNNING"

	// EventTypeComplete signifies that execution concluded successfully.
	// Terminal state.
	EventTypeComplete EventType = "COMPLETE"

	// EventTypeFail signifies that the job has failed.
	// Terminal state.
	EventTypeFail EventType = "FAIL"

	// EventTypeAbort signifies that the job was stopped abnormally.
	// Terminal state.
	EventTypeAbort EventType = "ABORT"

	// EventTypeOther is used to send additional metadata outside the standard
	// run cycle. Can be sent anytime, even before START.
	EventTypeOther EventType = "OTHER"
)

// DefaultSchemaURL is the OpenLineage spec version this emitter produces.
const DefaultSchemaURL = "https://openlineage.io/spec/2-0-2/OpenLineage.json"

// ValidEventTypes returns all valid OpenLineage event types.
func ValidEventTypes() []EventType {
	return []EventType{
		EventTypeStart,
		EventTypeRunning,
		EventTypeComplete,
		EventTypeFail,
		EventTypeAbort,
		EventTypeOther,
	}
}

// IsValid checks if the EventType is a valid OpenLineage run state.
func (et EventType) IsValid() bool {
	for _, valid := range ValidEventTypes() {
		if et == valid {
			return true
		}
	}

	return false
}

// IsTerminal returns true if the event type is a terminal state.
// Terminal states (COMPLETE, FAIL, ABORT) close a run; recording a further
// state transition for the same run is a caller error with receiver-defined
// outcome, so callers should guard on this before emitting.
//
// Spec: https://openlineage.io/docs/spec/run-cycle#run-states
func (et EventType) IsTerminal() bool {
	return et == EventTypeComplete || et == EventTypeFail || et == EventTypeAbort
}

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}

// ID returns the deterministic identifier for this event.
//
// The identifier is the same SHA-256 idempotency key that OpenLineage
// receivers compute on ingest (producer + job + run + eventTime + eventType),
// so emitter-side logs and receiver-side deduplication agree on identity.
//
// Returns: 64-character lowercase hex string.
func (e *RunEvent) ID() string {
	return urn.GenerateIdempotencyKey(
		e.Producer,
		e.Job.Namespace,
		e.Job.Name,
		e.Run.ID,
		e.EventTime.Format(time.RFC3339Nano),
		string(e.EventType),
	)
}

// URN returns the canonical URN for this dataset.
//
// Format: {namespace}/{name}, with the namespace normalized so that the
// emitted identity matches what correlating receivers compute.
func (d *Dataset) URN() string {
	return urn.GenerateDatasetURN(d.Namespace, d.Name)
}
