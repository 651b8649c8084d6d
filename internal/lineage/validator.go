package lineage

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation failures. These make up the ValidationError
// taxonomy: a failed validation is a caller bug, is never retried, and is
// always detected before any transport attempt.
var (
	ErrNilEvent                = errors.New("event cannot be nil")
	ErrInvalidEventType        = errors.New("invalid eventType")
	ErrMissingEventTime        = errors.New("eventTime is required")
	ErrMissingProducer         = errors.New("producer is required")
	ErrMissingRunID            = errors.New("run.runId is required")
	ErrMissingJobNamespace     = errors.New("job.namespace is required")
	ErrMissingJobName          = errors.New("job.name is required")
	ErrNilDataset              = errors.New("dataset cannot be nil")
	ErrDatasetMissingNamespace = errors.New("dataset.namespace is required")
	ErrDatasetMissingName      = errors.New("dataset.name is required")
)

// Validator performs semantic validation of OpenLineage RunEvents before
// they are handed to a transport.
//
// Strategy: semantic validation (field checks against the OpenLineage
// required fields) rather than formal JSON schema validation - the emitter constructs
// events itself, so the only failure modes are caller-supplied empty fields
// and unrecognized event types.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRunEvent validates that a RunEvent contains all required
// OpenLineage fields.
//
// Required fields (per OpenLineage v2 spec):
//   - eventTime: Must not be zero value
//   - eventType: Must be a valid run state (START, RUNNING, COMPLETE, FAIL, ABORT, OTHER)
//   - producer: Must not be empty
//   - run.runId: Must not be empty
//   - job.namespace: Must not be empty
//   - job.name: Must not be empty
//
// Every input and output dataset must carry a non-empty namespace and name.
//
// Optional fields:
//   - inputs/outputs: May be empty (especially for START/OTHER events)
//   - facets: May be nil or contain unknown facets (extensibility)
//
// Returns nil if valid, a sentinel-wrapping error if validation fails.
func (v *Validator) ValidateRunEvent(event *RunEvent) error {
	if event == nil {
		return ErrNilEvent
	}

	if !event.EventType.IsValid() {
		return fmt.Errorf(
			"%w: %s (valid: START, RUNNING, COMPLETE, FAIL, ABORT, OTHER)",
			ErrInvalidEventType, event.EventType,
		)
	}

	if event.EventTime.IsZero() {
		return ErrMissingEventTime
	}

	if event.Producer == "" {
		return ErrMissingProducer
	}

	if event.Run.ID == "" {
		return ErrMissingRunID
	}

	if event.Job.Namespace == "" {
		return ErrMissingJobNamespace
	}

	if event.Job.Name == "" {
		return ErrMissingJobName
	}

	for i := range event.Inputs {
		if err := v.ValidateDataset(&event.Inputs[i]); err != nil {
			return fmt.Errorf("inputs[%d]: %w", i, err)
		}
	}

	for i := range event.Outputs {
		if err := v.ValidateDataset(&event.Outputs[i]); err != nil {
			return fmt.Errorf("outputs[%d]: %w", i, err)
		}
	}

	return nil
}

// ValidateDataset validates that a Dataset carries the required OpenLineage
// identity fields.
//
// Required fields (per OpenLineage v2 spec):
//   - namespace: Data source identifier (e.g., "postgresql://postgres", "s3://bucket")
//   - name: Dataset path/identifier (e.g., "public.raw_orders")
//
// URN format validation is deferred to the urn package when URNs are
// generated; this validator checks spec compliance only.
func (v *Validator) ValidateDataset(dataset *Dataset) error {
	if dataset == nil {
		return ErrNilDataset
	}

	if dataset.Namespace == "" {
		return ErrDatasetMissingNamespace
	}

	if dataset.Name == "" {
		return ErrDatasetMissingName
	}

	return nil
}

// IsValidationError reports whether err belongs to the validation error
// taxonomy. Transport wrappers use this to distinguish caller bugs (never
// retried) from delivery failures (retry policy left to the caller).
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrNilEvent,
		ErrInvalidEventType,
		ErrMissingEventTime,
		ErrMissingProducer,
		ErrMissingRunID,
		ErrMissingJobNamespace,
		ErrMissingJobName,
		ErrNilDataset,
		ErrDatasetMissingNamespace,
		ErrDatasetMissingName,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}
