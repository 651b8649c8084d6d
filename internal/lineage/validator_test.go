package lineage

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func validEvent() *RunEvent {
	return &RunEvent{
		EventTime: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		EventType: EventTypeStart,
		Producer:  "https://github.com/lineage-audit/emitter",
		SchemaURL: DefaultSchemaURL,
		Run:       Run{ID: "0194e7a1-7628-7000-8000-000000000000"},
		Job:       Job{Namespace: "data-lineage-audit", Name: "customer_data_processing"},
		Inputs:    []Dataset{{Namespace: "data-lineage-audit", Name: "raw_customers"}},
		Outputs:   []Dataset{{Namespace: "data-lineage-audit", Name: "processed_customers"}},
	}
}

func TestValidateRunEvent(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	validator := NewValidator()

	tests := []struct {
		name        string
		mutate      func(*RunEvent)
		expectedErr error
	}{
		{
			name:   "valid event passes",
			mutate: func(e *RunEvent) {},
		},
		{
			name:   "valid event without datasets passes",
			mutate: func(e *RunEvent) { e.Inputs = nil; e.Outputs = nil },
		},
		{
			name:        "invalid event type",
			mutate:      func(e *RunEvent) { e.EventType = "STARTED" },
			expectedErr: ErrInvalidEventType,
		},
		{
			name:        "empty event type",
			mutate:      func(e *RunEvent) { e.EventType = "" },
			expectedErr: ErrInvalidEventType,
		},
		{
			name:        "zero event time",
			mutate:      func(e *RunEvent) { e.EventTime = time.Time{} },
			expectedErr: ErrMissingEventTime,
		},
		{
			name:        "missing producer",
			mutate:      func(e *RunEvent) { e.Producer = "" },
			expectedErr: ErrMissingProducer,
		},
		{
			name:        "missing run id",
			mutate:      func(e *RunEvent) { e.Run.ID = "" },
			expectedErr: ErrMissingRunID,
		},
		{
			name:        "missing job namespace",
			mutate:      func(e *RunEvent) { e.Job.Namespace = "" },
			expectedErr: ErrMissingJobNamespace,
		},
		{
			name:        "missing job name",
			mutate:      func(e *RunEvent) { e.Job.Name = "" },
			expectedErr: ErrMissingJobName,
		},
		{
			name:        "input dataset without namespace",
			mutate:      func(e *RunEvent) { e.Inputs[0].Namespace = "" },
			expectedErr: ErrDatasetMissingNamespace,
		},
		{
			name:        "output dataset without name",
			mutate:      func(e *RunEvent) { e.Outputs[0].Name = "" },
			expectedErr: ErrDatasetMissingName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := validEvent()
			tt.mutate(event)

			err := validator.ValidateRunEvent(event)

			if tt.expectedErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				return
			}

			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("error = %v, want %v", err, tt.expectedErr)
			}

			if !IsValidationError(err) {
				t.Errorf("IsValidationError(%v) = false, want true", err)
			}
		})
	}
}

func TestValidateRunEventNil(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	err := NewValidator().ValidateRunEvent(nil)
	if !errors.Is(err, ErrNilEvent) {
		t.Fatalf("error = %v, want %v", err, ErrNilEvent)
	}
}

func TestValidateRunEventDatasetErrorNamesPosition(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	event := validEvent()
	event.Inputs = append(event.Inputs, Dataset{Namespace: "data-lineage-audit"})

	err := NewValidator().ValidateRunEvent(event)
	if err == nil {
		t.Fatal("expected error for dataset without name")
	}

	if got, want := err.Error(), "inputs[1]: "; len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("error %q does not name the failing dataset position", got)
	}
}

func TestValidateDataset(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	validator := NewValidator()

	if err := validator.ValidateDataset(nil); !errors.Is(err, ErrNilDataset) {
		t.Errorf("nil dataset error = %v, want %v", err, ErrNilDataset)
	}

	if err := validator.ValidateDataset(&Dataset{Name: "raw_customers"}); !errors.Is(err, ErrDatasetMissingNamespace) {
		t.Errorf("missing namespace error = %v, want %v", err, ErrDatasetMissingNamespace)
	}

	if err := validator.ValidateDataset(&Dataset{Namespace: "data-lineage-audit"}); !errors.Is(err, ErrDatasetMissingName) {
		t.Errorf("missing name error = %v, want %v", err, ErrDatasetMissingName)
	}

	if err := validator.ValidateDataset(&Dataset{Namespace: "data-lineage-audit", Name: "raw_customers"}); err != nil {
		t.Errorf("valid dataset error = %v, want nil", err)
	}
}

func TestIsValidationError(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	if !IsValidationError(fmt.Errorf("outputs[0]: %w", ErrDatasetMissingName)) {
		t.Error("wrapped sentinel not recognized as validation error")
	}

	if IsValidationError(errors.New("connection refused")) {
		t.Error("unrelated error recognized as validation error")
	}

	if IsValidationError(nil) {
		t.Error("nil recognized as validation error")
	}
}
