package lineage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type (
	// WireEvent is the JSON shape of a RunEvent on the wire, as accepted by
	// POST {baseUrl}/api/v1/lineage on Marquez-compatible backends.
	// This is separate from the domain model (RunEvent) to decouple the wire
	// contract from internal domain types.
	WireEvent struct {
		EventTime time.Time     `json:"eventTime"`
		EventType string        `json:"eventType"`
		Producer  string        `json:"producer"`
		SchemaURL string        `json:"schemaURL"` //nolint: tagliatelle
		Run       WireRun       `json:"run"`
		Job       WireJob       `json:"job"`
		Inputs    []WireDataset `json:"inputs,omitempty"`
		Outputs   []WireDataset `json:"outputs,omitempty"`
	}

	// WireRun represents the run section of a WireEvent.
	WireRun struct {
		ID     string                 `json:"runId"`
		Facets map[string]interface{} `json:"facets,omitempty"`
	}

	// WireJob represents the job section of a WireEvent.
	WireJob struct {
		Namespace string                 `json:"namespace"`
		Name      string                 `json:"name"`
		Facets    map[string]interface{} `json:"facets,omitempty"`
	}

	// WireDataset represents an input or output dataset of a WireEvent.
	WireDataset struct {
		Namespace    string                 `json:"namespace"`
		Name         string                 `json:"name"`
		Facets       map[string]interface{} `json:"facets,omitempty"`
		InputFacets  map[string]interface{} `json:"inputFacets,omitempty"`
		OutputFacets map[string]interface{} `json:"outputFacets,omitempty"`
	}
)

// ToWire maps a domain RunEvent to its wire representation.
// The mapping is purely structural; validation happens before this point.
func ToWire(event *RunEvent) *WireEvent {
	return &WireEvent{
		EventTime: event.EventTime,
		EventType: string(event.EventType),
		Producer:  event.Producer,
		SchemaURL: event.SchemaURL,
		Run: WireRun{
			ID:     event.Run.ID,
			Facets: event.Run.Facets,
		},
		Job: WireJob{
			Namespace: event.Job.Namespace,
			Name:      event.Job.Name,
			Facets:    event.Job.Facets,
		},
		Inputs:  datasetsToWire(event.Inputs),
		Outputs: datasetsToWire(event.Outputs),
	}
}

// FromWire maps a wire event back to the domain model. Receiver test doubles
// use this to reconstruct emitted events for structural comparison.
//
// String fields are whitespace-trimmed and nil facet maps are initialized to
// empty maps, mirroring what ingesting backends do on their side.
func FromWire(wire *WireEvent) *RunEvent {
	return &RunEvent{
		EventTime: wire.EventTime,
		EventType: EventType(strings.TrimSpace(wire.EventType)),
		Producer:  strings.TrimSpace(wire.Producer),
		SchemaURL: strings.TrimSpace(wire.SchemaURL),
		Run: Run{
			ID:     strings.TrimSpace(wire.Run.ID),
			Facets: normalizeFacets(wire.Run.Facets),
		},
		Job: Job{
			Namespace: strings.TrimSpace(wire.Job.Namespace),
			Name:      strings.TrimSpace(wire.Job.Name),
			Facets:    normalizeFacets(wire.Job.Facets),
		},
		Inputs:  datasetsFromWire(wire.Inputs),
		Outputs: datasetsFromWire(wire.Outputs),
	}
}

// Marshal serializes a domain event to its wire JSON.
func Marshal(event *RunEvent) ([]byte, error) {
	data, err := json.Marshal(ToWire(event))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lineage event: %w", err)
	}

	return data, nil
}

// Unmarshal parses wire JSON into a domain event.
func Unmarshal(data []byte) (*RunEvent, error) {
	var wire WireEvent
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lineage event: %w", err)
	}

	return FromWire(&wire), nil
}

func datasetsToWire(datasets []Dataset) []WireDataset {
	if len(datasets) == 0 {
		return nil
	}

	wire := make([]WireDataset, len(datasets))
	for i, d := range datasets {
		wire[i] = WireDataset{
			Namespace:    d.Namespace,
			Name:         d.Name,
			Facets:       d.Facets,
			InputFacets:  d.InputFacets,
			OutputFacets: d.OutputFacets,
		}
	}

	return wire
}

func datasetsFromWire(wire []WireDataset) []Dataset {
	// Non-nil slices keep domain comparisons simple (JSON decoding quirk)
	datasets := make([]Dataset, len(wire))

	for i, w := range wire {
		datasets[i] = Dataset{
			Namespace:    strings.TrimSpace(w.Namespace),
			Name:         strings.TrimSpace(w.Name),
			Facets:       normalizeFacets(w.Facets),
			InputFacets:  normalizeFacets(w.InputFacets),
			OutputFacets: normalizeFacets(w.OutputFacets),
		}
	}

	return datasets
}

func normalizeFacets(facets map[string]interface{}) Facets {
	if facets == nil {
		return Facets{}
	}

	return Facets(facets)
}
