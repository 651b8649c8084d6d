package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lineage-audit/emitter/internal/emitter"
	"github.com/lineage-audit/emitter/internal/lineage"
)

// Sentinel errors for job dependency validation.
var (
	ErrNilDB      = errors.New("database connection is required")
	ErrNilEmitter = errors.New("emitter is required")
	ErrNilCatalog = errors.New("dataset catalog is required")
)

type (
	// Job is one demonstration data transformation. Every implementation
	// wraps its work in a lineage span: START before touching data, COMPLETE
	// on success, FAIL with an errorMessage facet when the work errors.
	Job interface {
		// Name is the OpenLineage job name, unique within the namespace.
		Name() string

		// Description is a human-readable summary, also emitted as the
		// job's documentation.
		Description() string

		// Run executes the transformation and emits its lineage.
		Run(ctx context.Context, deps *Deps) error
	}

	// Deps carries the shared dependencies jobs run against.
	Deps struct {
		DB      *sql.DB
		Emitter *emitter.Emitter
		Catalog *Catalog
		Logger  *slog.Logger
	}
)

// Validate checks that all required dependencies are present.
func (d *Deps) Validate() error {
	if d.DB == nil {
		return ErrNilDB
	}

	if d.Emitter == nil {
		return ErrNilEmitter
	}

	if d.Catalog == nil {
		return ErrNilCatalog
	}

	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	return nil
}

// runSpan executes work between a START event and its terminal event.
//
// It resolves the named input and output datasets from the catalog, emits
// START (job-scoped facets such as sql attached under job.facets), runs
// work, and closes the span with COMPLETE (outputs plus any run facets the
// work returned) or FAIL (errorMessage facet attached). The same run handle
// - and therefore the same run ID - is used for both events; that identifier
// equality is the only correlation the receiver gets.
//
// The work error takes precedence over a FAIL-emission error so the original
// failure is never masked.
func runSpan(
	ctx context.Context,
	deps *Deps,
	jobName string,
	inputNames, outputNames []string,
	jobFacets lineage.Facets,
	work func(ctx context.Context) (lineage.Facets, error),
) error {
	em := deps.Emitter

	inputs, err := deps.Catalog.ResolveDatasets(em.Producer(), inputNames...)
	if err != nil {
		return fmt.Errorf("job %s: %w", jobName, err)
	}

	outputs, err := deps.Catalog.ResolveDatasets(em.Producer(), outputNames...)
	if err != nil {
		return fmt.Errorf("job %s: %w", jobName, err)
	}

	handle, err := em.BeginRun(ctx, em.Namespace(), jobName, inputs, outputs, nil, jobFacets)
	if err != nil {
		return fmt.Errorf("job %s: failed to emit start event: %w", jobName, err)
	}

	completeFacets, workErr := work(ctx)
	if workErr != nil {
		failFacets := lineage.Facets{
			"errorMessage": lineage.ErrorMessageFacet(em.Producer(), workErr.Error()),
		}

		if _, failErr := em.EndRun(ctx, handle, lineage.EventTypeFail, nil, failFacets); failErr != nil {
			deps.Logger.Error("Failed to emit FAIL event",
				slog.String("job_name", jobName),
				slog.String("run_id", handle.RunID),
				slog.String("error", failErr.Error()),
			)
		}

		return fmt.Errorf("job %s: %w", jobName, workErr)
	}

	if _, err := em.EndRun(ctx, handle, lineage.EventTypeComplete, outputs, completeFacets); err != nil {
		return fmt.Errorf("job %s: failed to emit complete event: %w", jobName, err)
	}

	return nil
}

// execAll runs statements in order, stopping at the first failure.
func execAll(ctx context.Context, db *sql.DB, statements []string) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement failed: %w", err)
		}
	}

	return nil
}
