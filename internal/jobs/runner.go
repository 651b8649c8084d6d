package jobs

import (
	"context"
	"fmt"
	"log/slog"
)

type (
	// Summary reports the outcome of a RunAll invocation.
	Summary struct {
		Succeeded int
		Failed    int
	}
)

// Registry returns the demo pipeline jobs in execution order. The quality
// monitoring job reads the other jobs' outputs and therefore runs last.
func Registry() []Job {
	return []Job{
		&CustomerProcessing{},
		&OrderTransform{},
		&FinancialProcessing{},
		&QualityMonitoring{},
	}
}

// RunAll executes each job in order, logging per-job outcomes. A failing
// job does not stop the suite. It returns an error when any job failed so
// callers can exit non-zero.
func RunAll(ctx context.Context, deps *Deps, jobs []Job) (Summary, error) {
	if err := deps.Validate(); err != nil {
		return Summary{}, err
	}

	logger := deps.Logger

	var summary Summary
	for _, job := range jobs {
		logger.Info("starting job",
			slog.String("job", job.Name()),
			slog.String("description", job.Description()))

		if err := job.Run(ctx, deps); err != nil {
			summary.Failed++
			logger.Error("job failed",
				slog.String("job", job.Name()),
				slog.String("error", err.Error()))
			continue
		}

		summary.Succeeded++
		logger.Info("job completed", slog.String("job", job.Name()))
	}

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%d of %d jobs failed", summary.Failed, summary.Failed+summary.Succeeded)
	}
	return summary, nil
}
