package jobs

import (
	"context"

	"github.com/lineage-audit/emitter/internal/lineage"
)

// CustomerProcessing processes and enriches raw customer data.
//
// raw_customers → processed_customers: combines the name fields, keeps the
// email address, and derives a coarse customer segment.
type CustomerProcessing struct{}

const customerProcessingSQL = `
DROP TABLE IF EXISTS processed_customers;
CREATE TABLE processed_customers AS
SELECT
    customer_id,
    first_name || ' ' || last_name            AS full_name,
    email,
    CASE
        WHEN created_at < NOW() - INTERVAL '1 year' THEN 'established'
        ELSE 'new'
    END                                       AS customer_segment,
    NOW()                                     AS processed_at
FROM raw_customers;
`

// Name implements Job.
func (j *CustomerProcessing) Name() string {
	return "customer_data_processing"
}

// Description implements Job.
func (j *CustomerProcessing) Description() string {
	return "Process and enrich customer data"
}

// Run implements Job.
func (j *CustomerProcessing) Run(ctx context.Context, deps *Deps) error {
	jobFacets := lineage.Facets{
		"sql": lineage.SQLFacet(deps.Emitter.Producer(), customerProcessingSQL),
	}

	return runSpan(ctx, deps, j.Name(),
		[]string{"raw_customers"},
		[]string{"processed_customers"},
		jobFacets,
		func(ctx context.Context) (lineage.Facets, error) {
			return nil, execAll(ctx, deps.DB, []string{customerProcessingSQL})
		},
	)
}
