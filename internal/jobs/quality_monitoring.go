package jobs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lineage-audit/emitter/internal/lineage"
)

// QualityMonitoring runs row-count and null-rate checks over the processed
// tables and records the results in data_quality_metrics.
//
// It reads the outputs of the other jobs, so it should run after them.
type QualityMonitoring struct{}

const qualityMetricsSQL = `
DROP TABLE IF EXISTS data_quality_metrics;
CREATE TABLE data_quality_metrics AS
SELECT * FROM (
    SELECT
        'processed_customers'                                      AS table_name,
        'row_count'                                                AS metric_name,
        COUNT(*)::decimal                                          AS metric_value,
        NOW()                                                      AS checked_at
    FROM processed_customers
    UNION ALL
    SELECT
        'processed_customers',
        'null_email_rate',
        CASE WHEN COUNT(*) = 0 THEN 0
             ELSE COUNT(*) FILTER (WHERE email IS NULL)::decimal / COUNT(*)
        END,
        NOW()
    FROM processed_customers
    UNION ALL
    SELECT
        'enriched_orders',
        'row_count',
        COUNT(*)::decimal,
        NOW()
    FROM enriched_orders
    UNION ALL
    SELECT
        'enriched_orders',
        'null_amount_rate',
        CASE WHEN COUNT(*) = 0 THEN 0
             ELSE COUNT(*) FILTER (WHERE amount IS NULL)::decimal / COUNT(*)
        END,
        NOW()
    FROM enriched_orders
    UNION ALL
    SELECT
        'daily_financial_summary',
        'row_count',
        COUNT(*)::decimal,
        NOW()
    FROM daily_financial_summary
) checks;
`

// Name implements Job.
func (j *QualityMonitoring) Name() string {
	return "data_quality_monitoring"
}

// Description implements Job.
func (j *QualityMonitoring) Description() string {
	return "Check data quality of processed tables"
}

// Run implements Job.
//
// The COMPLETE event carries the computed check results as a
// dataQualityMetrics run facet, so consumers see the numbers without
// querying the metrics table.
func (j *QualityMonitoring) Run(ctx context.Context, deps *Deps) error {
	jobFacets := lineage.Facets{
		"sql": lineage.SQLFacet(deps.Emitter.Producer(), qualityMetricsSQL),
	}

	return runSpan(ctx, deps, j.Name(),
		[]string{"processed_customers", "enriched_orders", "daily_financial_summary"},
		[]string{"data_quality_metrics"},
		jobFacets,
		func(ctx context.Context) (lineage.Facets, error) {
			if err := execAll(ctx, deps.DB, []string{qualityMetricsSQL}); err != nil {
				return nil, err
			}

			metrics, err := readQualityMetrics(ctx, deps.DB)
			if err != nil {
				return nil, err
			}

			return lineage.Facets{
				"dataQualityMetrics": lineage.DataQualityMetricsFacet(deps.Emitter.Producer(), metrics),
			}, nil
		},
	)
}

// readQualityMetrics loads the check results the run just wrote so they can
// travel with the COMPLETE event.
func readQualityMetrics(ctx context.Context, db *sql.DB) ([]lineage.QualityMetric, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT table_name, metric_name, metric_value FROM data_quality_metrics ORDER BY table_name, metric_name`)
	if err != nil {
		return nil, fmt.Errorf("reading quality metrics: %w", err)
	}
	defer rows.Close()

	var metrics []lineage.QualityMetric

	for rows.Next() {
		var m lineage.QualityMetric
		if err := rows.Scan(&m.TableName, &m.MetricName, &m.Value); err != nil {
			return nil, fmt.Errorf("scanning quality metric: %w", err)
		}

		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading quality metrics: %w", err)
	}

	return metrics, nil
}
