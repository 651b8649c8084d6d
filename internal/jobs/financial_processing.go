package jobs

import (
	"context"

	"github.com/lineage-audit/emitter/internal/lineage"
)

// FinancialProcessing rolls raw transactions up into a daily summary.
type FinancialProcessing struct{}

const dailyFinancialSummarySQL = `
DROP TABLE IF EXISTS daily_financial_summary;
CREATE TABLE daily_financial_summary AS
SELECT
    transaction_date,
    SUM(CASE WHEN transaction_type = 'credit' THEN amount ELSE 0 END) AS total_credits,
    SUM(CASE WHEN transaction_type = 'debit'  THEN amount ELSE 0 END) AS total_debits,
    SUM(CASE WHEN transaction_type = 'credit' THEN amount ELSE -amount END) AS net_amount,
    COUNT(*)                                                          AS transaction_count,
    NOW()                                                             AS processed_at
FROM raw_transactions
GROUP BY transaction_date;
`

// Name implements Job.
func (j *FinancialProcessing) Name() string {
	return "financial_data_processing"
}

// Description implements Job.
func (j *FinancialProcessing) Description() string {
	return "Aggregate transactions into daily financial summaries"
}

// Run implements Job.
func (j *FinancialProcessing) Run(ctx context.Context, deps *Deps) error {
	jobFacets := lineage.Facets{
		"sql": lineage.SQLFacet(deps.Emitter.Producer(), dailyFinancialSummarySQL),
	}

	return runSpan(ctx, deps, j.Name(),
		[]string{"raw_transactions"},
		[]string{"daily_financial_summary"},
		jobFacets,
		func(ctx context.Context) (lineage.Facets, error) {
			return nil, execAll(ctx, deps.DB, []string{dailyFinancialSummarySQL})
		},
	)
}
