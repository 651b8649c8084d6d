package jobs

import (
	"context"

	"github.com/lineage-audit/emitter/internal/lineage"
)

// OrderTransform joins raw orders with raw customers and produces both the
// enriched order table and a per-customer summary.
type OrderTransform struct{}

const enrichedOrdersSQL = `
DROP TABLE IF EXISTS enriched_orders;
CREATE TABLE enriched_orders AS
SELECT
    o.order_id,
    o.customer_id,
    c.first_name || ' ' || c.last_name AS customer_name,
    c.email                            AS customer_email,
    o.order_date,
    o.amount,
    o.status,
    TO_CHAR(o.order_date, 'YYYY-MM')   AS order_month,
    NOW()                              AS processed_at
FROM raw_orders o
JOIN raw_customers c ON c.customer_id = o.customer_id;
`

const orderSummarySQL = `
DROP TABLE IF EXISTS order_summary;
CREATE TABLE order_summary AS
SELECT
    o.customer_id,
    c.first_name || ' ' || c.last_name AS customer_name,
    COUNT(*)                           AS total_orders,
    SUM(o.amount)                      AS total_amount,
    AVG(o.amount)                      AS avg_order_value,
    MAX(o.order_date)                  AS last_order_date,
    NOW()                              AS processed_at
FROM raw_orders o
JOIN raw_customers c ON c.customer_id = o.customer_id
GROUP BY o.customer_id, c.first_name, c.last_name;
`

// Name implements Job.
func (j *OrderTransform) Name() string {
	return "order_data_transformation"
}

// Description implements Job.
func (j *OrderTransform) Description() string {
	return "Transform and aggregate order data"
}

// Run implements Job.
func (j *OrderTransform) Run(ctx context.Context, deps *Deps) error {
	jobFacets := lineage.Facets{
		"sql": lineage.SQLFacet(deps.Emitter.Producer(), enrichedOrdersSQL+orderSummarySQL),
	}

	return runSpan(ctx, deps, j.Name(),
		[]string{"raw_orders", "raw_customers"},
		[]string{"enriched_orders", "order_summary"},
		jobFacets,
		func(ctx context.Context) (lineage.Facets, error) {
			return nil, execAll(ctx, deps.DB, []string{enrichedOrdersSQL, orderSummarySQL})
		},
	)
}
