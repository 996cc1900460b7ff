package driving

import (
	"github.com/custodia-labs/insight-core/internal/core/domain"
)

// DashboardService computes KPI values and chart datasets from structured
// records. Pure and local - no model calls; safe to rerun on every request.
type DashboardService interface {
	// ComputeKPIs evaluates each definition against the records. Definitions
	// with an unrecognized calculation are dropped, not fatal.
	ComputeKPIs(records []domain.DataRecord, defs []domain.KPIDefinition) []domain.ComputedKPI

	// ComputeCharts evaluates each definition against the records.
	// Definitions producing zero data points are dropped with a warning.
	ComputeCharts(records []domain.DataRecord, defs []domain.ChartDefinition) []domain.ComputedChart
}
