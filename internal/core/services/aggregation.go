package services

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driving"
)

// Ensure Aggregator implements DashboardService
var _ driving.DashboardService = (*Aggregator)(nil)

// chartPointLimit caps data points per chart
const chartPointLimit = 20

// chartMargin is the fixed plot margin handed to the presentation layer
var chartMargin = domain.ChartMargin{Top: 20, Right: 30, Bottom: 20, Left: 20}

// groupedPrinter formats locale-grouped integers ("1,234,567")
var groupedPrinter = message.NewPrinter(language.English)

// Aggregator deterministically computes KPI values and chart datasets from
// structured records. Pure and local: no model calls, safe to rerun on every
// dashboard request.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an Aggregator
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// ComputeKPIs evaluates each definition, dropping any that yield nil
func (a *Aggregator) ComputeKPIs(records []domain.DataRecord, defs []domain.KPIDefinition) []domain.ComputedKPI {
	var out []domain.ComputedKPI
	for _, def := range defs {
		if kpi := ComputeKPI(records, def); kpi != nil {
			out = append(out, *kpi)
		} else {
			a.logger.Warn("dropping KPI with unrecognized calculation",
				"name", def.Name, "calculation", def.Calculation)
		}
	}
	return out
}

// ComputeCharts evaluates each definition in order, dropping any that yield
// zero data points. Chart identifiers follow definition order.
func (a *Aggregator) ComputeCharts(records []domain.DataRecord, defs []domain.ChartDefinition) []domain.ComputedChart {
	var out []domain.ComputedChart
	for i, def := range defs {
		if chart := ComputeChart(records, def, i); chart != nil {
			out = append(out, *chart)
		} else {
			a.logger.Warn("dropping chart with no data points", "title", def.Title)
		}
	}
	return out
}

// ComputeKPI evaluates one definition against the records. Returns nil for an
// unrecognized calculation kind.
//
// Coercion rules: unparseable values contribute zero to sum but are excluded
// from avg's denominator and from max/min entirely; count ignores the column.
func ComputeKPI(records []domain.DataRecord, def domain.KPIDefinition) *domain.ComputedKPI {
	var value float64

	switch def.Calculation {
	case domain.CalcCount:
		value = float64(len(records))

	case domain.CalcSum:
		for _, rec := range records {
			if n, ok := coerceNumber(rec[def.Column]); ok {
				value += n
			}
		}

	case domain.CalcAvg:
		sum, count := 0.0, 0
		for _, rec := range records {
			if n, ok := coerceNumber(rec[def.Column]); ok {
				sum += n
				count++
			}
		}
		if count > 0 {
			value = sum / float64(count)
		}

	case domain.CalcMax:
		value = math.Inf(-1)
		found := false
		for _, rec := range records {
			if n, ok := coerceNumber(rec[def.Column]); ok {
				found = true
				if n > value {
					value = n
				}
			}
		}
		if !found {
			value = 0
		}

	case domain.CalcMin:
		value = math.Inf(1)
		found := false
		for _, rec := range records {
			if n, ok := coerceNumber(rec[def.Column]); ok {
				found = true
				if n < value {
					value = n
				}
			}
		}
		if !found {
			value = 0
		}

	default:
		return nil
	}

	return &domain.ComputedKPI{
		Name:           def.Name,
		Value:          value,
		FormattedValue: FormatValue(value, def.Format),
		Calculation:    def.Calculation,
		Column:         def.Column,
		Format:         def.Format,
	}
}

// ComputeChart evaluates one definition against the records. Returns nil when
// the definition produces zero data points.
func ComputeChart(records []domain.DataRecord, def domain.ChartDefinition, index int) *domain.ComputedChart {
	var data []map[string]any

	if len(def.Measures) == 0 || len(def.Dimensions) == 0 {
		// Nothing to aggregate by - pass the first records through verbatim
		for i, rec := range records {
			if i >= chartPointLimit {
				break
			}
			data = append(data, map[string]any(rec))
		}
	} else {
		data = groupAndSum(records, def)
	}

	if len(data) == 0 {
		return nil
	}

	return &domain.ComputedChart{
		ID:           fmt.Sprintf("chart_%d", index),
		Title:        def.Title,
		Type:         def.Type,
		Data:         data,
		Measures:     def.Measures,
		Dimensions:   def.Dimensions,
		RenderConfig: renderConfig(def),
	}
}

// groupAndSum groups records by the first dimension, sums every measure per
// group, sorts descending by the first measure, and keeps the top points.
func groupAndSum(records []domain.DataRecord, def domain.ChartDefinition) []map[string]any {
	dim := def.Dimensions[0]

	groups := make(map[string]map[string]float64)
	var order []string

	for _, rec := range records {
		key := groupKey(rec[dim])
		sums, ok := groups[key]
		if !ok {
			sums = make(map[string]float64)
			groups[key] = sums
			order = append(order, key)
		}
		for _, measure := range def.Measures {
			if n, ok := coerceNumber(rec[measure]); ok {
				sums[measure] += n
			}
		}
	}

	points := make([]map[string]any, 0, len(order))
	for _, key := range order {
		point := map[string]any{dim: key}
		for _, measure := range def.Measures {
			point[measure] = groups[key][measure]
		}
		points = append(points, point)
	}

	first := def.Measures[0]
	sort.SliceStable(points, func(i, j int) bool {
		a, _ := points[i][first].(float64)
		b, _ := points[j][first].(float64)
		return a > b
	})

	if len(points) > chartPointLimit {
		points = points[:chartPointLimit]
	}
	return points
}

// groupKey stringifies a dimension value; missing or empty values collapse
// into a single "Unknown" group
func groupKey(v any) string {
	switch val := v.(type) {
	case nil:
		return "Unknown"
	case string:
		if strings.TrimSpace(val) == "" {
			return "Unknown"
		}
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// renderConfig binds the first dimension to the category axis and the first
// measure to the value key. An unrecognized chart type leaves the shape empty
// so rendering degrades instead of failing.
func renderConfig(def domain.ChartDefinition) domain.RenderConfig {
	cfg := domain.RenderConfig{Margin: chartMargin}
	if len(def.Dimensions) > 0 {
		cfg.CategoryKey = def.Dimensions[0]
	}
	if len(def.Measures) > 0 {
		cfg.ValueKey = def.Measures[0]
	}
	switch def.Type {
	case domain.ChartBar, domain.ChartLine, domain.ChartArea, domain.ChartPie:
		cfg.Shape = def.Type
	}
	return cfg
}

// numberCleaner strips currency symbols, grouping commas, percent signs, and
// spaces before numeric parsing
var numberCleaner = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", ",", "", "%", "", " ", "")

// coerceNumber converts a record value to a float64. Reports false for
// values that cannot be parsed.
func coerceNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		n, err := strconv.ParseFloat(numberCleaner.Replace(val), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// FormatValue renders a KPI value for display. Non-finite values format as "0".
func FormatValue(value float64, format domain.KPIFormat) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "0"
	}

	switch format {
	case domain.FormatCurrency:
		return "$" + groupedPrinter.Sprintf("%d", int64(math.Round(value)))
	case domain.FormatPercent:
		return fmt.Sprintf("%.1f%%", value)
	default:
		switch {
		case math.Abs(value) >= 1_000_000:
			return fmt.Sprintf("%.1fM", value/1_000_000)
		case math.Abs(value) >= 1_000:
			return fmt.Sprintf("%.1fK", value/1_000)
		default:
			return groupedPrinter.Sprintf("%d", int64(math.Round(value)))
		}
	}
}
