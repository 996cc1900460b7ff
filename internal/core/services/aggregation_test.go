package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/insight-core/internal/core/domain"
)

var revenueRecords = []domain.DataRecord{
	{"revenue": "100"},
	{"revenue": "abc"},
	{"revenue": float64(200)},
}

func TestComputeKPI_SumSkipsUnparseable(t *testing.T) {
	kpi := ComputeKPI(revenueRecords, domain.KPIDefinition{
		Name: "Total", Calculation: domain.CalcSum, Column: "revenue", Format: domain.FormatNumber,
	})
	if kpi == nil {
		t.Fatal("expected a computed KPI")
	}
	assert.Equal(t, float64(300), kpi.Value)
}

func TestComputeKPI_AvgDividesByParseableCount(t *testing.T) {
	kpi := ComputeKPI(revenueRecords, domain.KPIDefinition{
		Name: "Average", Calculation: domain.CalcAvg, Column: "revenue", Format: domain.FormatNumber,
	})
	if kpi == nil {
		t.Fatal("expected a computed KPI")
	}
	// Average over the 2 parseable values, not all 3
	assert.Equal(t, float64(150), kpi.Value)
}

func TestComputeKPI_CountIgnoresColumn(t *testing.T) {
	kpi := ComputeKPI(revenueRecords, domain.KPIDefinition{
		Name: "Rows", Calculation: domain.CalcCount, Column: "missing", Format: domain.FormatNumber,
	})
	if kpi == nil {
		t.Fatal("expected a computed KPI")
	}
	assert.Equal(t, float64(3), kpi.Value)
}

func TestComputeKPI_MaxMin(t *testing.T) {
	maxKPI := ComputeKPI(revenueRecords, domain.KPIDefinition{
		Calculation: domain.CalcMax, Column: "revenue",
	})
	minKPI := ComputeKPI(revenueRecords, domain.KPIDefinition{
		Calculation: domain.CalcMin, Column: "revenue",
	})
	assert.Equal(t, float64(200), maxKPI.Value)
	assert.Equal(t, float64(100), minKPI.Value)
}

func TestComputeKPI_CurrencyStrings(t *testing.T) {
	records := []domain.DataRecord{
		{"amount": "$1,200"},
		{"amount": "€300"},
		{"amount": "12.5%"},
	}
	kpi := ComputeKPI(records, domain.KPIDefinition{
		Calculation: domain.CalcSum, Column: "amount",
	})
	assert.Equal(t, 1512.5, kpi.Value)
}

func TestComputeKPI_UnrecognizedCalculation(t *testing.T) {
	kpi := ComputeKPI(revenueRecords, domain.KPIDefinition{
		Calculation: "median", Column: "revenue",
	})
	if kpi != nil {
		t.Errorf("unrecognized calculation should yield nil, got %+v", kpi)
	}
}

func TestComputeKPI_AvgNoParseableValues(t *testing.T) {
	records := []domain.DataRecord{{"v": "x"}, {"v": "y"}}
	kpi := ComputeKPI(records, domain.KPIDefinition{Calculation: domain.CalcAvg, Column: "v"})
	assert.Equal(t, float64(0), kpi.Value)
	assert.Equal(t, "0", kpi.FormattedValue)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value  float64
		format domain.KPIFormat
		want   string
	}{
		{1500000, domain.FormatNumber, "1.5M"},
		{2500, domain.FormatNumber, "2.5K"},
		{999, domain.FormatNumber, "999"},
		{1234567, domain.FormatCurrency, "$1,234,567"},
		{1234.4, domain.FormatCurrency, "$1,234"},
		{45, domain.FormatPercent, "45.0%"},
		{12.35, domain.FormatPercent, "12.3%"},
		{math.NaN(), domain.FormatNumber, "0"},
		{math.NaN(), domain.FormatCurrency, "0"},
		{math.Inf(1), domain.FormatPercent, "0"},
		{0, domain.FormatNumber, "0"},
	}

	for _, tt := range tests {
		if got := FormatValue(tt.value, tt.format); got != tt.want {
			t.Errorf("FormatValue(%v, %s) = %q, want %q", tt.value, tt.format, got, tt.want)
		}
	}
}

func TestComputeChart_GroupAndSum(t *testing.T) {
	records := []domain.DataRecord{
		{"cat": "Q1", "rev": float64(100)},
		{"cat": "Q1", "rev": float64(50)},
		{"cat": "Q2", "rev": float64(80)},
	}
	def := domain.ChartDefinition{
		Title: "Revenue", Type: domain.ChartBar,
		Measures: []string{"rev"}, Dimensions: []string{"cat"},
	}

	chart := ComputeChart(records, def, 0)
	if chart == nil {
		t.Fatal("expected a computed chart")
	}

	assert.Equal(t, "chart_0", chart.ID)
	if len(chart.Data) != 2 {
		t.Fatalf("expected 2 data points, got %d", len(chart.Data))
	}
	// Sorted descending by the first measure
	assert.Equal(t, "Q1", chart.Data[0]["cat"])
	assert.Equal(t, float64(150), chart.Data[0]["rev"])
	assert.Equal(t, "Q2", chart.Data[1]["cat"])
	assert.Equal(t, float64(80), chart.Data[1]["rev"])
}

func TestComputeChart_MissingDimensionGroupsAsUnknown(t *testing.T) {
	records := []domain.DataRecord{
		{"rev": float64(10)},
		{"cat": "", "rev": float64(5)},
		{"cat": "Q1", "rev": float64(3)},
	}
	def := domain.ChartDefinition{
		Type: domain.ChartBar, Measures: []string{"rev"}, Dimensions: []string{"cat"},
	}

	chart := ComputeChart(records, def, 0)
	if chart == nil {
		t.Fatal("expected a computed chart")
	}
	assert.Equal(t, "Unknown", chart.Data[0]["cat"])
	assert.Equal(t, float64(15), chart.Data[0]["rev"])
}

func TestComputeChart_TruncatesToTopTwenty(t *testing.T) {
	var records []domain.DataRecord
	for i := 0; i < 50; i++ {
		records = append(records, domain.DataRecord{
			"cat": string(rune('A' + i%26)),
			"rev": float64(i),
		})
	}
	def := domain.ChartDefinition{
		Type: domain.ChartBar, Measures: []string{"rev"}, Dimensions: []string{"cat"},
	}

	chart := ComputeChart(records, def, 1)
	if chart == nil {
		t.Fatal("expected a computed chart")
	}
	if len(chart.Data) > 20 {
		t.Errorf("expected at most 20 data points, got %d", len(chart.Data))
	}
	assert.Equal(t, "chart_1", chart.ID)
}

func TestComputeChart_NoMeasuresPassthrough(t *testing.T) {
	var records []domain.DataRecord
	for i := 0; i < 30; i++ {
		records = append(records, domain.DataRecord{"v": float64(i)})
	}
	def := domain.ChartDefinition{Title: "Raw", Type: domain.ChartLine}

	chart := ComputeChart(records, def, 0)
	if chart == nil {
		t.Fatal("expected a computed chart")
	}
	// First 20 records verbatim, no aggregation
	if len(chart.Data) != 20 {
		t.Fatalf("expected 20 verbatim records, got %d", len(chart.Data))
	}
	assert.Equal(t, float64(0), chart.Data[0]["v"])
}

func TestComputeChart_EmptyRecords(t *testing.T) {
	def := domain.ChartDefinition{
		Type: domain.ChartBar, Measures: []string{"rev"}, Dimensions: []string{"cat"},
	}
	if chart := ComputeChart(nil, def, 0); chart != nil {
		t.Errorf("zero data points should yield nil, got %+v", chart)
	}
}

func TestComputeChart_UnrecognizedTypeDegrades(t *testing.T) {
	records := []domain.DataRecord{{"cat": "Q1", "rev": float64(1)}}
	def := domain.ChartDefinition{
		Type: "sankey", Measures: []string{"rev"}, Dimensions: []string{"cat"},
	}

	chart := ComputeChart(records, def, 0)
	if chart == nil {
		t.Fatal("unrecognized chart type must still return the base shape")
	}
	assert.Empty(t, chart.RenderConfig.Shape)
	assert.Equal(t, "cat", chart.RenderConfig.CategoryKey)
	assert.Equal(t, "rev", chart.RenderConfig.ValueKey)
}

func TestAggregator_DropsBadDefinitions(t *testing.T) {
	a := NewAggregator(nil)

	kpis := a.ComputeKPIs(revenueRecords, []domain.KPIDefinition{
		{Name: "ok", Calculation: domain.CalcSum, Column: "revenue"},
		{Name: "bad", Calculation: "median", Column: "revenue"},
	})
	if len(kpis) != 1 {
		t.Errorf("expected 1 surviving KPI, got %d", len(kpis))
	}

	charts := a.ComputeCharts(revenueRecords, []domain.ChartDefinition{
		{Title: "empty", Type: domain.ChartBar, Measures: []string{"x"}, Dimensions: []string{"y"}},
	})
	// Grouping on a missing dimension still yields an "Unknown" point, so
	// this chart survives; only truly empty datasets drop.
	if len(charts) != 1 {
		t.Errorf("expected 1 chart, got %d", len(charts))
	}
}
