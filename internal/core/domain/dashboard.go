package domain

// KPICalculation is the aggregation applied to a KPI's column
type KPICalculation string

const (
	CalcSum   KPICalculation = "sum"
	CalcAvg   KPICalculation = "avg"
	CalcCount KPICalculation = "count"
	CalcMax   KPICalculation = "max"
	CalcMin   KPICalculation = "min"
)

// KPIFormat selects the display formatting for a KPI value
type KPIFormat string

const (
	FormatCurrency KPIFormat = "currency"
	FormatPercent  KPIFormat = "percent"
	FormatNumber   KPIFormat = "number"
)

// KPIDefinition specifies a single aggregated metric over the records
type KPIDefinition struct {
	Name        string         `json:"name"`
	Calculation KPICalculation `json:"calculation"`
	Column      string         `json:"column"`
	Format      KPIFormat      `json:"format"`
}

// ChartType is the visualization shape for a chart
type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
	ChartArea ChartType = "area"
	ChartPie  ChartType = "pie"
)

// ChartDefinition specifies which records to group/aggregate and how to
// visualize them
type ChartDefinition struct {
	Title      string    `json:"title"`
	Type       ChartType `json:"type"`
	Measures   []string  `json:"measures"`
	Dimensions []string  `json:"dimensions"`
}

// DashboardConfig is the model-proposed dashboard layout. Produced once per
// session; immutable thereafter.
type DashboardConfig struct {
	KPIs     []KPIDefinition   `json:"kpis"`
	Charts   []ChartDefinition `json:"charts"`
	Insights []string          `json:"insights"`
	Summary  string            `json:"summary"`
}

// ComputedKPI is a KPI definition evaluated against the records. Recomputed on
// every dashboard request, never persisted on its own.
type ComputedKPI struct {
	Name           string         `json:"name"`
	Value          float64        `json:"value"`
	FormattedValue string         `json:"formatted_value"`
	Calculation    KPICalculation `json:"calculation"`
	Column         string         `json:"column"`
	Format         KPIFormat      `json:"format"`
}

// ChartMargin is the plot margin carried in the render config
type ChartMargin struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// RenderConfig tells the presentation layer how to bind the computed data to a
// chart widget: first dimension on the category axis, first measure as the
// value key. Shape is empty when the chart type is unrecognized, so rendering
// degrades instead of failing.
type RenderConfig struct {
	Shape       ChartType   `json:"shape,omitempty"`
	CategoryKey string      `json:"category_key,omitempty"`
	ValueKey    string      `json:"value_key,omitempty"`
	Margin      ChartMargin `json:"margin"`
}

// ComputedChart is a chart definition evaluated against the records
type ComputedChart struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Type         ChartType        `json:"type"`
	Data         []map[string]any `json:"data"`
	Measures     []string         `json:"measures"`
	Dimensions   []string         `json:"dimensions"`
	RenderConfig RenderConfig     `json:"render_config"`
}
