package domain

// ProcessingInfo records how the pipeline handled a document
type ProcessingInfo struct {
	Strategy       ReductionStrategy `json:"strategy"`
	WasReduced     bool              `json:"was_reduced"`
	OriginalLength int               `json:"original_length"`
	ReducedLength  int               `json:"reduced_length"`
	Model          string            `json:"model"`
	DurationMS     int64             `json:"duration_ms"`
}

// AnalysisResult is the outcome of one full pipeline run. HasData=false is a
// successful determination that the document holds nothing dashboard-worthy,
// carrying only the classifier's reason; it is never conflated with a failure.
type AnalysisResult struct {
	SessionID  string         `json:"session_id"`
	HasData    bool           `json:"has_data"`
	Reason     string         `json:"reason,omitempty"`
	Data       []DataRecord   `json:"data,omitempty"`
	Schema     *Schema        `json:"schema,omitempty"`
	Config     *DashboardConfig `json:"config,omitempty"`
	KPIs       []ComputedKPI  `json:"kpis,omitempty"`
	Charts     []ComputedChart `json:"charts,omitempty"`
	Insights   []string       `json:"insights,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Processing ProcessingInfo `json:"processing_info"`
}
