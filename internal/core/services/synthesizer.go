package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driven"
)

const (
	// synthesizerSampleSize is how many records the model sees
	synthesizerSampleSize = 5

	synthesizerMaxTokens   = 1500
	synthesizerTemperature = 0.2
)

// Synthesizer asks the model to propose KPI and chart definitions for an
// extracted dataset
type Synthesizer struct {
	completion driven.CompletionService
	budget     domain.TokenBudget
}

// NewSynthesizer creates a Synthesizer
func NewSynthesizer(completion driven.CompletionService, budget domain.TokenBudget) *Synthesizer {
	return &Synthesizer{completion: completion, budget: budget}
}

// configPayload is the fixed JSON shape requested from the model
type configPayload struct {
	KPIs []struct {
		Name        string `json:"name"`
		Calculation string `json:"calculation"`
		Column      string `json:"column"`
		Format      string `json:"format"`
	} `json:"kpis"`
	Charts []struct {
		Title      string   `json:"title"`
		Type       string   `json:"type"`
		Measures   []string `json:"measures"`
		Dimensions []string `json:"dimensions"`
	} `json:"charts"`
	Insights []string `json:"insights"`
	Summary  string   `json:"summary"`
}

// Synthesize proposes a dashboard configuration from a sample of the records.
// No validation beyond a successful decode - the aggregation engine is
// defensive against missing or invalid definitions. Failures wrap
// domain.ErrConfigSynthesisFailed.
func (s *Synthesizer) Synthesize(ctx context.Context, extraction *domain.ExtractionResult) (*domain.DashboardConfig, error) {
	sample := extraction.Data
	if len(sample) > synthesizerSampleSize {
		sample = sample[:synthesizerSampleSize]
	}

	sampleJSON, err := json.Marshal(sample)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigSynthesisFailed, err)
	}
	schemaJSON, err := json.Marshal(extraction.Schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigSynthesisFailed, err)
	}

	// Data sections go last so the stage prompt cap trims sample records, not
	// the response-shape instructions
	prompt := capPrompt(fmt.Sprintf(
		"Design a dashboard for a dataset of %d records. Respond with JSON only, "+
			"in exactly this shape:\n"+
			`{"kpis": [{"name": "Total Revenue", "calculation": "sum", "column": "revenue", "format": "currency"}], `+
			`"charts": [{"title": "Revenue by Month", "type": "bar", "measures": ["revenue"], "dimensions": ["month"]}], `+
			`"insights": ["..."], "summary": "..."}`+
			"\n\ncalculation is one of sum, avg, count, max, min. format is one of "+
			"currency, percent, number. chart type is one of bar, line, area, pie. "+
			"Propose 2-4 KPIs and 1-3 charts that best summarise the data.\n\n"+
			"Schema:\n%s\n\nSample records:\n%s",
		extraction.Metadata.TotalRecords, schemaJSON, sampleJSON), s.budget)

	raw, err := s.completion.Complete(ctx, prompt, synthesizerMaxTokens, synthesizerTemperature)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigSynthesisFailed, err)
	}

	var payload configPayload
	if err := decodeInto(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigSynthesisFailed, err)
	}

	config := &domain.DashboardConfig{
		Insights: payload.Insights,
		Summary:  payload.Summary,
	}
	for _, k := range payload.KPIs {
		config.KPIs = append(config.KPIs, domain.KPIDefinition{
			Name:        k.Name,
			Calculation: domain.KPICalculation(k.Calculation),
			Column:      k.Column,
			Format:      domain.KPIFormat(k.Format),
		})
	}
	for _, c := range payload.Charts {
		config.Charts = append(config.Charts, domain.ChartDefinition{
			Title:      c.Title,
			Type:       domain.ChartType(c.Type),
			Measures:   c.Measures,
			Dimensions: c.Dimensions,
		})
	}
	return config, nil
}
