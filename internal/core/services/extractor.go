package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driven"
)

const (
	// extractorBodyChars caps the text body embedded in the extraction prompt
	extractorBodyChars = 6000

	extractorMaxTokens   = 2000
	extractorTemperature = 0.1
)

// Extractor asks the model to convert document text into an array of uniform
// records plus a schema description
type Extractor struct {
	completion driven.CompletionService
	budget     domain.TokenBudget
	minRecords int
}

// NewExtractor creates an Extractor enforcing the default minimum record count
func NewExtractor(completion driven.CompletionService, budget domain.TokenBudget) *Extractor {
	return &Extractor{
		completion: completion,
		budget:     budget,
		minRecords: domain.MinExtractionRecords,
	}
}

// extractionPayload is the fixed JSON shape requested from the model
type extractionPayload struct {
	Data   []domain.DataRecord `json:"data"`
	Schema struct {
		Measures   []domain.Field `json:"measures"`
		Dimensions []domain.Field `json:"dimensions"`
	} `json:"schema"`
	Metadata struct {
		DataSource           string `json:"dataSource"`
		ExtractionConfidence string `json:"extractionConfidence"`
	} `json:"metadata"`
}

// Extract converts text into structured records, guided by the verdict's
// insights. A decoded payload with fewer than the minimum record count fails
// with domain.ErrInsufficientData, distinct from gateway/decode failures,
// which wrap domain.ErrExtractionFailed.
func (e *Extractor) Extract(ctx context.Context, text string, verdict domain.AvailabilityVerdict) (*domain.ExtractionResult, error) {
	body := text
	if len(body) > extractorBodyChars {
		body = truncateAt(body, extractorBodyChars) + truncationMarker
	}

	hints := ""
	if len(verdict.Insights) > 0 {
		hints = "Focus on this data found in the document:\n- " +
			strings.Join(verdict.Insights, "\n- ") + "\n\n"
	}

	prompt := capPrompt(fmt.Sprintf(
		"Extract every row of numerical/tabular data from the document text below into "+
			"uniform records. All records must share the same field names. Respond with "+
			"JSON only, in exactly this shape:\n"+
			`{"data": [{"month": "Jan", "revenue": 12000}], `+
			`"schema": {"measures": [{"name": "revenue", "type": "number"}], `+
			`"dimensions": [{"name": "month", "type": "date"}]}, `+
			`"metadata": {"dataSource": "...", "extractionConfidence": "high"}}`+
			"\n\n%sDocument text:\n%s", hints, body), e.budget)

	raw, err := e.completion.Complete(ctx, prompt, extractorMaxTokens, extractorTemperature)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	var payload extractionPayload
	if err := decodeInto(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	// The model responded and decoded cleanly but gave too little - callers
	// must be able to tell this apart from a failed call
	if len(payload.Data) < e.minRecords {
		return nil, fmt.Errorf("%w: got %d records, need at least %d",
			domain.ErrInsufficientData, len(payload.Data), e.minRecords)
	}

	return &domain.ExtractionResult{
		Data: payload.Data,
		Schema: domain.Schema{
			Measures:   payload.Schema.Measures,
			Dimensions: payload.Schema.Dimensions,
		},
		Metadata: domain.ExtractionMetadata{
			TotalRecords:         len(payload.Data),
			DataSource:           payload.Metadata.DataSource,
			ExtractionConfidence: payload.Metadata.ExtractionConfidence,
			ProcessingMethod:     "llm_extraction",
		},
	}, nil
}
