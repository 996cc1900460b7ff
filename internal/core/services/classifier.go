package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driven"
)

const (
	// classifierPreviewChars is the preview window sent to the model. This is
	// a second, independent truncation on top of the reducer: the
	// classification prompt has its own smaller fixed overhead budget.
	classifierPreviewChars = 4000

	// truncationMarker tells the model the preview was cut
	truncationMarker = "...[truncated]"

	classifierMaxTokens   = 500
	classifierTemperature = 0.1
)

// Classifier asks the model whether reduced document text contains
// dashboard-worthy data
type Classifier struct {
	completion driven.CompletionService
	budget     domain.TokenBudget
}

// NewClassifier creates a Classifier
func NewClassifier(completion driven.CompletionService, budget domain.TokenBudget) *Classifier {
	return &Classifier{completion: completion, budget: budget}
}

// availabilityPayload is the fixed JSON shape the model is instructed to emit.
// Keys are decoded case-insensitively against the model's camelCase reply.
type availabilityPayload struct {
	HasData    bool     `json:"hasData"`
	Confidence int      `json:"confidence"`
	Reason     string   `json:"reason"`
	Insights   []string `json:"insights"`
	DataTypes  []string `json:"dataTypes"`
}

// Classify returns the model's verdict on data availability. A gateway or
// decode failure wraps domain.ErrClassificationFailed - failure to determine
// is never reported as "no data".
func (c *Classifier) Classify(ctx context.Context, reduced domain.ReducedText) (domain.AvailabilityVerdict, error) {
	preview := reduced.Content
	if len(preview) > classifierPreviewChars {
		preview = truncateAt(preview, classifierPreviewChars) + truncationMarker
	}

	prompt := capPrompt(fmt.Sprintf(
		"Examine the document text below for dashboard-worthy data: tables, financial "+
			"figures, metrics, statistics, or time series. Respond with JSON only, in "+
			"exactly this shape:\n"+
			`{"hasData": true, "confidence": 85, "reason": "...", "insights": ["..."], "dataTypes": ["..."]}`+
			"\n\nconfidence is 0-100. insights lists the concrete data you found. "+
			"dataTypes names the kinds of data (e.g. \"financial\", \"time series\").\n\n"+
			"Document text:\n%s", preview), c.budget)

	raw, err := c.completion.Complete(ctx, prompt, classifierMaxTokens, classifierTemperature)
	if err != nil {
		return domain.AvailabilityVerdict{}, fmt.Errorf("%w: %w", domain.ErrClassificationFailed, err)
	}

	var payload availabilityPayload
	if err := decodeInto(raw, &payload); err != nil {
		return domain.AvailabilityVerdict{}, fmt.Errorf("%w: %w", domain.ErrClassificationFailed, err)
	}

	return domain.AvailabilityVerdict{
		HasData:    payload.HasData,
		Confidence: clampConfidence(payload.Confidence),
		Reason:     payload.Reason,
		Insights:   payload.Insights,
		DataTypes:  payload.DataTypes,
	}, nil
}

func clampConfidence(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
