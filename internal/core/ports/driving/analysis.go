package driving

import (
	"context"

	"github.com/custodia-labs/insight-core/internal/core/domain"
)

// AnalysisService runs the document-to-dashboard pipeline
type AnalysisService interface {
	// Analyze runs the full pipeline over an extracted document: budget
	// reduction, availability classification, structured extraction,
	// dashboard config synthesis, and aggregation. A no-data verdict is a
	// successful result with HasData=false, not an error.
	Analyze(ctx context.Context, doc *domain.ExtractedDocument) (*domain.AnalysisResult, error)
}
