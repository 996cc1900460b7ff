package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/insight-core/internal/core/domain"
)

// TextExtractor turns an uploaded file into plain text. PDF and OCR backends
// sit behind this port; the pipeline treats them as a black box.
type TextExtractor interface {
	// Extract reads the file and returns its text. Fails with
	// domain.ErrUnsupportedFormat for file types the backend cannot read and
	// domain.ErrNoReadableContent when extraction yields no usable text.
	Extract(ctx context.Context, fileName string, r io.Reader) (*domain.ExtractedDocument, error)
}
