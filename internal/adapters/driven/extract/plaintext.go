package extract

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TextExtractor = (*PlainText)(nil)

// maxReadBytes caps how much of an upload is read into memory
const maxReadBytes = 10 << 20 // 10 MB

// PlainText implements driven.TextExtractor for text-native formats. Binary
// formats (PDF, images) need an OCR-capable backend and are rejected here
// with ErrUnsupportedFormat.
type PlainText struct{}

// NewPlainText creates a plain text extractor
func NewPlainText() *PlainText {
	return &PlainText{}
}

// Extract reads the upload and returns its text content
func (p *PlainText) Extract(ctx context.Context, fileName string, r io.Reader) (*domain.ExtractedDocument, error) {
	fileType, err := fileTypeFor(fileName)
	if err != nil {
		return nil, err
	}

	switch fileType {
	case domain.FileTypeTXT, domain.FileTypeCSV:
	default:
		return nil, fmt.Errorf("%w: %s needs an OCR backend", domain.ErrUnsupportedFormat, fileType)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxReadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" || !utf8.ValidString(text) {
		return nil, domain.ErrNoReadableContent
	}

	return &domain.ExtractedDocument{
		Text:     text,
		FileName: filepath.Base(fileName),
		FileType: fileType,
		Length:   len(text),
	}, nil
}

// fileTypeFor maps a file name's extension onto a known FileType
func fileTypeFor(fileName string) (domain.FileType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	switch ext {
	case "pdf":
		return domain.FileTypePDF, nil
	case "png":
		return domain.FileTypePNG, nil
	case "jpg":
		return domain.FileTypeJPG, nil
	case "jpeg":
		return domain.FileTypeJPEG, nil
	case "txt":
		return domain.FileTypeTXT, nil
	case "csv":
		return domain.FileTypeCSV, nil
	default:
		return "", fmt.Errorf("%w: .%s", domain.ErrUnsupportedFormat, ext)
	}
}
