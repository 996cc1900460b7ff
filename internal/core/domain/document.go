package domain

// FileType identifies the upload format a document was extracted from
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypePNG  FileType = "png"
	FileTypeJPG  FileType = "jpg"
	FileTypeJPEG FileType = "jpeg"
	FileTypeTXT  FileType = "txt"
	FileTypeCSV  FileType = "csv"
)

// ExtractedDocument is the text produced by an extraction backend (PDF parser or
// OCR engine). It is immutable once produced; the pipeline never mutates it.
type ExtractedDocument struct {
	Text     string   `json:"text"`
	FileName string   `json:"file_name"`
	FileType FileType `json:"file_type"`
	Length   int      `json:"length"`
}

// ReductionStrategy names the strategy that produced a ReducedText
type ReductionStrategy string

const (
	// StrategyAsIs means the text already fit the budget and was returned unchanged
	StrategyAsIs ReductionStrategy = "as_is"

	// StrategyNumericFilter means only data-bearing lines were kept
	StrategyNumericFilter ReductionStrategy = "numeric_filter"

	// StrategyAISummarize means the model condensed the filtered content
	StrategyAISummarize ReductionStrategy = "ai_summarize"

	// StrategyBestChunks means the highest-scoring chunks were selected
	StrategyBestChunks ReductionStrategy = "best_chunks"
)

// ReducedText is document text cut down to fit the model's input budget while
// preserving data-bearing content. Never mutated after creation.
type ReducedText struct {
	Content    string            `json:"content"`
	WasReduced bool              `json:"was_reduced"`
	Strategy   ReductionStrategy `json:"strategy"`
}

// Chunk is a transient sentence-bounded slice of text used during best-chunk
// selection. Score is non-negative; higher means more data-dense.
type Chunk struct {
	Content string
	Score   float64
}
