package domain

// MinExtractionRecords is the business-rule minimum for a usable extraction.
// Fewer records than this cannot support a meaningful chart grouping.
const MinExtractionRecords = 3

// DataRecord is one row of extracted tabular data. Values are scalars (number,
// string, or date-like string). Records in a dataset share a field set, but this
// is best-effort on the model's side and not type-checked here.
type DataRecord map[string]any

// Field declares a named column and its rough type
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Schema declares which record fields are numeric measures and which are
// categorical or temporal dimensions
type Schema struct {
	Measures   []Field `json:"measures"`
	Dimensions []Field `json:"dimensions"`
}

// ExtractionMetadata describes how an extraction was produced
type ExtractionMetadata struct {
	TotalRecords         int    `json:"total_records"`
	DataSource           string `json:"data_source"`
	ExtractionConfidence string `json:"extraction_confidence"`
	ProcessingMethod     string `json:"processing_method"`
}

// ExtractionResult is the structured dataset recovered from a document.
// Invariant: len(Data) >= MinExtractionRecords.
type ExtractionResult struct {
	Data     []DataRecord       `json:"data"`
	Schema   Schema             `json:"schema"`
	Metadata ExtractionMetadata `json:"metadata"`
}
