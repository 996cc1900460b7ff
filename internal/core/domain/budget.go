package domain

// TokenBudget holds the token limits the pipeline works within. Process-wide and
// read-only after startup.
type TokenBudget struct {
	// MaxInputTokens is the hard ceiling on a single prompt sent to the model
	MaxInputTokens int

	// MaxPromptTokens is the ceiling for prompt bodies built by pipeline stages
	MaxPromptTokens int

	// SafeTextLimit is the target size for reduced document text
	SafeTextLimit int

	// ChunkOverlap is the character overlap between adjacent chunks
	ChunkOverlap int

	// SummaryTokens is the output cap for the AI-summarize fallback
	SummaryTokens int
}

// DefaultTokenBudget returns sensible defaults
func DefaultTokenBudget() TokenBudget {
	return TokenBudget{
		MaxInputTokens:  12000,
		MaxPromptTokens: 8000,
		SafeTextLimit:   6000,
		ChunkOverlap:    200,
		SummaryTokens:   1500,
	}
}

// EstimateTokens approximates the token count of text as ceil(len/4).
// A fixed ratio keeps the pipeline free of a tokenizer dependency; the budget
// constants leave headroom for the approximation error.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// Within reports whether text fits the safe limit. The boundary is inclusive:
// text estimated exactly at the limit is within budget.
func (b TokenBudget) Within(text string) bool {
	return EstimateTokens(text) <= b.SafeTextLimit
}
