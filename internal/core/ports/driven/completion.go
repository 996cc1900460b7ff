package driven

import (
	"context"
)

// CompletionService issues a single prompt/response exchange against a remote
// text-generation endpoint. Implementations make exactly one network call per
// invocation with a fixed timeout and no retries - a failed call fails the
// calling pipeline stage, which owns any fallback.
type CompletionService interface {
	// Complete sends one prompt and returns the raw content of the model's
	// reply. Fails fast with domain.ErrPromptTooLarge when the estimated
	// prompt token count exceeds the configured input ceiling, without a
	// network call.
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)

	// Model returns the model identifier being used
	Model() string
}
