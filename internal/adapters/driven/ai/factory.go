package ai

import (
	"fmt"

	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driven"
)

// openRouterBaseURL is the OpenAI-compatible endpoint OpenRouter exposes
const openRouterBaseURL = "https://openrouter.ai/api/v1"

// NewCompletionService creates a completion service from settings. Both
// supported providers speak the OpenAI chat completion protocol; they differ
// only in endpoint and credential.
func NewCompletionService(settings *domain.LLMSettings, budget domain.TokenBudget) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, domain.ErrCredentialMissing
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return NewOpenAICompletion(settings.APIKey, settings.Model, settings.BaseURL, budget)
	case domain.AIProviderOpenRouter:
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = openRouterBaseURL
		}
		return NewOpenAICompletion(settings.APIKey, settings.Model, baseURL, budget)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}
