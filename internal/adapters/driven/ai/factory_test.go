package ai

import (
	"errors"
	"testing"

	"github.com/custodia-labs/insight-core/internal/core/domain"
)

func TestNewCompletionService(t *testing.T) {
	budget := domain.DefaultTokenBudget()

	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantErr  error
	}{
		{
			name:    "nil settings",
			wantErr: domain.ErrCredentialMissing,
		},
		{
			name:     "unconfigured settings",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI},
			wantErr:  domain.ErrCredentialMissing,
		},
		{
			name: "missing api key",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				Model:    "gpt-4o-mini",
			},
			wantErr: domain.ErrCredentialMissing,
		},
		{
			name: "openai",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "sk-test",
				Model:    "gpt-4o-mini",
			},
		},
		{
			name: "openrouter",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenRouter,
				APIKey:   "or-test",
				Model:    "anthropic/claude-3.5-sonnet",
			},
		},
		{
			name: "unknown provider",
			settings: &domain.LLMSettings{
				Provider: "bedrock",
				APIKey:   "key",
				Model:    "model",
			},
			wantErr: domain.ErrInvalidProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewCompletionService(tt.settings, budget)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc.Model() != tt.settings.Model {
				t.Errorf("expected model %q, got %q", tt.settings.Model, svc.Model())
			}
		})
	}
}
