package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driven"
)

// Ensure OpenAICompletion implements CompletionService
var _ driven.CompletionService = (*OpenAICompletion)(nil)

// requestTimeout bounds a single completion call end to end
const requestTimeout = 45 * time.Second

// OpenAICompletion implements CompletionService against any OpenAI-compatible
// chat completion endpoint
type OpenAICompletion struct {
	client *openai.Client
	model  string
	budget domain.TokenBudget
}

// NewOpenAICompletion creates a completion service for an OpenAI-compatible
// endpoint. An empty apiKey is a fatal configuration error - there is no
// degraded mode without a credential.
func NewOpenAICompletion(apiKey, model, baseURL string, budget domain.TokenBudget) (driven.CompletionService, error) {
	if apiKey == "" {
		return nil, domain.ErrCredentialMissing
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	config.HTTPClient = &http.Client{
		Timeout: requestTimeout,
	}

	return &OpenAICompletion{
		client: openai.NewClientWithConfig(config),
		model:  model,
		budget: budget,
	}, nil
}

// Complete sends one chat completion request. There are no retries: a failed
// call surfaces immediately with a typed error the caller can inspect.
func (c *OpenAICompletion) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	estimated := domain.EstimateTokens(prompt)
	if estimated > c.budget.MaxInputTokens {
		return "", fmt.Errorf("%w: estimated %d tokens, limit %d",
			domain.ErrPromptTooLarge, estimated, c.budget.MaxInputTokens)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", classifyCallError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", domain.ErrMalformedResponse)
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: empty message content", domain.ErrMalformedResponse)
	}

	return content, nil
}

// Model returns the model name being used
func (c *OpenAICompletion) Model() string {
	return c.model
}

// classifyCallError maps transport and API failures onto the domain error
// taxonomy. A response with a non-success status becomes a RemoteError; no
// response at all becomes ErrNetworkUnavailable.
func classifyCallError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.RemoteError{
			Status:     apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			TokenLimit: isTokenLimitRejection(apiErr),
		}
	}

	// A non-success status whose body could not be parsed as an API error
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &domain.RemoteError{
			Status:  reqErr.HTTPStatusCode,
			Message: reqErr.Error(),
		}
	}

	return fmt.Errorf("%w: %w", domain.ErrNetworkUnavailable, err)
}

// isTokenLimitRejection detects token or context-length rejections so callers
// can shrink the prompt instead of giving up
func isTokenLimitRejection(apiErr *openai.APIError) bool {
	if apiErr.HTTPStatusCode == http.StatusRequestEntityTooLarge {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	for _, marker := range []string{"token", "context length", "context_length", "too long", "maximum length"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
