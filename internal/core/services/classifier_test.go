package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driven/mocks"
)

func TestClassifier_Classify(t *testing.T) {
	completion := mocks.NewMockCompletionService("```json\n" +
		`{"hasData": true, "confidence": 85, "reason": "quarterly revenue table", ` +
		`"insights": ["revenue by quarter"], "dataTypes": ["financial"]}` + "\n```")

	c := NewClassifier(completion, domain.DefaultTokenBudget())
	verdict, err := c.Classify(context.Background(), domain.ReducedText{
		Content:  "| Q1 | 100 |\n| Q2 | 250 |",
		Strategy: domain.StrategyAsIs,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !verdict.HasData {
		t.Error("expected HasData=true")
	}
	if verdict.Confidence != 85 {
		t.Errorf("expected confidence 85, got %d", verdict.Confidence)
	}
	if verdict.Reason != "quarterly revenue table" {
		t.Errorf("unexpected reason: %q", verdict.Reason)
	}
	if len(verdict.Insights) != 1 || len(verdict.DataTypes) != 1 {
		t.Errorf("unexpected insights/dataTypes: %v / %v", verdict.Insights, verdict.DataTypes)
	}
}

func TestClassifier_NoDataIsNotAnError(t *testing.T) {
	completion := mocks.NewMockCompletionService(
		`{"hasData": false, "confidence": 90, "reason": "narrative prose only", "insights": [], "dataTypes": []}`)

	c := NewClassifier(completion, domain.DefaultTokenBudget())
	verdict, err := c.Classify(context.Background(), domain.ReducedText{Content: "an essay"})
	if err != nil {
		t.Fatalf("a negative verdict must not be an error: %v", err)
	}
	if verdict.HasData {
		t.Error("expected HasData=false")
	}
}

func TestClassifier_TruncatesPreview(t *testing.T) {
	completion := mocks.NewMockCompletionService(
		`{"hasData": true, "confidence": 50, "reason": "x", "insights": [], "dataTypes": []}`)

	c := NewClassifier(completion, domain.DefaultTokenBudget())
	long := strings.Repeat("data 123 ", 1000) // well over the preview window
	_, err := c.Classify(context.Background(), domain.ReducedText{Content: long})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := completion.Prompts[0]
	if !strings.Contains(prompt, truncationMarker) {
		t.Error("expected explicit truncation marker in prompt")
	}
	if strings.Contains(prompt, long) {
		t.Error("full text should not reach the prompt")
	}
}

func TestClassifier_PreviewCutsAtRuneBoundary(t *testing.T) {
	completion := mocks.NewMockCompletionService(
		`{"hasData": true, "confidence": 50, "reason": "x", "insights": [], "dataTypes": []}`)

	// Position a multi-byte rune across the preview cut point
	content := strings.Repeat("a", classifierPreviewChars-1) + "日本語"
	c := NewClassifier(completion, domain.DefaultTokenBudget())
	if _, err := c.Classify(context.Background(), domain.ReducedText{Content: content}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !utf8.ValidString(completion.Prompts[0]) {
		t.Error("truncated preview split a rune mid-sequence")
	}
}

func TestClassifier_HonorsPromptCeiling(t *testing.T) {
	completion := mocks.NewMockCompletionService(
		`{"hasData": true, "confidence": 50, "reason": "x", "insights": [], "dataTypes": []}`)

	budget := domain.DefaultTokenBudget()
	budget.MaxPromptTokens = 300

	c := NewClassifier(completion, budget)
	long := strings.Repeat("data 123 ", 1000)
	if _, err := c.Classify(context.Background(), domain.ReducedText{Content: long}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := domain.EstimateTokens(completion.Prompts[0]); got > budget.MaxPromptTokens {
		t.Errorf("prompt estimates %d tokens, ceiling is %d", got, budget.MaxPromptTokens)
	}
}

func TestClassifier_GatewayFailure(t *testing.T) {
	completion := mocks.NewMockCompletionService()
	completion.Err = domain.ErrNetworkUnavailable

	c := NewClassifier(completion, domain.DefaultTokenBudget())
	_, err := c.Classify(context.Background(), domain.ReducedText{Content: "text"})

	if !errors.Is(err, domain.ErrClassificationFailed) {
		t.Fatalf("expected ErrClassificationFailed, got %v", err)
	}
	if !errors.Is(err, domain.ErrNetworkUnavailable) {
		t.Error("expected underlying cause to remain in the chain")
	}
}

func TestClassifier_DecodeFailure(t *testing.T) {
	completion := mocks.NewMockCompletionService("I could not find any structured data, sorry!")

	c := NewClassifier(completion, domain.DefaultTokenBudget())
	_, err := c.Classify(context.Background(), domain.ReducedText{Content: "text"})

	if !errors.Is(err, domain.ErrClassificationFailed) {
		t.Fatalf("expected ErrClassificationFailed, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidPayload) {
		t.Error("expected decode failure in the chain")
	}
}

func TestClassifier_ClampsConfidence(t *testing.T) {
	completion := mocks.NewMockCompletionService(
		`{"hasData": true, "confidence": 250, "reason": "x", "insights": [], "dataTypes": []}`)

	c := NewClassifier(completion, domain.DefaultTokenBudget())
	verdict, err := c.Classify(context.Background(), domain.ReducedText{Content: "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Confidence != 100 {
		t.Errorf("expected confidence clamped to 100, got %d", verdict.Confidence)
	}
}
