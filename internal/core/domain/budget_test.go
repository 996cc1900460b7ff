package domain

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 4000), 1000},
		{strings.Repeat("x", 4001), 1001},
	}

	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(len=%d) = %d, want %d", len(tt.text), got, tt.want)
		}
	}
}

func TestTokenBudget_Within_BoundaryInclusive(t *testing.T) {
	b := TokenBudget{SafeTextLimit: 100}

	// Exactly at the limit counts as within budget
	atLimit := strings.Repeat("x", 400)
	if !b.Within(atLimit) {
		t.Error("expected text at exactly the limit to be within budget")
	}

	over := strings.Repeat("x", 401)
	if b.Within(over) {
		t.Error("expected text one character over the limit to exceed budget")
	}
}

func TestDefaultTokenBudget(t *testing.T) {
	b := DefaultTokenBudget()
	if b.SafeTextLimit <= 0 {
		t.Error("expected positive SafeTextLimit")
	}
	if b.MaxInputTokens < b.MaxPromptTokens {
		t.Error("expected MaxInputTokens >= MaxPromptTokens")
	}
	if b.MaxPromptTokens < b.SafeTextLimit {
		t.Error("expected MaxPromptTokens >= SafeTextLimit")
	}
}
