package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/insight-core/internal/core/domain"
)

func TestTruncateAt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"under limit", "hello", 10, "hello"},
		{"exact limit", "hello", 5, "hello"},
		{"ascii cut", "hello", 3, "hel"},
		{"zero limit", "hello", 0, ""},
		{"negative limit", "hello", -1, ""},
		// é is 2 bytes; cutting at 2 would split it
		{"two-byte rune at boundary", "aé", 2, "a"},
		// 日 is 3 bytes; every cut inside backs off to the previous boundary
		{"three-byte rune, cut at 1", "日", 1, ""},
		{"three-byte rune, cut at 2", "日", 2, ""},
		{"three-byte runes, cut mid second", "日本", 4, "日"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateAt(tt.input, tt.limit)
			if got != tt.want {
				t.Errorf("truncateAt(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateAt(%q, %d) produced invalid UTF-8", tt.input, tt.limit)
			}
		})
	}
}

func TestCapPrompt(t *testing.T) {
	budget := domain.DefaultTokenBudget()
	budget.MaxPromptTokens = 100

	short := "prompt well under the ceiling"
	if got := capPrompt(short, budget); got != short {
		t.Errorf("prompt within ceiling must pass unchanged, got %q", got)
	}

	long := strings.Repeat("数値データ ", 200)
	got := capPrompt(long, budget)
	if domain.EstimateTokens(got) > budget.MaxPromptTokens {
		t.Errorf("capped prompt estimates %d tokens, ceiling is %d",
			domain.EstimateTokens(got), budget.MaxPromptTokens)
	}
	if !utf8.ValidString(got) {
		t.Error("capped prompt contains a split rune")
	}

	budget.MaxPromptTokens = 0
	if got := capPrompt(long, budget); got != long {
		t.Error("zero ceiling must disable the cap")
	}
}
