package services

import (
	"unicode/utf8"

	"github.com/custodia-labs/insight-core/internal/core/domain"
)

// truncateAt cuts s to at most limit bytes, backing off so a multi-byte rune
// is never split mid-sequence.
func truncateAt(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// capPrompt enforces the per-stage prompt ceiling, MaxPromptTokens. Stages
// place the document body at the end of the prompt, so an over-budget prompt
// loses body text, never its instructions. The boundary is inclusive, matching
// TokenBudget.Within.
func capPrompt(prompt string, budget domain.TokenBudget) string {
	if budget.MaxPromptTokens <= 0 {
		return prompt
	}
	limit := budget.MaxPromptTokens * 4
	if len(prompt) <= limit {
		return prompt
	}
	return truncateAt(prompt, limit)
}
