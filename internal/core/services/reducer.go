package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driven"
	"github.com/custodia-labs/insight-core/internal/numeric"
)

const (
	// summarizeInputChars caps how much filtered content goes to the model
	summarizeInputChars = 6000

	// chunkTargetChars is the target size for sentence-bounded chunks
	chunkTargetChars = 4500

	// summarizeTemperature keeps the summary close to the source numbers
	summarizeTemperature = 0.1
)

// Reducer cuts document text down to the model's input budget, preferring
// content that looks numeric or tabular. Strategies are tried in order, each
// only when the prior is insufficient: as-is, numeric line filter, AI-assisted
// summarization, best-chunk selection. Deterministic except the AI path.
type Reducer struct {
	budget     domain.TokenBudget
	completion driven.CompletionService
	logger     *slog.Logger
}

// NewReducer creates a Reducer. completion may be nil, in which case the
// AI-summarize stage is skipped and filtering falls through to chunk selection.
func NewReducer(budget domain.TokenBudget, completion driven.CompletionService, logger *slog.Logger) *Reducer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reducer{
		budget:     budget,
		completion: completion,
		logger:     logger,
	}
}

// Reduce returns text fitted to the safe token limit. It never fails: a
// summarize-stage error falls through to chunk selection rather than
// propagating, and chunk selection guarantees the budget by construction.
func (r *Reducer) Reduce(ctx context.Context, text string) domain.ReducedText {
	if text == "" || r.budget.Within(text) {
		return domain.ReducedText{Content: text, Strategy: domain.StrategyAsIs}
	}

	filtered := numeric.FilterLines(text)
	if filtered != "" && r.budget.Within(filtered) {
		return domain.ReducedText{
			Content:    filtered,
			WasReduced: true,
			Strategy:   domain.StrategyNumericFilter,
		}
	}

	if filtered != "" && r.completion != nil {
		if summary, ok := r.summarize(ctx, filtered); ok {
			return domain.ReducedText{
				Content:    summary,
				WasReduced: true,
				Strategy:   domain.StrategyAISummarize,
			}
		}
	}

	return domain.ReducedText{
		Content:    r.bestChunks(text),
		WasReduced: true,
		Strategy:   domain.StrategyBestChunks,
	}
}

// summarize condenses filtered content through the model. Any gateway failure
// is logged and reported as not-ok so the caller falls through to chunking.
func (r *Reducer) summarize(ctx context.Context, filtered string) (string, bool) {
	body := truncateAt(filtered, summarizeInputChars)

	prompt := capPrompt(fmt.Sprintf(
		"Condense the following document content. Preserve every number, table, date, "+
			"currency amount, and percentage exactly as written. Drop narrative prose. "+
			"Reply with the condensed text only.\n\n%s", body), r.budget)

	summary, err := r.completion.Complete(ctx, prompt, r.budget.SummaryTokens, summarizeTemperature)
	if err != nil {
		r.logger.Warn("summarize fallback failed, using chunk selection", "error", err)
		return "", false
	}

	summary = strings.TrimSpace(summary)
	if summary == "" || !r.budget.Within(summary) {
		return "", false
	}
	return summary, true
}

// bestChunks splits text into sentence-bounded chunks, scores each for data
// density, and greedily packs the highest-scoring chunks under the budget.
func (r *Reducer) bestChunks(text string) string {
	chunks := splitChunks(text, chunkTargetChars, r.budget.ChunkOverlap)
	for i := range chunks {
		chunks[i].Score = numeric.ScoreChunk(chunks[i].Content)
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})

	// Budget in characters, mirroring the token estimate ratio
	remaining := r.budget.SafeTextLimit * 4

	var selected []string
	for _, c := range chunks {
		need := len(c.Content)
		if len(selected) > 0 {
			need += 2 // separator
		}
		if need <= remaining {
			selected = append(selected, c.Content)
			remaining -= need
			continue
		}
		// A single chunk larger than the whole budget is truncated to fit
		// rather than admitted whole, so the budget holds by construction.
		if len(selected) == 0 && remaining > 0 {
			selected = append(selected, truncateAt(c.Content, remaining))
			remaining = 0
		}
	}

	return strings.Join(selected, "\n\n")
}

var (
	// sentenceEnd matches a sentence boundary followed by whitespace
	sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

	// paragraphBreak marks a hard chunk boundary
	paragraphBreak = regexp.MustCompile(`\n{2,}`)
)

// splitChunks joins sentences until a chunk reaches the target size, closing
// early at paragraph breaks so a table never straddles a prose chunk. Adjacent
// chunks within a paragraph share up to overlap characters of context.
func splitChunks(text string, target, overlap int) []domain.Chunk {
	var chunks []domain.Chunk

	for _, para := range paragraphBreak.Split(text, -1) {
		marked := sentenceEnd.ReplaceAllString(para, "$1\x00")
		sentences := strings.Split(marked, "\x00")

		var current strings.Builder
		carried := ""

		for _, s := range sentences {
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(s)
			if current.Len() >= target {
				content := strings.TrimSpace(current.String())
				chunks = append(chunks, domain.Chunk{Content: content})
				carried = ""
				if overlap > 0 && len(content) > overlap {
					// Advance to a rune boundary so the carried tail never
					// opens mid-sequence
					from := len(content) - overlap
					for from < len(content) && !utf8.RuneStart(content[from]) {
						from++
					}
					carried = content[from:]
				}
				current.Reset()
				current.WriteString(carried)
			}
		}

		// Flush the paragraph remainder, but not a bare carried-over tail
		if rest := strings.TrimSpace(current.String()); rest != "" && rest != strings.TrimSpace(carried) {
			chunks = append(chunks, domain.Chunk{Content: rest})
		}
	}

	return chunks
}
