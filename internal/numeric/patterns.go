// Package numeric decides whether text looks data-bearing: currency amounts,
// percentages, table rows, dated figures. The reducer and chunk scorer build on
// it, so the heuristics live here as a flat pattern table that can be tested and
// tuned without touching pipeline control flow.
package numeric

import (
	"regexp"
	"strings"
)

// pattern pairs a compiled expression with the kind of content it detects
type pattern struct {
	name string
	re   *regexp.Regexp
}

// patterns is the full table of "looks numeric" heuristics. A line is kept by
// the filter if any pattern matches it.
var patterns = []pattern{
	// Currency amounts: $1,234.56 / €500 / £2m
	{"currency", regexp.MustCompile(`[$€£¥]\s?\d[\d,]*(\.\d+)?`)},

	// Percentages: 12%, 3.5 %
	{"percent", regexp.MustCompile(`\d+(\.\d+)?\s?%`)},

	// Grouped thousands: 1,234,567
	{"grouped", regexp.MustCompile(`\b\d{1,3}(,\d{3})+\b`)},

	// Abbreviated magnitudes: 1.2M, 3k, 45B
	{"magnitude", regexp.MustCompile(`\b\d+(\.\d+)?\s?[kKmMbB]\b`)},

	// Financial keywords next to digits: "revenue 500", "1200 units sold"
	{"financial", regexp.MustCompile(`(?i)\b(revenue|sales|profit|cost|price|total|amount|income|expense|margin|units?|growth)\b[^.\n]{0,40}\d|\d[^.\n]{0,40}\b(revenue|sales|profit|cost|price|total|amount|income|expense|margin|units?|growth)\b`)},

	// Pipe-delimited table rows: | Q1 | 100 |
	{"table_row", regexp.MustCompile(`\|.*\d.*\|`)},

	// Month names adjacent to digits: "Jan 2024", "15 March"
	{"month", regexp.MustCompile(`(?i)\b(jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|may|jun(e)?|jul(y)?|aug(ust)?|sep(tember)?|oct(ober)?|nov(ember)?|dec(ember)?)\b[^.\n]{0,10}\d|\d[^.\n]{0,10}\b(jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|may|jun(e)?|jul(y)?|aug(ust)?|sep(tember)?|oct(ober)?|nov(ember)?|dec(ember)?)\b`)},

	// Quarter labels: Q1, Q4 2023, "fourth quarter"
	{"quarter", regexp.MustCompile(`(?i)\bQ[1-4]\b|\b(first|second|third|fourth)\s+quarter\b`)},
}

// tableDelimiters are characters that mark a structured row
const tableDelimiters = "|\t;"

var (
	digitGroup = regexp.MustCompile(`\d+`)
	whitespace = regexp.MustCompile(`\s+`)
)

// LineMatches reports whether a line matches any data-bearing pattern
func LineMatches(line string) bool {
	for _, p := range patterns {
		if p.re.MatchString(line) {
			return true
		}
	}
	return false
}

// FilterLines keeps only the data-bearing lines of text, joined by newlines.
// Returns the empty string when nothing matches.
func FilterLines(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if LineMatches(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// CountMatches returns the total number of pattern hits in text, across all
// patterns. Used as the base of the chunk score.
func CountMatches(text string) int {
	total := 0
	for _, p := range patterns {
		total += len(p.re.FindAllStringIndex(text, -1))
	}
	return total
}

// IsTableLike reports whether a line resembles a table row: a delimiter plus a
// digit, or at least four whitespace-separated tokens with two digit groups.
func IsTableLike(line string) bool {
	if strings.ContainsAny(line, tableDelimiters) && digitGroup.MatchString(line) {
		return true
	}
	tokens := whitespace.Split(strings.TrimSpace(line), -1)
	if len(tokens) < 4 {
		return false
	}
	return len(digitGroup.FindAllString(line, -1)) >= 2
}

// tableLineWeight is the score bonus per table-like line. Table rows are the
// densest data carriers, so they outweigh single pattern hits.
const tableLineWeight = 3.0

// ScoreChunk rates how data-dense a chunk of text is. Non-negative; higher
// means more extractable content.
func ScoreChunk(text string) float64 {
	score := float64(CountMatches(text))
	for _, line := range strings.Split(text, "\n") {
		if IsTableLike(line) {
			score += tableLineWeight
		}
	}
	return score
}
