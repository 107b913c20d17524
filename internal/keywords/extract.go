// Package keywords turns natural-language queries into high-signal search
// terms for the keyword backend. Extraction is deterministic and does no I/O.
package keywords

import "strings"

// Extractor extracts search keywords from user queries.
type Extractor struct {
	stopwords *Stopwords
	prefixes  map[string]struct{}
}

// NewExtractor creates an extractor over the given stop-word set.
func NewExtractor(stopwords *Stopwords) *Extractor {
	prefixes := make(map[string]struct{}, len(questionPrefixes))
	for _, p := range questionPrefixes {
		prefixes[p] = struct{}{}
	}
	return &Extractor{stopwords: stopwords, prefixes: prefixes}
}

// Extract returns up to max keywords from query, in first-occurrence order.
// A contiguous run of leading question-prefix tokens is stripped, then
// tokens shorter than 3 characters and stop words are discarded, and the
// remainder is deduplicated case-insensitively. An empty result means "no
// keyword search possible" and is not an error.
func (e *Extractor) Extract(query string, max int) []string {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return nil
	}

	// Strip the leading question-prefix run.
	start := 0
	for start < len(tokens) {
		if _, ok := e.prefixes[normalizeToken(tokens[start])]; !ok {
			break
		}
		start++
	}

	seen := make(map[string]struct{})
	var out []string
	for _, tok := range tokens[start:] {
		word := strings.Trim(tok, tokenPunct)
		if len(word) < 3 {
			continue
		}
		lower := strings.ToLower(word)
		if e.stopwords.Contains(lower) {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, word)
		if len(out) == max {
			break
		}
	}
	return out
}

const tokenPunct = ".,;:!?\"'()[]{}"

// normalizeToken lowercases a token and strips surrounding punctuation for
// question-prefix comparison.
func normalizeToken(tok string) string {
	return strings.ToLower(strings.Trim(tok, tokenPunct))
}
