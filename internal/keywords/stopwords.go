package keywords

import (
	"bufio"
	"os"
	"strings"
)

// fallbackStopwords is the embedded stop-word list used when no corpus file
// is configured or the configured one cannot be read.
var fallbackStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from", "has", "he",
	"in", "is", "it", "its", "of", "on", "that", "the", "to", "was", "were",
	"will", "with", "this", "but", "they", "have", "had", "what", "said",
	"each", "which", "she", "do", "how", "their", "if", "up", "out", "many",
	"then", "them", "these", "so", "some", "her", "would", "make", "like",
	"into", "him", "time", "two", "more", "go", "no", "way", "could", "my",
	"than", "first", "been", "call", "who", "oil", "sit", "now", "find",
	"down", "day", "did", "get", "come", "made", "may", "part",
}

// questionPrefixes are tokens that open a question rather than carry search
// signal. A contiguous leading run of these is stripped before filtering,
// and they are filtered again as stop words in case they appear mid-query.
var questionPrefixes = []string{
	"who", "what", "when", "where", "why", "how",
	"who's", "what's", "when's", "where's", "why's", "how's",
	"whats", "whos", "whens", "wheres", "whys", "hows",
	"is", "are", "can", "does", "do",
}

// Stopwords is a case-insensitive stop-word set.
type Stopwords struct {
	words map[string]struct{}
}

// LoadStopwords builds the stop-word set. It tries the corpus file at path
// (one word per line, # comments allowed) and falls back silently to the
// embedded list on any failure. extra holds domain terms such as the
// institution's own name. Never fails.
func LoadStopwords(path string, extra []string) *Stopwords {
	words := readCorpus(path)
	if len(words) == 0 {
		words = fallbackStopwords
	}

	set := make(map[string]struct{}, len(words)+len(extra)+len(questionPrefixes))
	for _, w := range words {
		add(set, w)
	}
	for _, w := range extra {
		add(set, w)
	}
	// Second filter layer: question prefixes count as stop words too.
	for _, w := range questionPrefixes {
		add(set, w)
	}
	return &Stopwords{words: set}
}

// Contains reports whether word is a stop word (case-insensitive).
func (s *Stopwords) Contains(word string) bool {
	_, ok := s.words[strings.ToLower(word)]
	return ok
}

// Len returns the number of stop words in the set.
func (s *Stopwords) Len() int { return len(s.words) }

func add(set map[string]struct{}, w string) {
	w = strings.ToLower(strings.TrimSpace(w))
	if w != "" {
		set[w] = struct{}{}
	}
}

func readCorpus(path string) []string {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if sc.Err() != nil {
		return nil
	}
	return words
}
