package keywords

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestExtractor() *Extractor {
	return NewExtractor(LoadStopwords("", []string{"colby", "college"}))
}

func TestExtract_QuestionPrefixAndStopwords(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("What are the financial aid deadlines?", 3)
	want := []string{"financial", "aid", "deadlines"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keyword %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestExtract_MaxKeywords(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("housing dining athletics clubs organizations", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 keywords, got %d: %v", len(got), got)
	}
}

func TestExtract_PrefixConsumesEntireQuery(t *testing.T) {
	e := newTestExtractor()

	if got := e.Extract("what who how", 3); len(got) != 0 {
		t.Errorf("expected no keywords, got %v", got)
	}
	if got := e.Extract("", 3); len(got) != 0 {
		t.Errorf("expected no keywords for empty query, got %v", got)
	}
}

func TestExtract_ShortAndDomainTokensFiltered(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("is it ok to visit Colby College admissions", 3)
	if len(got) != 2 || got[0] != "visit" || got[1] != "admissions" {
		t.Fatalf("expected [visit admissions], got %v", got)
	}
}

func TestExtract_DedupeCaseInsensitivePreservesOrder(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("Housing HOUSING dining housing", 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 keywords, got %v", got)
	}
	if got[0] != "Housing" || got[1] != "dining" {
		t.Errorf("expected first-occurrence order [Housing dining], got %v", got)
	}
}

func TestExtract_MidQueryQuestionWordsFiltered(t *testing.T) {
	e := newTestExtractor()

	// "what" is not a leading token here but is still a stop word.
	got := e.Extract("tuition costs and what housing", 5)
	for _, k := range got {
		if strings.EqualFold(k, "what") {
			t.Errorf("question word leaked into keywords: %v", got)
		}
	}
}

func TestExtract_Properties(t *testing.T) {
	e := newTestExtractor()

	queries := []string{
		"hey how's it going",
		"Where is the admissions office located on campus?",
		"Write me a poem about the quad",
		"financial aid financial aid financial aid deadlines scholarships grants",
	}
	for _, q := range queries {
		got := e.Extract(q, 3)
		if len(got) > 3 {
			t.Errorf("query %q: more than 3 keywords: %v", q, got)
		}
		for _, k := range got {
			if len(k) < 3 {
				t.Errorf("query %q: keyword %q shorter than 3 chars", q, k)
			}
			if e.stopwords.Contains(k) {
				t.Errorf("query %q: stop word %q leaked", q, k)
			}
		}
	}
}

func TestLoadStopwords_CorpusFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stopwords.txt")
	if err := os.WriteFile(path, []byte("# comment\nfoo\nbar\n\n"), 0o600); err != nil {
		t.Fatalf("write corpus: %v", err)
	}

	s := LoadStopwords(path, nil)
	if !s.Contains("foo") || !s.Contains("BAR") {
		t.Error("expected corpus words to be loaded case-insensitively")
	}
	// Question prefixes are always layered on top.
	if !s.Contains("what") {
		t.Error("expected question prefixes in the set")
	}
}

func TestLoadStopwords_MissingFileFallsBack(t *testing.T) {
	s := LoadStopwords("/nonexistent/stopwords.txt", nil)
	if !s.Contains("the") {
		t.Error("expected embedded fallback list on read failure")
	}
	if s.Len() == 0 {
		t.Error("expected non-empty fallback set")
	}
}
