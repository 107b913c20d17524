package retrieval

import (
	"context"
	"sync"

	"github.com/campusgate/campusgate/internal/domain"
)

// mockKeywordRepo implements KeywordRepository for tests.
type mockKeywordRepo struct {
	mu       sync.Mutex
	calls    []string
	searchFn func(ctx context.Context, keyword string, limit int) ([]domain.Hit, error)
}

func (m *mockKeywordRepo) SearchKeyword(ctx context.Context, keyword string, limit int) ([]domain.Hit, error) {
	m.mu.Lock()
	m.calls = append(m.calls, keyword)
	m.mu.Unlock()
	if m.searchFn != nil {
		return m.searchFn(ctx, keyword, limit)
	}
	return nil, nil
}

func (m *mockKeywordRepo) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockVectorRepo implements VectorRepository for tests.
type mockVectorRepo struct {
	searchFn func(ctx context.Context, vector []float32, limit int) ([]domain.Hit, error)
}

func (m *mockVectorRepo) SearchNearest(ctx context.Context, vector []float32, limit int) ([]domain.Hit, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, vector, limit)
	}
	return nil, nil
}

// mockEmbedder implements Embedder for tests.
type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

// mockExtractor implements Extractor for tests.
type mockExtractor struct {
	keywords []string
}

func (m *mockExtractor) Extract(_ string, maxKeywords int) []string {
	if len(m.keywords) > maxKeywords {
		return m.keywords[:maxKeywords]
	}
	return m.keywords
}

func ptr(f float64) *float64 { return &f }

func testScoring() Scoring {
	return Scoring{
		RootDomain: "colby.edu",
		DomainDeltas: map[string]float64{
			"life.colby.edu":   0.3,
			"afa.colby.edu":    0.3,
			"news.colby.edu":   -0.3,
			"alumni.colby.edu": 0.1,
		},
	}
}
