package retrieval

import (
	"context"

	"github.com/campusgate/campusgate/internal/domain"
)

// KeywordRepository looks up documents matching a single keyword.
type KeywordRepository interface {
	SearchKeyword(ctx context.Context, keyword string, limit int) ([]domain.Hit, error)
}

// VectorRepository looks up the nearest documents for a query vector.
type VectorRepository interface {
	SearchNearest(ctx context.Context, vector []float32, limit int) ([]domain.Hit, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Extractor turns a natural-language query into high-signal search terms.
type Extractor interface {
	Extract(query string, maxKeywords int) []string
}
