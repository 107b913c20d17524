// Package vectorsearch adapts the KNN vector index into semantic-search hits.
package vectorsearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusgate/campusgate/internal/db"
	"github.com/campusgate/campusgate/internal/domain"
)

// store is the consumer interface for vector search (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements nearest-neighbour lookup over the knowledge index.
type Repo struct {
	store     store
	indexName string
}

// New creates a vector search repository over the given FT index.
func New(s store, indexName string) *Repo {
	return &Repo{store: s, indexName: indexName}
}

// SearchNearest returns up to limit hits closest to the query vector,
// each carrying its raw similarity score.
func (r *Repo) SearchNearest(ctx context.Context, vector []float32, limit int) ([]domain.Hit, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName,
		Vector:       vector,
		K:            limit,
		ReturnFields: []string{"title", "url", "source", "content", "__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search nearest: %w", err)
	}

	return parseHits(sr, r.indexName), nil
}

func parseHits(sr *db.SearchResult, indexName string) []domain.Hit {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	prefix := strings.TrimSuffix(indexName, ":idx") + ":"
	hits := make([]domain.Hit, 0, len(sr.Entries))

	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, prefix)
		score := entry.Score

		hit := domain.Hit{
			ID:      id,
			Title:   firstField(entry.Fields, "title", "post_title", "name"),
			URL:     firstField(entry.Fields, "url", "permalink", "link"),
			Source:  firstField(entry.Fields, "source", "site"),
			Content: firstField(entry.Fields, "content", "body", "excerpt", "text"),
			Origin:  domain.OriginVector,
			Score:   &score,
		}
		if hit.URL == "" {
			hit.URL = domain.PlaceholderURL(id)
		}

		hits = append(hits, hit)
	}

	return hits
}

func firstField(fields map[string]string, names ...string) string {
	for _, name := range names {
		if v, ok := fields[name]; ok && v != "" {
			return v
		}
	}
	return ""
}
