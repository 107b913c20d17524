// Package textsearch adapts the BM25 text index into keyword-search hits.
package textsearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusgate/campusgate/internal/db"
	"github.com/campusgate/campusgate/internal/domain"
)

// store is the consumer interface for text search (ISP).
type store interface {
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo implements keyword lookup over the crawled-pages index.
type Repo struct {
	store     store
	indexName string
}

// New creates a text search repository over the given FT index.
func New(s store, indexName string) *Repo {
	return &Repo{store: s, indexName: indexName}
}

// SearchKeyword returns up to limit hits whose content matches the keyword.
func (r *Repo) SearchKeyword(ctx context.Context, keyword string, limit int) ([]domain.Hit, error) {
	q := &db.TextQuery{
		IndexName:    r.indexName,
		TextField:    "content",
		Query:        keyword,
		TopK:         limit,
		ReturnFields: []string{"title", "url", "source", "content"},
	}

	sr, err := r.store.SearchBM25(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search keyword %q: %w", keyword, err)
	}

	return parseHits(sr, r.indexName, domain.OriginKeyword), nil
}

// parseHits converts raw entries into hits, tolerating the field-name
// variants the ingestion job has produced over time.
func parseHits(sr *db.SearchResult, indexName string, origin domain.Origin) []domain.Hit {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	prefix := keyPrefix(indexName)
	hits := make([]domain.Hit, 0, len(sr.Entries))

	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, prefix)

		hit := domain.Hit{
			ID:      id,
			Title:   firstField(entry.Fields, "title", "post_title", "name"),
			URL:     firstField(entry.Fields, "url", "permalink", "link"),
			Source:  firstField(entry.Fields, "source", "site"),
			Content: firstField(entry.Fields, "content", "body", "excerpt", "text"),
			Origin:  origin,
		}
		if hit.URL == "" {
			hit.URL = domain.PlaceholderURL(id)
		}

		hits = append(hits, hit)
	}

	return hits
}

// keyPrefix derives the document key prefix from the index name
// ("campus_pages:idx" indexes keys "campus_pages:<id>").
func keyPrefix(indexName string) string {
	return strings.TrimSuffix(indexName, ":idx") + ":"
}

func firstField(fields map[string]string, names ...string) string {
	for _, name := range names {
		if v, ok := fields[name]; ok && v != "" {
			return v
		}
	}
	return ""
}
