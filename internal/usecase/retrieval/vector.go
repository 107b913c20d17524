package retrieval

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/campusgate/campusgate/internal/domain"
	"github.com/campusgate/campusgate/internal/metrics"
)

// VectorSearcher embeds the raw query, fetches the nearest neighbours and
// re-ranks them with deterministic score adjustments.
type VectorSearcher struct {
	repo    VectorRepository
	embed   Embedder
	scoring Scoring
	maxHits int
	logger  *zap.Logger
}

// NewVectorSearcher creates a vector searcher.
func NewVectorSearcher(
	repo VectorRepository, embed Embedder, scoring Scoring, maxHits int, logger *zap.Logger,
) *VectorSearcher {
	return &VectorSearcher{
		repo:    repo,
		embed:   embed,
		scoring: scoring,
		maxHits: maxHits,
		logger:  logger,
	}
}

// Search returns up to maxHits hits ordered by adjusted score descending.
// Ties keep backend order (stable sort). The returned error is advisory:
// on failure the hit list is empty and callers record the error string.
func (s *VectorSearcher) Search(ctx context.Context, query string) ([]domain.Hit, error) {
	start := time.Now()

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("vector", "error").Inc()
		s.logger.Warn("vector search degraded", zap.Error(err))
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.repo.SearchNearest(ctx, emb.Embedding, s.maxHits)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("vector", "error").Inc()
		s.logger.Warn("vector search degraded", zap.Error(err))
		return nil, fmt.Errorf("nearest neighbours: %w", err)
	}

	for i := range hits {
		if hits[i].Score == nil {
			continue
		}
		adjusted := s.scoring.Adjust(*hits[i].Score, hits[i].URL)
		hits[i].Score = &adjusted
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return scoreOf(hits[i]) > scoreOf(hits[j])
	})

	metrics.RetrievalRequestsTotal.WithLabelValues("vector", "success").Inc()
	metrics.RetrievalDuration.WithLabelValues("vector").Observe(time.Since(start).Seconds())

	return hits, nil
}

func scoreOf(h domain.Hit) float64 {
	if h.Score == nil {
		return 0
	}
	return *h.Score
}
