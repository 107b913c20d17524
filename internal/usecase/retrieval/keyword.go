package retrieval

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campusgate/campusgate/internal/domain"
	"github.com/campusgate/campusgate/internal/metrics"
)

// defaultHitsPerKeyword caps each sub-query so the total keyword section
// stays bounded by the number of extracted keywords.
const defaultHitsPerKeyword = 1

// KeywordSearcher fans one sub-query per extracted keyword out to the text
// index and merges the results.
type KeywordSearcher struct {
	repo           KeywordRepository
	hitsPerKeyword int
	logger         *zap.Logger
}

// NewKeywordSearcher creates a keyword searcher. hitsPerKeyword <= 0 uses
// the default.
func NewKeywordSearcher(repo KeywordRepository, hitsPerKeyword int, logger *zap.Logger) *KeywordSearcher {
	if hitsPerKeyword <= 0 {
		hitsPerKeyword = defaultHitsPerKeyword
	}
	return &KeywordSearcher{repo: repo, hitsPerKeyword: hitsPerKeyword, logger: logger}
}

// Search runs all keyword sub-queries concurrently and merges results,
// deduplicated by document id in keyword order. The returned error is
// advisory: hits collected before a sub-query failure are still returned,
// and callers record the error string instead of failing the request.
func (s *KeywordSearcher) Search(ctx context.Context, keywords []string) ([]domain.Hit, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	start := time.Now()

	perKeyword := make([][]domain.Hit, len(keywords))
	errs := make([]error, len(keywords))

	var wg sync.WaitGroup
	for i, kw := range keywords {
		wg.Add(1)
		go func(i int, kw string) {
			defer wg.Done()
			hits, err := s.repo.SearchKeyword(ctx, kw, s.hitsPerKeyword)
			if err != nil {
				errs[i] = fmt.Errorf("keyword %q: %w", kw, err)
				return
			}
			for j := range hits {
				hits[j].Keyword = kw
			}
			perKeyword[i] = hits
		}(i, kw)
	}
	wg.Wait()

	seen := make(map[string]struct{})
	var merged []domain.Hit
	for _, hits := range perKeyword {
		for _, hit := range hits {
			if _, ok := seen[hit.ID]; ok {
				continue
			}
			seen[hit.ID] = struct{}{}
			merged = append(merged, hit)
		}
	}

	var firstErr error
	for _, err := range errs {
		if err != nil {
			firstErr = err
			break
		}
	}

	if firstErr != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("keyword", "error").Inc()
		s.logger.Warn("keyword search degraded",
			zap.Strings("keywords", keywords),
			zap.Error(firstErr))
	} else {
		metrics.RetrievalRequestsTotal.WithLabelValues("keyword", "success").Inc()
	}
	metrics.RetrievalDuration.WithLabelValues("keyword").Observe(time.Since(start).Seconds())

	return merged, firstErr
}
