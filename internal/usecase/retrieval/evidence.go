// Package retrieval assembles the evidence bundle for one query: keyword
// extraction, fan-out to the text and vector indexes, score adjustment, and
// the merged search context consumed by the validators and the answerer.
package retrieval

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campusgate/campusgate/internal/domain"
)

// Builder assembles the per-request search context. It never fails: backend
// failures degrade to empty sections with the error recorded, so the gates
// reason over "insufficient evidence" instead of crashing the request.
type Builder struct {
	extractor   Extractor
	keyword     *KeywordSearcher
	vector      *VectorSearcher
	maxKeywords int
	timeout     time.Duration
	logger      *zap.Logger
}

// NewBuilder creates an evidence builder.
func NewBuilder(
	extractor Extractor, keyword *KeywordSearcher, vector *VectorSearcher,
	maxKeywords int, logger *zap.Logger,
) *Builder {
	return &Builder{
		extractor:   extractor,
		keyword:     keyword,
		vector:      vector,
		maxKeywords: maxKeywords,
		logger:      logger,
	}
}

// WithTimeout bounds each evidence build with a deadline. Zero disables it.
func (b *Builder) WithTimeout(d time.Duration) *Builder {
	b.timeout = d
	return b
}

// Build runs keyword and vector retrieval concurrently and assembles the
// search context. Both sections are always present; a failed or skipped
// backend yields empty results plus an error string.
func (b *Builder) Build(ctx context.Context, query string) *domain.Context {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	keywords := b.extractor.Extract(query, b.maxKeywords)
	if keywords == nil {
		keywords = []string{}
	}

	var (
		wg          sync.WaitGroup
		keywordHits []domain.Hit
		keywordErr  error
		vectorHits  []domain.Hit
		vectorErr   error
	)

	if len(keywords) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keywordHits, keywordErr = b.keyword.Search(ctx, keywords)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		vectorHits, vectorErr = b.vector.Search(ctx, query)
	}()

	wg.Wait()

	sc := &domain.Context{
		UserQuery: query,
		Keyword: domain.KeywordSection{
			Keywords:   keywords,
			NumResults: len(keywordHits),
			Results:    emptyIfNil(keywordHits),
		},
		Vector: domain.VectorSection{
			NumResults: len(vectorHits),
			Results:    emptyIfNil(vectorHits),
		},
	}
	if keywordErr != nil {
		sc.Keyword.Error = keywordErr.Error()
	}
	if vectorErr != nil {
		sc.Vector.Error = vectorErr.Error()
	}

	b.logger.Debug("evidence built",
		zap.Strings("keywords", keywords),
		zap.Int("keyword_hits", len(keywordHits)),
		zap.Int("vector_hits", len(vectorHits)),
		zap.Strings("build_errors", sc.BuildErrors()))

	return sc
}

// emptyIfNil keeps the serialized sections shaped as "results": [] rather
// than null when a backend returned nothing.
func emptyIfNil(hits []domain.Hit) []domain.Hit {
	if hits == nil {
		return []domain.Hit{}
	}
	return hits
}
