package retrieval

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/campusgate/campusgate/internal/domain"
)

func TestKeywordSearcher_TagsAndMerges(t *testing.T) {
	repo := &mockKeywordRepo{
		searchFn: func(_ context.Context, keyword string, limit int) ([]domain.Hit, error) {
			if limit != 1 {
				t.Errorf("limit = %d, expected 1 per keyword", limit)
			}
			return []domain.Hit{{ID: "doc-" + keyword, Title: keyword, Origin: domain.OriginKeyword}}, nil
		},
	}

	s := NewKeywordSearcher(repo, 1, zap.NewNop())

	hits, err := s.Search(context.Background(), []string{"financial", "aid", "deadlines"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}

	// Merge preserves keyword order regardless of goroutine completion order.
	for i, kw := range []string{"financial", "aid", "deadlines"} {
		if hits[i].Keyword != kw {
			t.Errorf("hits[%d].Keyword = %q, expected %q", i, hits[i].Keyword, kw)
		}
	}
}

func TestKeywordSearcher_DedupesByID(t *testing.T) {
	repo := &mockKeywordRepo{
		searchFn: func(_ context.Context, keyword string, _ int) ([]domain.Hit, error) {
			// Both keywords resolve to the same document.
			return []domain.Hit{{ID: "doc-shared", Title: "Shared"}}, nil
		},
	}

	s := NewKeywordSearcher(repo, 1, zap.NewNop())

	hits, err := s.Search(context.Background(), []string{"housing", "dorms"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 deduplicated hit, got %d", len(hits))
	}
	if hits[0].Keyword != "housing" {
		t.Errorf("kept hit's keyword = %q, expected first-seen", hits[0].Keyword)
	}
}

func TestKeywordSearcher_EmptyKeywordsSkipsRepo(t *testing.T) {
	repo := &mockKeywordRepo{}
	s := NewKeywordSearcher(repo, 1, zap.NewNop())

	hits, err := s.Search(context.Background(), nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if hits != nil {
		t.Errorf("expected no hits, got %v", hits)
	}
	if repo.callCount() != 0 {
		t.Errorf("repo called %d times with zero keywords", repo.callCount())
	}
}

func TestKeywordSearcher_PartialFailureKeepsHits(t *testing.T) {
	repo := &mockKeywordRepo{
		searchFn: func(_ context.Context, keyword string, _ int) ([]domain.Hit, error) {
			if keyword == "broken" {
				return nil, errors.New("index timeout")
			}
			return []domain.Hit{{ID: "doc-" + keyword}}, nil
		},
	}

	s := NewKeywordSearcher(repo, 1, zap.NewNop())

	hits, err := s.Search(context.Background(), []string{"tuition", "broken"})
	if err == nil {
		t.Fatal("expected advisory error")
	}
	if len(hits) != 1 {
		t.Fatalf("expected surviving hit, got %d", len(hits))
	}
	if hits[0].ID != "doc-tuition" {
		t.Errorf("hit ID = %q", hits[0].ID)
	}
}
