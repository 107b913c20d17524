package retrieval

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/campusgate/campusgate/internal/domain"
)

func TestVectorSearcher_AdjustsAndSorts(t *testing.T) {
	repo := &mockVectorRepo{
		searchFn: func(_ context.Context, vector []float32, limit int) ([]domain.Hit, error) {
			if limit != 5 {
				t.Errorf("limit = %d, expected 5", limit)
			}
			return []domain.Hit{
				{ID: "deep", URL: "www.colby.edu/a/b/c", Score: ptr(0.81)},
				{ID: "boosted", URL: "life.colby.edu/housing", Score: ptr(0.75)},
			}, nil
		},
	}

	s := NewVectorSearcher(repo, &mockEmbedder{}, testScoring(), 5, zap.NewNop())

	hits, err := s.Search(context.Background(), "where do students live")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}

	// 0.75 - 0.1 + 0.3 = 0.95 beats 0.81 - 0.3 = 0.51.
	if hits[0].ID != "boosted" {
		t.Errorf("hits[0].ID = %q, expected boosted hit first", hits[0].ID)
	}
	if !almostEqual(*hits[0].Score, 0.95) {
		t.Errorf("adjusted score = %v, expected 0.95", *hits[0].Score)
	}
	if !almostEqual(*hits[1].Score, 0.51) {
		t.Errorf("adjusted score = %v, expected 0.51", *hits[1].Score)
	}
}

func TestVectorSearcher_StableTies(t *testing.T) {
	repo := &mockVectorRepo{
		searchFn: func(_ context.Context, _ []float32, _ int) ([]domain.Hit, error) {
			return []domain.Hit{
				{ID: "first", URL: "www.colby.edu/a", Score: ptr(0.6)},
				{ID: "second", URL: "www.colby.edu/b", Score: ptr(0.6)},
			}, nil
		},
	}

	s := NewVectorSearcher(repo, &mockEmbedder{}, testScoring(), 5, zap.NewNop())

	hits, err := s.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if hits[0].ID != "first" || hits[1].ID != "second" {
		t.Errorf("tie order not stable: %q, %q", hits[0].ID, hits[1].ID)
	}
}

func TestVectorSearcher_EmbedFailure(t *testing.T) {
	emb := &mockEmbedder{
		embedFn: func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
			return domain.EmbeddingResult{}, errors.New("provider down")
		},
	}

	s := NewVectorSearcher(&mockVectorRepo{}, emb, testScoring(), 5, zap.NewNop())

	hits, err := s.Search(context.Background(), "q")
	if err == nil {
		t.Fatal("expected advisory error")
	}
	if hits != nil {
		t.Errorf("expected no hits, got %v", hits)
	}
}

func TestVectorSearcher_RepoFailure(t *testing.T) {
	repo := &mockVectorRepo{
		searchFn: func(_ context.Context, _ []float32, _ int) ([]domain.Hit, error) {
			return nil, errors.New("no such index")
		},
	}

	s := NewVectorSearcher(repo, &mockEmbedder{}, testScoring(), 5, zap.NewNop())

	hits, err := s.Search(context.Background(), "q")
	if err == nil {
		t.Fatal("expected advisory error")
	}
	if hits != nil {
		t.Errorf("expected no hits, got %v", hits)
	}
}
