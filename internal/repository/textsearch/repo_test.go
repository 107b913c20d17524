package textsearch

import (
	"context"
	"errors"
	"testing"

	"github.com/campusgate/campusgate/internal/db"
	"github.com/campusgate/campusgate/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchBM25Fn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchBM25Fn != nil {
		return m.searchBM25Fn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func TestRepo_SearchKeyword(t *testing.T) {
	ms := &mockStore{
		searchBM25Fn: func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
			if q.IndexName != "campus_pages:idx" {
				t.Errorf("index = %q", q.IndexName)
			}
			if q.TextField != "content" {
				t.Errorf("text field = %q", q.TextField)
			}
			if q.Query != "deadlines" {
				t.Errorf("query = %q", q.Query)
			}
			if q.TopK != 1 {
				t.Errorf("topK = %d", q.TopK)
			}
			return &db.SearchResult{
				Total: 1,
				Entries: []db.SearchEntry{
					{
						Key:   "campus_pages:doc-1",
						Score: 2.5,
						Fields: map[string]string{
							"title":   "Important Deadlines",
							"url":     "https://www.colby.edu/financial-aid/deadlines",
							"source":  "colby.edu",
							"content": "All deadlines for the coming year.",
						},
					},
				},
			}, nil
		},
	}

	repo := New(ms, "campus_pages:idx")

	hits, err := repo.SearchKeyword(context.Background(), "deadlines", 1)
	if err != nil {
		t.Fatalf("SearchKeyword failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}

	hit := hits[0]
	if hit.ID != "doc-1" {
		t.Errorf("ID = %q, expected key prefix stripped", hit.ID)
	}
	if hit.Title != "Important Deadlines" {
		t.Errorf("Title = %q", hit.Title)
	}
	if hit.Origin != domain.OriginKeyword {
		t.Errorf("Origin = %q", hit.Origin)
	}
	if hit.Score != nil {
		t.Errorf("keyword hits must not carry a score, got %v", *hit.Score)
	}
}

func TestRepo_SearchKeyword_FieldVariants(t *testing.T) {
	ms := &mockStore{
		searchBM25Fn: func(_ context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
			return &db.SearchResult{
				Total: 1,
				Entries: []db.SearchEntry{
					{
						Key: "campus_pages:doc-2",
						Fields: map[string]string{
							"post_title": "Housing FAQ",
							"permalink":  "https://life.colby.edu/housing",
							"body":       "Answers about housing.",
						},
					},
				},
			}, nil
		},
	}

	repo := New(ms, "campus_pages:idx")

	hits, err := repo.SearchKeyword(context.Background(), "housing", 1)
	if err != nil {
		t.Fatalf("SearchKeyword failed: %v", err)
	}
	if hits[0].Title != "Housing FAQ" {
		t.Errorf("Title = %q, expected post_title fallback", hits[0].Title)
	}
	if hits[0].URL != "https://life.colby.edu/housing" {
		t.Errorf("URL = %q, expected permalink fallback", hits[0].URL)
	}
	if hits[0].Content != "Answers about housing." {
		t.Errorf("Content = %q, expected body fallback", hits[0].Content)
	}
}

func TestRepo_SearchKeyword_PlaceholderURL(t *testing.T) {
	ms := &mockStore{
		searchBM25Fn: func(_ context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
			return &db.SearchResult{
				Total: 1,
				Entries: []db.SearchEntry{
					{Key: "campus_pages:doc-3", Fields: map[string]string{"content": "orphan page"}},
				},
			}, nil
		},
	}

	repo := New(ms, "campus_pages:idx")

	hits, err := repo.SearchKeyword(context.Background(), "orphan", 1)
	if err != nil {
		t.Fatalf("SearchKeyword failed: %v", err)
	}
	if hits[0].URL != domain.PlaceholderURL("doc-3") {
		t.Errorf("URL = %q, expected placeholder", hits[0].URL)
	}
}

func TestRepo_SearchKeyword_Empty(t *testing.T) {
	repo := New(&mockStore{}, "campus_pages:idx")

	hits, err := repo.SearchKeyword(context.Background(), "nothing", 1)
	if err != nil {
		t.Fatalf("SearchKeyword failed: %v", err)
	}
	if hits != nil {
		t.Errorf("expected nil hits, got %v", hits)
	}
}

func TestRepo_SearchKeyword_StoreError(t *testing.T) {
	wantErr := errors.New("index gone")
	ms := &mockStore{
		searchBM25Fn: func(_ context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
			return nil, wantErr
		},
	}

	repo := New(&mockStore{searchBM25Fn: ms.searchBM25Fn}, "campus_pages:idx")

	_, err := repo.SearchKeyword(context.Background(), "boom", 1)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
