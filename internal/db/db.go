// Package db defines the storage contract for the external search indexes.
// The pipeline consumes both indexes read-only; index lifecycle belongs to
// the nightly ingestion job, which is a separate system.
package db

import (
	"context"
	"time"
)

// Store is the search database facade.
type Store interface {
	Pinger
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher provides search operations over FT indexes.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchBM25(ctx context.Context, q *TextQuery) (*SearchResult, error)
}
