package pipeline

import (
	"context"

	"github.com/campusgate/campusgate/internal/domain"
)

// ContextBuilder assembles the evidence bundle for a query. Never fails.
type ContextBuilder interface {
	Build(ctx context.Context, query string) *domain.Context
}

// Validator is one gate stage of the pipeline.
type Validator interface {
	Stage() domain.Stage
	Evaluate(ctx context.Context, sc *domain.Context, rec domain.PartRecorder) (domain.Verdict, error)
}

// Answerer produces the final grounded answer.
type Answerer interface {
	Answer(ctx context.Context, sc *domain.Context, rec domain.PartRecorder) (string, error)
}

// LogStore is the durable query-log backend. Every call may fail; the
// Recorder swallows those failures.
type LogStore interface {
	CreateEntry(ctx context.Context, userMessage string) (domain.LogEntry, error)
	AppendPart(ctx context.Context, part domain.LogPart) error
	Finalize(ctx context.Context, entryID string, status domain.LogStatus, finalAnswer, blockedBy, errorMessage string) error
}

// MessageStore resolves operator-curated message strings.
type MessageStore interface {
	Message(ctx context.Context, key string) (string, error)
}
