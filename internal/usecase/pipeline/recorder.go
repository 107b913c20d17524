package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusgate/campusgate/internal/domain"
	"github.com/campusgate/campusgate/internal/metrics"
)

// Recorder carries one request's log-entry identity through the pipeline.
// It is request-scoped: concurrent requests each get their own Recorder so
// log identifiers never cross-contaminate. Every store failure is swallowed;
// a lost audit trail never fails the user-facing request.
type Recorder struct {
	entryID string
	store   LogStore
	logger  *zap.Logger
}

// newRecorder creates the request's log entry and returns a recorder bound
// to it. On store failure the recorder is inert but still safe to use.
func newRecorder(ctx context.Context, store LogStore, userMessage string, logger *zap.Logger) *Recorder {
	rec := &Recorder{store: store, logger: logger}

	entry, err := store.CreateEntry(ctx, userMessage)
	if err != nil {
		metrics.QueryLogFailuresTotal.Inc()
		logger.Warn("failed to start query log", zap.Error(err))
		return rec
	}

	rec.entryID = entry.ID
	return rec
}

// EntryID returns the bound log entry id, empty when logging is inert.
func (r *Recorder) EntryID() string {
	return r.entryID
}

// AppendPart implements domain.PartRecorder.
func (r *Recorder) AppendPart(ctx context.Context, part domain.LogPart) {
	if r.entryID == "" {
		return
	}

	part.EntryID = r.entryID
	if err := r.store.AppendPart(ctx, part); err != nil {
		metrics.QueryLogFailuresTotal.Inc()
		r.logger.Warn("failed to append query log part",
			zap.String("entry_id", r.entryID),
			zap.String("stage", string(part.Stage)),
			zap.Error(err))
	}
}

// Finalize writes the terminal status for the bound entry.
func (r *Recorder) Finalize(ctx context.Context, status domain.LogStatus, finalAnswer, blockedBy, errorMessage string) {
	if r.entryID == "" {
		return
	}

	if err := r.store.Finalize(ctx, r.entryID, status, finalAnswer, blockedBy, errorMessage); err != nil {
		metrics.QueryLogFailuresTotal.Inc()
		r.logger.Warn("failed to finalize query log",
			zap.String("entry_id", r.entryID),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}
