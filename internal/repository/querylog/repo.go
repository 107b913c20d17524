// Package querylog persists the durable per-request audit trail: one entry
// per user query plus an append-only part per pipeline stage.
package querylog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campusgate/campusgate/internal/db/postgres"
	"github.com/campusgate/campusgate/internal/domain"
)

// Repo implements query-log persistence over Postgres.
type Repo struct {
	db *postgres.DB
}

// New creates a query log repository.
func New(db *postgres.DB) *Repo {
	return &Repo{db: db}
}

// CreateEntry inserts a pending entry for the user message and returns it.
func (r *Repo) CreateEntry(ctx context.Context, userMessage string) (domain.LogEntry, error) {
	entry := domain.LogEntry{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		UserMessage: userMessage,
		Status:      domain.StatusPending,
	}

	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO query_logs (id, created_at, user_message, status)
VALUES ($1, $2, $3, $4)`,
		entry.ID, entry.CreatedAt, entry.UserMessage, string(entry.Status))
	if err != nil {
		return domain.LogEntry{}, fmt.Errorf("insert query log: %w", err)
	}

	return entry, nil
}

// AppendPart inserts a stage part for an entry. The part id is assigned here.
func (r *Repo) AppendPart(ctx context.Context, part domain.LogPart) error {
	if part.ID == "" {
		part.ID = uuid.NewString()
	}
	if part.CreatedAt.IsZero() {
		part.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO query_log_parts (id, entry_id, stage, model_id, agent_name, using_db_config, blocked, result_json, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		part.ID, part.EntryID, string(part.Stage), part.ModelID, part.AgentName,
		part.UsedCuratedConfig, part.Blocked, part.Result, part.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert query log part: %w", err)
	}

	return nil
}

// Finalize writes the terminal status, answer and failure detail for an entry.
func (r *Repo) Finalize(
	ctx context.Context, entryID string,
	status domain.LogStatus, finalAnswer, blockedBy, errorMessage string,
) error {
	tag, err := r.db.Pool.Exec(ctx, `
UPDATE query_logs
SET status = $2, final_answer = $3, blocked_by = $4, error_message = $5
WHERE id = $1`,
		entryID, string(status), finalAnswer, blockedBy, errorMessage)
	if err != nil {
		return fmt.Errorf("finalize query log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finalize query log %s: %w", entryID, domain.ErrNotFound)
	}

	return nil
}
