// Package configstore reads admin-curated agent configuration: per-stage
// instructions and models, operator-facing messages, and example queries
// used to steer the validators.
package configstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campusgate/campusgate/internal/db/postgres"
	"github.com/campusgate/campusgate/internal/domain"
)

// Repo implements curated-configuration lookups over Postgres.
type Repo struct {
	db *postgres.DB
}

// New creates a configuration store repository.
func New(db *postgres.DB) *Repo {
	return &Repo{db: db}
}

// AgentConfig loads the agent row and its ordered instructions for key.
// Returns domain.ErrNotFound when no agent with that key exists.
func (r *Repo) AgentConfig(ctx context.Context, key string) (domain.AgentConfig, error) {
	var cfg domain.AgentConfig

	err := r.db.Pool.QueryRow(ctx, `
SELECT key, name, model_id, description
FROM llm_agents
WHERE key = $1`, key).Scan(&cfg.Key, &cfg.Name, &cfg.ModelID, &cfg.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AgentConfig{}, fmt.Errorf("agent %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return domain.AgentConfig{}, fmt.Errorf("select agent %q: %w", key, err)
	}

	rows, err := r.db.Pool.Query(ctx, `
SELECT text
FROM agent_instructions
WHERE agent_key = $1
ORDER BY position`, key)
	if err != nil {
		return domain.AgentConfig{}, fmt.Errorf("select instructions %q: %w", key, err)
	}
	defer rows.Close()

	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return domain.AgentConfig{}, fmt.Errorf("scan instruction: %w", err)
		}
		cfg.Instructions = append(cfg.Instructions, text)
	}
	if err := rows.Err(); err != nil {
		return domain.AgentConfig{}, fmt.Errorf("iterate instructions: %w", err)
	}

	return cfg, nil
}

// Message returns the operator-curated message for key.
// Returns domain.ErrNotFound when the key is absent.
func (r *Repo) Message(ctx context.Context, key string) (string, error) {
	var text string
	err := r.db.Pool.QueryRow(ctx, `
SELECT text
FROM app_messages
WHERE key = $1`, key).Scan(&text)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("message %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("select message %q: %w", key, err)
	}
	return text, nil
}

// Examples returns curated example queries of the given kind
// (domain.ExampleWhitelist or domain.ExampleBlacklist). An empty result
// is not an error.
func (r *Repo) Examples(ctx context.Context, kind string) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT text
FROM query_examples
WHERE kind = $1`, kind)
	if err != nil {
		return nil, fmt.Errorf("select examples %q: %w", kind, err)
	}
	defer rows.Close()

	var examples []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan example: %w", err)
		}
		examples = append(examples, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate examples: %w", err)
	}

	return examples, nil
}
