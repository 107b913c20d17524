package postgres

import (
	"context"
	"fmt"
)

// schema creates the curated-configuration and query-log tables. Idempotent;
// production deployments run proper migrations, this covers dev and test
// environments where the database starts empty.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS llm_agents (
		key         TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		model_id    TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS agent_instructions (
		agent_key TEXT NOT NULL REFERENCES llm_agents(key) ON DELETE CASCADE,
		position  INT  NOT NULL,
		text      TEXT NOT NULL,
		PRIMARY KEY (agent_key, position)
	)`,
	`CREATE TABLE IF NOT EXISTS app_messages (
		key  TEXT PRIMARY KEY,
		text TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS query_examples (
		id   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		kind TEXT NOT NULL CHECK (kind IN ('whitelist', 'blacklist')),
		text TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS query_logs (
		id            UUID PRIMARY KEY,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		user_message  TEXT NOT NULL,
		final_answer  TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL CHECK (status IN ('pending', 'answered', 'blocked', 'error')),
		blocked_by    TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS query_log_parts (
		id              UUID PRIMARY KEY,
		entry_id        UUID NOT NULL REFERENCES query_logs(id) ON DELETE CASCADE,
		stage           TEXT NOT NULL,
		model_id        TEXT NOT NULL DEFAULT '',
		agent_name      TEXT NOT NULL DEFAULT '',
		using_db_config BOOLEAN,
		blocked         BOOLEAN,
		result_json     JSONB,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_query_log_parts_entry ON query_log_parts(entry_id)`,
	`CREATE INDEX IF NOT EXISTS idx_query_logs_created ON query_logs(created_at)`,
}

// InitSchema applies the schema statements in order.
func (d *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
