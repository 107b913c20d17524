package gate

import (
	"context"

	"github.com/campusgate/campusgate/internal/domain"
)

// ConfigStore reads curated agent configuration and example queries.
type ConfigStore interface {
	AgentConfig(ctx context.Context, key string) (domain.AgentConfig, error)
	Examples(ctx context.Context, kind string) ([]string, error)
}

// Completer is the LLM provider producing the structured verdict.
type Completer interface {
	Decide(ctx context.Context, modelID string, instructions []string, input string) (domain.Decision, error)
}
