package answer

import (
	"context"

	"github.com/campusgate/campusgate/internal/domain"
)

// ConfigStore reads curated agent configuration.
type ConfigStore interface {
	AgentConfig(ctx context.Context, key string) (domain.AgentConfig, error)
}

// Completer is the LLM provider producing the free-form answer.
type Completer interface {
	Complete(ctx context.Context, modelID string, instructions []string, input string) (string, error)
}
