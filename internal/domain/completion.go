package domain

import "context"

// Decision is the structured two-field result every validator model call
// must produce.
type Decision struct {
	Allowed   bool   `json:"allowed"`
	Reasoning string `json:"reasoning"`
}

// Completer is an LLM completion provider. Decide enforces the structured
// verdict schema; Complete returns free-form text for the runtime agent.
// Both return an error wrapping ErrCompletionProviderError or
// ErrUnparsableVerdict on failure — callers treat that as fatal.
type Completer interface {
	Decide(ctx context.Context, modelID string, instructions []string, input string) (Decision, error)
	Complete(ctx context.Context, modelID string, instructions []string, input string) (string, error)
}
