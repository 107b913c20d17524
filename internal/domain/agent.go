package domain

// AgentConfig is the curated configuration for a single logical agent
// (validators and the runtime answerer). Loaded from the configuration
// store, with built-in per-stage fallbacks when the store has no entry.
type AgentConfig struct {
	Key          string
	Name         string
	ModelID      string
	Description  string
	Instructions []string
}

// Example kinds for admin-curated query examples.
const (
	ExampleWhitelist = "whitelist"
	ExampleBlacklist = "blacklist"
)

// RejectionMessageKey is the message-store key for the standard rejection
// text. StandardRejectionMessage is the built-in fallback used when the
// store has no entry or is unreachable.
const (
	RejectionMessageKey = "standard_rejection"

	StandardRejectionMessage = "This question falls outside of my knowledge of Colby College information. " +
		"Please re-ask your question within a Colby context."
)
