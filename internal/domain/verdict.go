package domain

// Stage names one step of the guarded pipeline. Stages key both agent
// configuration lookups and query-log parts.
type Stage string

const (
	StagePrimary   Stage = "primary"
	StageBlacklist Stage = "blacklist"
	StageRuntime   Stage = "runtime"
)

// AgentKey returns the configuration-store key for the stage.
func (s Stage) AgentKey() string {
	switch s {
	case StagePrimary:
		return "validation_primary"
	case StageBlacklist:
		return "validation_blacklist"
	case StageRuntime:
		return "runtime_rag"
	}
	return string(s)
}

// Verdict is the outcome of one validator gate invocation.
type Verdict struct {
	Allowed           bool   `json:"is_allowed"`
	Reasoning         string `json:"reasoning"`
	Stage             Stage  `json:"stage"`
	ModelID           string `json:"model_id"`
	AgentName         string `json:"agent_name"`
	UsedCuratedConfig bool   `json:"used_curated_config"`
}
