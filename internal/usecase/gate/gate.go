// Package gate implements the LLM-backed validators that decide whether a
// query may proceed to the runtime agent.
package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/campusgate/campusgate/internal/domain"
	"github.com/campusgate/campusgate/internal/metrics"
)

const missingReasoning = "no reasoning provided by the model"

// Gate is one validator stage. Two instances run per request: the primary
// relevance gate and the narrower blacklist gate.
type Gate struct {
	stage       domain.Stage
	exampleKind string
	store       ConfigStore
	completer   Completer
	logger      *zap.Logger
}

// NewPrimary creates the primary relevance gate. It is augmented with
// admin-curated whitelist examples.
func NewPrimary(store ConfigStore, completer Completer, logger *zap.Logger) *Gate {
	return &Gate{
		stage:       domain.StagePrimary,
		exampleKind: domain.ExampleWhitelist,
		store:       store,
		completer:   completer,
		logger:      logger,
	}
}

// NewBlacklist creates the blacklist gate. It is augmented with
// admin-curated blacklist examples.
func NewBlacklist(store ConfigStore, completer Completer, logger *zap.Logger) *Gate {
	return &Gate{
		stage:       domain.StageBlacklist,
		exampleKind: domain.ExampleBlacklist,
		store:       store,
		completer:   completer,
		logger:      logger,
	}
}

// Stage returns the gate's stage identity.
func (g *Gate) Stage() domain.Stage {
	return g.stage
}

// Evaluate runs the gate over the evidence bundle. Configuration-store and
// example-fetch failures degrade to built-in defaults; a model failure or
// unparsable verdict is fatal for the request. Exactly one log part is
// appended per invocation, including the failure path.
func (g *Gate) Evaluate(ctx context.Context, sc *domain.Context, rec domain.PartRecorder) (domain.Verdict, error) {
	cfg, curated := g.resolveConfig(ctx)
	instructions := g.appendExamples(ctx, cfg.Instructions)

	payload, err := sc.Payload()
	if err != nil {
		g.recordError(ctx, rec, cfg, curated, err)
		return domain.Verdict{}, fmt.Errorf("serialize evidence: %w: %w", err, domain.ErrGateDecision)
	}

	input := fmt.Sprintf(
		"Decide whether the following query is allowed. The JSON document contains the query and the evidence retrieved for it:\n%s",
		payload,
	)

	decision, err := g.completer.Decide(ctx, cfg.ModelID, instructions, input)
	if err != nil {
		g.recordError(ctx, rec, cfg, curated, err)
		return domain.Verdict{}, fmt.Errorf("%s gate: %w: %w", g.stage, err, domain.ErrGateDecision)
	}

	reasoning := strings.TrimSpace(decision.Reasoning)
	if reasoning == "" {
		reasoning = missingReasoning
	}

	verdict := domain.Verdict{
		Allowed:           decision.Allowed,
		Reasoning:         reasoning,
		Stage:             g.stage,
		ModelID:           cfg.ModelID,
		AgentName:         cfg.Name,
		UsedCuratedConfig: curated,
	}

	metrics.GateDecisionsTotal.WithLabelValues(string(g.stage), decisionLabel(verdict.Allowed)).Inc()
	g.logger.Info("gate decision",
		zap.String("stage", string(g.stage)),
		zap.Bool("allowed", verdict.Allowed),
		zap.Bool("used_curated_config", curated))

	g.recordVerdict(ctx, rec, verdict, sc)

	return verdict, nil
}

// resolveConfig loads the stage's curated configuration, falling back to the
// built-in defaults when the store has no entry or is unreachable. The
// second return value reports whether curated configuration was used.
func (g *Gate) resolveConfig(ctx context.Context) (domain.AgentConfig, bool) {
	cfg, err := g.store.AgentConfig(ctx, g.stage.AgentKey())
	if err != nil {
		g.logger.Warn("falling back to built-in gate config",
			zap.String("stage", string(g.stage)),
			zap.Error(err))
		return defaultConfigForStage(g.stage), false
	}
	if cfg.ModelID == "" {
		cfg.ModelID = defaultGateModel
	}
	return cfg, true
}

// appendExamples augments the instruction set with admin-curated exemplars.
// Fetch failures degrade to no examples.
func (g *Gate) appendExamples(ctx context.Context, instructions []string) []string {
	examples, err := g.store.Examples(ctx, g.exampleKind)
	if err != nil {
		g.logger.Warn("curated examples unavailable",
			zap.String("kind", g.exampleKind),
			zap.Error(err))
		return instructions
	}
	if len(examples) == 0 {
		return instructions
	}

	var b strings.Builder
	if g.exampleKind == domain.ExampleWhitelist {
		b.WriteString("The following example queries are explicitly approved by administrators and must always be treated as legitimate:\n")
	} else {
		b.WriteString("The following example queries are explicitly denylisted by administrators and must always be blocked:\n")
	}
	for _, ex := range examples {
		b.WriteString("- ")
		b.WriteString(ex)
		b.WriteString("\n")
	}

	out := make([]string, 0, len(instructions)+1)
	out = append(out, instructions...)
	out = append(out, strings.TrimRight(b.String(), "\n"))
	return out
}

func (g *Gate) recordVerdict(ctx context.Context, rec domain.PartRecorder, verdict domain.Verdict, sc *domain.Context) {
	if rec == nil {
		return
	}

	result, err := json.Marshal(struct {
		domain.Verdict
		UserQuery   string   `json:"user_query"`
		BuildErrors []string `json:"build_errors,omitempty"`
	}{verdict, sc.UserQuery, sc.BuildErrors()})
	if err != nil {
		result = nil
	}

	blocked := !verdict.Allowed
	rec.AppendPart(ctx, domain.LogPart{
		Stage:             g.stage,
		ModelID:           verdict.ModelID,
		AgentName:         verdict.AgentName,
		UsedCuratedConfig: &verdict.UsedCuratedConfig,
		Blocked:           &blocked,
		Result:            result,
	})
}

func (g *Gate) recordError(ctx context.Context, rec domain.PartRecorder, cfg domain.AgentConfig, curated bool, evalErr error) {
	if rec == nil {
		return
	}

	result, _ := json.Marshal(map[string]string{"error": evalErr.Error()})
	rec.AppendPart(ctx, domain.LogPart{
		Stage:             g.stage,
		ModelID:           cfg.ModelID,
		AgentName:         cfg.Name,
		UsedCuratedConfig: &curated,
		Result:            result,
	})
}

func decisionLabel(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "blocked"
}
