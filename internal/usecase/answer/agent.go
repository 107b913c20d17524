// Package answer implements the runtime agent that produces the grounded,
// cited answer once both validator gates have passed.
package answer

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/campusgate/campusgate/internal/domain"
)

// Agent generates the final answer from the evidence bundle.
type Agent struct {
	store     ConfigStore
	completer Completer
	logger    *zap.Logger
}

// New creates a runtime answer agent.
func New(store ConfigStore, completer Completer, logger *zap.Logger) *Agent {
	return &Agent{store: store, completer: completer, logger: logger}
}

// Answer produces a cited answer grounded in the evidence bundle. The output
// is not re-validated; trust comes from the preceding gates plus the
// must-cite instruction. On success exactly one runtime log part is appended
// with the final text; a provider failure is fatal for the request.
func (a *Agent) Answer(ctx context.Context, sc *domain.Context, rec domain.PartRecorder) (string, error) {
	cfg, curated := a.resolveConfig(ctx)

	payload, err := sc.Payload()
	if err != nil {
		return "", fmt.Errorf("serialize evidence: %w: %w", err, domain.ErrAnswerGeneration)
	}

	input := fmt.Sprintf(
		"Answer the user's question using ONLY the evidence below. Cite a source URL for every factual claim using markdown links.\n%s",
		payload,
	)

	content, err := a.completer.Complete(ctx, cfg.ModelID, cfg.Instructions, input)
	if err != nil {
		return "", fmt.Errorf("runtime agent: %w: %w", err, domain.ErrAnswerGeneration)
	}

	a.logger.Info("answer generated",
		zap.String("model_id", cfg.ModelID),
		zap.Bool("used_curated_config", curated),
		zap.Int("answer_length", len(content)))

	a.recordPart(ctx, rec, cfg, curated, content)

	return content, nil
}

func (a *Agent) resolveConfig(ctx context.Context) (domain.AgentConfig, bool) {
	cfg, err := a.store.AgentConfig(ctx, domain.StageRuntime.AgentKey())
	if err != nil {
		a.logger.Warn("falling back to built-in runtime config", zap.Error(err))
		return defaultConfig, false
	}
	if cfg.ModelID == "" {
		cfg.ModelID = defaultAnswerModel
	}
	return cfg, true
}

func (a *Agent) recordPart(ctx context.Context, rec domain.PartRecorder, cfg domain.AgentConfig, curated bool, content string) {
	if rec == nil {
		return
	}

	result, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		result = nil
	}

	blocked := false
	rec.AppendPart(ctx, domain.LogPart{
		Stage:             domain.StageRuntime,
		ModelID:           cfg.ModelID,
		AgentName:         cfg.Name,
		UsedCuratedConfig: &curated,
		Blocked:           &blocked,
		Result:            result,
	})
}
