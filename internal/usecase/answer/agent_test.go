package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/campusgate/campusgate/internal/domain"
)

type mockStore struct {
	agentConfigFn func(ctx context.Context, key string) (domain.AgentConfig, error)
}

func (m *mockStore) AgentConfig(ctx context.Context, key string) (domain.AgentConfig, error) {
	if m.agentConfigFn != nil {
		return m.agentConfigFn(ctx, key)
	}
	return domain.AgentConfig{}, domain.ErrNotFound
}

type mockCompleter struct {
	completeFn func(ctx context.Context, modelID string, instructions []string, input string) (string, error)
}

func (m *mockCompleter) Complete(
	ctx context.Context, modelID string, instructions []string, input string,
) (string, error) {
	if m.completeFn != nil {
		return m.completeFn(ctx, modelID, instructions, input)
	}
	return "answer", nil
}

type mockRecorder struct {
	parts []domain.LogPart
}

func (m *mockRecorder) AppendPart(_ context.Context, part domain.LogPart) {
	m.parts = append(m.parts, part)
}

func testContext() *domain.Context {
	return &domain.Context{
		UserQuery: "What are the financial aid deadlines?",
		Keyword: domain.KeywordSection{
			Keywords: []string{"financial", "aid", "deadlines"},
			Results: []domain.Hit{{
				ID:    "doc-1",
				Title: "Financial Aid Deadlines 2025",
				URL:   "https://www.colby.edu/financial-aid/deadlines",
			}},
			NumResults: 1,
		},
		Vector: domain.VectorSection{Results: []domain.Hit{}},
	}
}

func TestAgent_Answer(t *testing.T) {
	store := &mockStore{
		agentConfigFn: func(_ context.Context, key string) (domain.AgentConfig, error) {
			if key != "runtime_rag" {
				t.Errorf("agent key = %q", key)
			}
			return domain.AgentConfig{
				Key:          key,
				Name:         "Curated Assistant",
				ModelID:      "gpt-4.1",
				Instructions: []string{"answer from evidence"},
			}, nil
		},
	}
	completer := &mockCompleter{
		completeFn: func(_ context.Context, modelID string, _ []string, input string) (string, error) {
			if modelID != "gpt-4.1" {
				t.Errorf("modelID = %q", modelID)
			}
			if !strings.Contains(input, "Financial Aid Deadlines 2025") {
				t.Error("input must embed the evidence payload")
			}
			return "See [deadlines](https://www.colby.edu/financial-aid/deadlines).", nil
		},
	}

	a := New(store, completer, zap.NewNop())
	rec := &mockRecorder{}

	got, err := a.Answer(context.Background(), testContext(), rec)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !strings.Contains(got, "](https://www.colby.edu/financial-aid/deadlines)") {
		t.Errorf("answer missing markdown citation: %q", got)
	}

	if len(rec.parts) != 1 {
		t.Fatalf("expected 1 runtime log part, got %d", len(rec.parts))
	}
	part := rec.parts[0]
	if part.Stage != domain.StageRuntime {
		t.Errorf("part stage = %q", part.Stage)
	}
	if part.Blocked == nil || *part.Blocked {
		t.Error("runtime part must record blocked=false")
	}
	if !strings.Contains(string(part.Result), "deadlines") {
		t.Errorf("part result missing content: %s", part.Result)
	}
}

func TestAgent_FallbackConfig(t *testing.T) {
	a := New(&mockStore{}, &mockCompleter{}, zap.NewNop())
	rec := &mockRecorder{}

	if _, err := a.Answer(context.Background(), testContext(), rec); err != nil {
		t.Fatalf("Answer must succeed on built-in defaults: %v", err)
	}
	if rec.parts[0].UsedCuratedConfig == nil || *rec.parts[0].UsedCuratedConfig {
		t.Error("part must record using_db_config=false on fallback")
	}
}

func TestAgent_ProviderFailureIsFatal(t *testing.T) {
	completer := &mockCompleter{
		completeFn: func(_ context.Context, _ string, _ []string, _ string) (string, error) {
			return "", errors.New("model timeout")
		},
	}

	a := New(&mockStore{}, completer, zap.NewNop())
	rec := &mockRecorder{}

	_, err := a.Answer(context.Background(), testContext(), rec)
	if !errors.Is(err, domain.ErrAnswerGeneration) {
		t.Fatalf("expected ErrAnswerGeneration, got %v", err)
	}
	if len(rec.parts) != 0 {
		t.Errorf("no runtime part on failure, got %d", len(rec.parts))
	}
}
