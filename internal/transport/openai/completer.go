package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/campusgate/campusgate/internal/domain"
	"github.com/campusgate/campusgate/internal/metrics"
)

// decisionSchema is the structured-output contract enforced on every
// validator call. Strict mode rejects any response that deviates from it.
var decisionSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"allowed":   {"type": "boolean"},
		"reasoning": {"type": "string"}
	},
	"required": ["allowed", "reasoning"],
	"additionalProperties": false
}`)

// Completer is an LLM completion provider using the OpenAI-compatible API.
type Completer struct {
	client *openai.Client
	logger *zap.Logger
}

// CompleterConfig holds the completion provider settings.
type CompleterConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion provider.
func NewCompleter(cfg *CompleterConfig) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Completer{
		client: openai.NewClientWithConfig(clientCfg),
		logger: cfg.Logger,
	}
}

// Decide requests a structured verdict. The response format pins the model to
// the two-field verdict schema; anything that fails to decode is reported as
// an unparsable verdict rather than silently defaulted.
func (c *Completer) Decide(
	ctx context.Context, modelID string, instructions []string, input string,
) (domain.Decision, error) {
	req := openai.ChatCompletionRequest{
		Model: modelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: joinInstructions(instructions)},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "verdict",
				Schema: decisionSchema,
				Strict: true,
			},
		},
	}

	content, err := c.complete(ctx, modelID, req)
	if err != nil {
		return domain.Decision{}, err
	}

	var decision domain.Decision
	if err := json.Unmarshal([]byte(content), &decision); err != nil {
		return domain.Decision{}, fmt.Errorf("decode verdict %q: %w", content, domain.ErrUnparsableVerdict)
	}

	return decision, nil
}

// Complete returns the free-form answer text.
func (c *Completer) Complete(
	ctx context.Context, modelID string, instructions []string, input string,
) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: modelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: joinInstructions(instructions)},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	}

	return c.complete(ctx, modelID, req)
}

func (c *Completer) complete(
	ctx context.Context, modelID string, req openai.ChatCompletionRequest,
) (string, error) {
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues("openai", modelID, "error").Inc()
		return "", parseAPIError("completion", err, domain.ErrCompletionProviderError)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.CompletionRequestsTotal.WithLabelValues("openai", modelID, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrCompletionProviderError)
	}

	metrics.CompletionRequestsTotal.WithLabelValues("openai", modelID, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues("openai", modelID).Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}

func joinInstructions(instructions []string) string {
	return strings.Join(instructions, "\n\n")
}
