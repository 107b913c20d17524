// Package gemini provides a Gemini-backed completion provider. It mirrors
// the OpenAI transport's contract so the two are interchangeable behind
// the provider driver switch.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/campusgate/campusgate/internal/domain"
	"github.com/campusgate/campusgate/internal/metrics"
)

// decisionSchema pins verdict calls to the two-field structured shape.
var decisionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"allowed":   {Type: genai.TypeBoolean},
		"reasoning": {Type: genai.TypeString},
	},
	Required: []string{"allowed", "reasoning"},
}

// Completer is an LLM completion provider backed by the Gemini API.
type Completer struct {
	client *genai.Client
	logger *zap.Logger
}

// Config holds the Gemini provider settings.
type Config struct {
	APIKey string
	Logger *zap.Logger
}

// NewCompleter creates a Gemini completion provider.
func NewCompleter(ctx context.Context, cfg *Config) (*Completer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Completer{client: client, logger: cfg.Logger}, nil
}

// Close releases the underlying API client.
func (c *Completer) Close() error {
	return c.client.Close()
}

// Decide requests a structured verdict. The response schema forces JSON output;
// anything that still fails to decode is reported as an unparsable verdict.
func (c *Completer) Decide(
	ctx context.Context, modelID string, instructions []string, input string,
) (domain.Decision, error) {
	model := c.model(modelID, instructions)
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.GenerationConfig.ResponseSchema = decisionSchema

	content, err := c.generate(ctx, modelID, model, input)
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
	return c.generate(ctx, modelID, c.model(modelID, instructions), input)
}

func (c *Completer) model(modelID string, instructions []string) *genai.GenerativeModel {
	model := c.client.GenerativeModel(modelID)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(strings.Join(instructions, "\n\n"))},
	}
	return model
}

func (c *Completer) generate(
	ctx context.Context, modelID string, model *genai.GenerativeModel, input string,
) (string, error) {
	start := time.Now()

	resp, err := model.GenerateContent(ctx, genai.Text(input))

	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues("gemini", modelID, "error").Inc()
		return "", fmt.Errorf("gemini request failed: %v: %w", err, domain.ErrCompletionProviderError)
	}

	text := extractText(resp)
	if text == "" {
		metrics.CompletionRequestsTotal.WithLabelValues("gemini", modelID, "error").Inc()
		return "", fmt.Errorf("empty gemini response: %w", domain.ErrCompletionProviderError)
	}

	metrics.CompletionRequestsTotal.WithLabelValues("gemini", modelID, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues("gemini", modelID).Observe(duration.Seconds())

	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
