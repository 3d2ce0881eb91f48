// Package reasoning wraps the Gemini API for structured decision making.
// Every decision path has a deterministic fallback, so a missing API key or a
// flaky upstream never takes an endpoint down.
package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/wasteless-ai/backend-go/internal/config"
	"github.com/wasteless-ai/backend-go/internal/domain"
)

const defaultModel = "gemini-2.5-flash"

// Engine generates text and structured JSON from prompts. Satisfied by
// *GeminiEngine; tests swap in stubs.
type Engine interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string, out any) error
}

// GeminiEngine is the production Engine backed by a Gemini generative model.
type GeminiEngine struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiEngine connects to Gemini. Returns ErrExternalService when no API
// key is configured; callers treat that as "reasoning disabled" and rely on
// fallbacks.
func NewGeminiEngine(ctx context.Context, cfg config.GeminiConfig) (*GeminiEngine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key not configured: %w", domain.ErrExternalService)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GeminiEngine{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

func (e *GeminiEngine) Close() error {
	return e.client.Close()
}

func (e *GeminiEngine) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	model := e.client.GenerativeModel(e.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", domain.ErrExternalService)
	}

	text := collectText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned no text: %w", domain.ErrExternalService)
	}

	return text, nil
}

// GenerateJSON asks for a JSON response and decodes it into out. The raw text
// is scanned for the outermost object so markdown fences around the payload do
// not break decoding.
func (e *GeminiEngine) GenerateJSON(ctx context.Context, prompt string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	model := e.client.GenerativeModel(e.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fmt.Errorf("gemini generate failed: %w", domain.ErrExternalService)
	}

	raw := extractJSON(collectText(resp))
	if raw == "" {
		return fmt.Errorf("gemini returned no json: %w", domain.ErrExternalService)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("malformed gemini json: %w", domain.ErrExternalService)
	}

	return nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(sb.String())
}

// extractJSON returns the outermost {...} span of raw, or "" if none exists.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}
