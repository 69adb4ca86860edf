package engine

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/kalambet/coldreach/internal/composer"
	"github.com/kalambet/coldreach/internal/config"
)

// geminiModels is the subset of *genai.Models the engine calls.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	Get(ctx context.Context, model string, cfg *genai.GetModelConfig) (*genai.Model, error)
}

// GeminiEngine generates text with Google's Gemini API.
type GeminiEngine struct {
	models geminiModels
	model  string
}

// NewGeminiEngine creates a Gemini client for apiKey.
func NewGeminiEngine(ctx context.Context, apiKey, model string) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiEngine{models: client.Models, model: model}, nil
}

func (e *GeminiEngine) Name() string  { return config.BackendGemini }
func (e *GeminiEngine) Model() string { return e.model }

func (e *GeminiEngine) Generate(ctx context.Context, prompt string, p composer.Params) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(p.Temperature)),
		MaxOutputTokens: int32(p.MaxTokens),
	}
	if p.TopP > 0 {
		cfg.TopP = genai.Ptr(float32(p.TopP))
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := e.models.GenerateContent(ctx, e.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	return text, nil
}

func (e *GeminiEngine) IsRunning(ctx context.Context) bool {
	_, err := e.models.Get(ctx, e.model, nil)
	return err == nil
}
