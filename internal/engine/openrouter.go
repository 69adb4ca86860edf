package engine

import (
	"context"

	"github.com/kalambet/coldreach/internal/composer"
	"github.com/kalambet/coldreach/internal/config"
	"github.com/kalambet/coldreach/internal/proxy"
)

// OpenRouterEngine generates text through the OpenRouter completions API.
type OpenRouterEngine struct {
	client *proxy.Client
	model  string
}

// NewOpenRouterEngine wraps an existing OpenRouter client.
func NewOpenRouterEngine(client *proxy.Client, model string) *OpenRouterEngine {
	return &OpenRouterEngine{client: client, model: model}
}

func (e *OpenRouterEngine) Name() string  { return config.BackendOpenRouter }
func (e *OpenRouterEngine) Model() string { return e.model }

func (e *OpenRouterEngine) Generate(ctx context.Context, prompt string, p composer.Params) (string, error) {
	return e.client.Complete(ctx, proxy.CompletionRequest{
		Model:       e.model,
		Messages:    []proxy.Message{{Role: "user", Content: prompt}},
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		TopP:        p.TopP,
	})
}

func (e *OpenRouterEngine) IsRunning(ctx context.Context) bool {
	_, err := e.client.ListModels(ctx)
	return err == nil
}
