package engine

import (
	"context"

	"github.com/kalambet/coldreach/internal/composer"
	"github.com/kalambet/coldreach/internal/config"
	"github.com/kalambet/coldreach/internal/ollama"
)

// OllamaEngine adapts the internal/ollama.Client to the Engine interface.
type OllamaEngine struct {
	client *ollama.Client
	model  string
}

// NewOllamaEngine creates an OllamaEngine backed by an Ollama server at baseURL.
func NewOllamaEngine(baseURL, model string) *OllamaEngine {
	return &OllamaEngine{client: ollama.New(baseURL), model: model}
}

func (e *OllamaEngine) Name() string  { return config.BackendOllama }
func (e *OllamaEngine) Model() string { return e.model }

func (e *OllamaEngine) Generate(ctx context.Context, prompt string, p composer.Params) (string, error) {
	return e.client.Generate(ctx, e.model, prompt, ollama.Options{
		NumPredict:  p.MaxTokens,
		Temperature: p.Temperature,
		TopP:        p.TopP,
	})
}

// Embed returns the embedding vector for text using the given model.
func (e *OllamaEngine) Embed(ctx context.Context, model, text string) ([]float32, error) {
	return e.client.Embed(ctx, model, text)
}

func (e *OllamaEngine) IsRunning(ctx context.Context) bool {
	return e.client.IsRunning(ctx)
}

func (e *OllamaEngine) HasModel(ctx context.Context, name string) bool {
	return e.client.HasModel(ctx, name)
}

func (e *OllamaEngine) PullModel(ctx context.Context, name string, onProgress func(PullProgress)) error {
	var cb func(ollama.PullProgress)
	if onProgress != nil {
		cb = func(p ollama.PullProgress) {
			onProgress(PullProgress{
				Status:    p.Status,
				Total:     p.Total,
				Completed: p.Completed,
			})
		}
	}
	return e.client.PullModel(ctx, name, cb)
}
