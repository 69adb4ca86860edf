package retrieval

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const embedConcurrency = 4

// TextEmbedder is the backend capability used to embed text.
type TextEmbedder interface {
	Embed(ctx context.Context, model, text string) ([]float32, error)
}

// Embedder binds a TextEmbedder to one embedding model.
type Embedder struct {
	backend TextEmbedder
	model   string
}

// NewEmbedder creates an Embedder using backend and the given model name.
func NewEmbedder(backend TextEmbedder, model string) *Embedder {
	return &Embedder{backend: backend, model: model}
}

// Model returns the embedding model name.
func (e *Embedder) Model() string { return e.model }

// Embed returns the embedding vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.backend.Embed(ctx, e.model, text)
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("embedding text: empty vector")
	}
	return vec, nil
}

// EmbedBatch embeds texts concurrently, preserving order. The first error
// cancels the rest. Empty input returns nil.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	results := make([][]float32, len(texts))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for i, text := range texts {
		g.Go(func() error {
			vec, err := e.Embed(gCtx, text)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			results[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
