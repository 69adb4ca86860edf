package engine

import (
	"context"

	"github.com/kalambet/coldreach/internal/composer"
)

// Engine abstracts a text-generation backend (local Ollama, Gemini, or
// OpenRouter). The composer depends only on the Generate method.
type Engine interface {
	composer.Generator

	// Name returns the backend name as used in configuration.
	Name() string

	// Model returns the model the engine generates with.
	Model() string

	// IsRunning reports whether the backend is reachable.
	IsRunning(ctx context.Context) bool
}

// ModelManager is implemented by engines that host models locally and can
// download missing ones.
type ModelManager interface {
	HasModel(ctx context.Context, name string) bool
	PullModel(ctx context.Context, name string, onProgress func(PullProgress)) error
}

// PullProgress reports download progress for a model pull.
type PullProgress struct {
	Status    string `json:"status"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
}

// Unwrap returns the innermost engine behind any decorators.
func Unwrap(e Engine) Engine {
	for {
		w, ok := e.(interface{ Unwrap() Engine })
		if !ok {
			return e
		}
		e = w.Unwrap()
	}
}
