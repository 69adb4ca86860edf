package engine

import (
	"context"
	"fmt"

	"github.com/kalambet/coldreach/internal/config"
	"github.com/kalambet/coldreach/internal/proxy"
)

// Select builds the engine named by cfg.Generation.Backend, rate limited
// when generation.rate_limit is set.
func Select(ctx context.Context, cfg config.Config) (Engine, error) {
	var (
		e   Engine
		err error
	)
	switch cfg.Generation.Backend {
	case config.BackendOllama, "":
		e = NewOllamaEngine(cfg.Ollama.BaseURL, cfg.Ollama.Model)
	case config.BackendGemini:
		e, err = NewGeminiEngine(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	case config.BackendOpenRouter:
		if cfg.OpenRouter.APIKey == "" {
			return nil, fmt.Errorf("openrouter API key is required")
		}
		e = NewOpenRouterEngine(proxy.NewClient(cfg.OpenRouter.APIKey), cfg.OpenRouter.Model)
	default:
		return nil, fmt.Errorf("unknown generation backend %q", cfg.Generation.Backend)
	}
	if err != nil {
		return nil, err
	}
	return RateLimited(e, cfg.Generation.RateLimit, cfg.Generation.Concurrency), nil
}
