package engine

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/kalambet/coldreach/internal/composer"
)

type rateLimited struct {
	Engine
	limiter *rate.Limiter
}

// RateLimited caps e at rps generation calls per second. A non-positive rps
// returns e unchanged.
func RateLimited(e Engine, rps float64, burst int) Engine {
	if rps <= 0 {
		return e
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimited{Engine: e, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *rateLimited) Generate(ctx context.Context, prompt string, p composer.Params) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		// Wait fails early, with its own error, when the next token lies
		// past the deadline.
		if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
			return "", fmt.Errorf("waiting for rate limiter: %w: %v", context.DeadlineExceeded, err)
		}
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return r.Engine.Generate(ctx, prompt, p)
}

func (r *rateLimited) Unwrap() Engine { return r.Engine }
