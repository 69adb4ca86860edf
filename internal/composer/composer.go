// Package composer turns a profile and its insights into channel-specific
// outreach messages using a text-generation backend.
package composer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kalambet/coldreach/internal/insight"
	"github.com/kalambet/coldreach/internal/profile"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultConcurrency  = 4
	defaultSimilarLimit = 3
	maxAttempts         = 2
)

// Params are the sampling parameters passed to every generation call.
type Params struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// DefaultParams returns the sampling parameters used when none are given.
func DefaultParams() Params {
	return Params{MaxTokens: 512, Temperature: 0.7, TopP: 0.9}
}

// Generator is the text-generation capability the composer depends on.
type Generator interface {
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}

// SimilarFinder supplies previously seen profiles with the same role or
// industry for prompt context.
type SimilarFinder interface {
	FindSimilar(role, industry string, limit int) ([]profile.Profile, error)
}

// Message is one generated outreach message.
type Message struct {
	Channel   profile.Channel `json:"channel"`
	Subject   string          `json:"subject,omitempty"`
	Content   string          `json:"content"`
	Tone      profile.Style   `json:"tone"`
	CTA       string          `json:"cta"`
	ReplyRate float64         `json:"estimated_reply_rate"`
}

// Request is the input for a compose call. Tone overrides the profile's
// communication style when set.
type Request struct {
	Profile  profile.Profile
	Insights insight.Insights
	Tone     *profile.Style
	Context  string
}

func (r Request) tone() profile.Style {
	if r.Tone != nil && r.Tone.Valid() {
		return *r.Tone
	}
	if r.Profile.Style.Valid() {
		return r.Profile.Style
	}
	return profile.Mixed
}

// Composer builds prompts, calls the generator and parses completions.
type Composer struct {
	gen          Generator
	params       Params
	timeout      time.Duration
	similar      SimilarFinder
	similarLimit int
	budget       int
	concurrency  int
}

// Option configures a Composer.
type Option func(*Composer)

// WithParams sets the sampling parameters.
func WithParams(p Params) Option { return func(c *Composer) { c.params = p } }

// WithTimeout bounds each generator call.
func WithTimeout(d time.Duration) Option {
	return func(c *Composer) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSimilar enables the similar-profiles prompt section.
func WithSimilar(f SimilarFinder, limit int) Option {
	return func(c *Composer) {
		c.similar = f
		if limit > 0 {
			c.similarLimit = limit
		}
	}
}

// WithConcurrency caps the number of in-flight generations in ComposeBatch.
func WithConcurrency(n int) Option {
	return func(c *Composer) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithContextBudget sets the token budget for the similar-profiles section.
func WithContextBudget(tokens int) Option {
	return func(c *Composer) {
		if tokens > 0 {
			c.budget = tokens
		}
	}
}

// New creates a Composer over gen.
func New(gen Generator, opts ...Option) *Composer {
	c := &Composer{
		gen:          gen,
		params:       DefaultParams(),
		timeout:      defaultTimeout,
		similarLimit: defaultSimilarLimit,
		budget:       defaultContextBudget,
		concurrency:  defaultConcurrency,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compose generates one message for ch. A malformed completion is retried
// once with a stricter format instruction; generator errors and deadlines
// are not retried. Every failure is a *GenerationError.
func (c *Composer) Compose(ctx context.Context, req Request, ch profile.Channel) (Message, error) {
	if !ch.Valid() {
		return Message{}, &GenerationError{Channel: ch, Err: fmt.Errorf("unsupported channel %q", ch)}
	}
	tone := req.tone()
	prompt := buildPrompt(promptInput{
		Profile:  req.Profile,
		Insights: req.Insights,
		Channel:  ch,
		Tone:     tone,
		Similar:  c.similarProfiles(req.Profile),
		Extra:    req.Context,
		Budget:   c.budget,
	})

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			prompt += strictInstruction
		}
		text, err := c.generate(ctx, prompt)
		if err != nil {
			ge := &GenerationError{Channel: ch, Attempts: attempt, Err: err}
			ge.timeout = errors.Is(err, context.DeadlineExceeded)
			return Message{}, ge
		}
		out, err := parseCompletion(text, ch)
		if err != nil {
			slog.Warn("composer: malformed completion", "channel", ch, "attempt", attempt, "error", err)
			lastErr = err
			continue
		}
		return Message{
			Channel:   ch,
			Subject:   out.Subject,
			Content:   out.Content,
			Tone:      tone,
			CTA:       out.CTA,
			ReplyRate: EstimateReplyRate(req.Profile, req.Insights, ch, tone, out.Content),
		}, nil
	}
	return Message{}, &GenerationError{Channel: ch, Attempts: maxAttempts, Err: lastErr}
}

func (c *Composer) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	text, err := c.gen.Generate(ctx, prompt, c.params)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
			return "", fmt.Errorf("%w: %v", ctx.Err(), err)
		}
		return "", err
	}
	return text, nil
}

func (c *Composer) similarProfiles(p profile.Profile) []profile.Profile {
	if c.similar == nil {
		return nil
	}
	role, industry := p.Role, p.Industry
	if !profile.Known(role) && !profile.Known(industry) {
		return nil
	}
	found, err := c.similar.FindSimilar(role, industry, c.similarLimit+1)
	if err != nil {
		slog.Warn("composer: similar profiles lookup failed", "error", err)
		return nil
	}
	out := make([]profile.Profile, 0, len(found))
	for _, s := range found {
		if s.ID == p.ID {
			continue
		}
		out = append(out, s)
		if len(out) == c.similarLimit {
			break
		}
	}
	return out
}
