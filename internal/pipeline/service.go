// Package pipeline wires profile resolution, insight extraction, message
// composition and persistence into the operations exposed over HTTP, MCP
// and the CLI.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/coldreach/internal/composer"
	"github.com/kalambet/coldreach/internal/insight"
	"github.com/kalambet/coldreach/internal/profile"
	"github.com/kalambet/coldreach/internal/retrieval"
	"github.com/kalambet/coldreach/internal/storage"
	"github.com/kalambet/coldreach/internal/worker"
)

// ErrInvalidInput marks requests rejected before any work is done.
var ErrInvalidInput = errors.New("invalid input")

const defaultChannelCount = 2

// Resolver turns an identifier into a Profile.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (profile.Profile, error)
}

// Store is the persistence the service needs.
type Store interface {
	SaveProfile(p profile.Profile) (string, error)
	GetProfile(id string) (profile.Profile, error)
	SearchProfiles(q string, limit int) ([]profile.Profile, error)
	FindSimilar(role, industry string, limit int) ([]profile.Profile, error)
	ProfilesByIndustry(industry string, limit int) ([]profile.Profile, error)
	SaveMessages(profileID string, msgs []storage.Message) error
	ListMessages(profileID string, limit int) ([]storage.Message, error)
	ExportProfiles(w io.Writer) (int, error)
	Stats() (storage.Stats, error)
	JobCounts() (map[string]int, error)
	EnqueueJob(job storage.Job) (string, error)
}

// Deps are the collaborators of a Service. Retriever may be nil.
type Deps struct {
	Normalizer *profile.Normalizer
	Resolver   Resolver
	Extractor  *insight.Extractor
	Composer   *composer.Composer
	Store      Store
	Retriever  *retrieval.Retriever
}

// Service implements the outreach operations.
type Service struct {
	normalizer *profile.Normalizer
	resolver   Resolver
	extractor  *insight.Extractor
	composer   *composer.Composer
	store      Store
	retriever  *retrieval.Retriever
	now        func() time.Time
}

// New creates a Service.
func New(d Deps) *Service {
	if d.Normalizer == nil {
		d.Normalizer = profile.DefaultNormalizer()
	}
	if d.Resolver == nil {
		d.Resolver = profile.NewResolver(d.Normalizer, nil, 0)
	}
	if d.Extractor == nil {
		d.Extractor = insight.Default()
	}
	return &Service{
		normalizer: d.Normalizer,
		resolver:   d.Resolver,
		extractor:  d.Extractor,
		composer:   d.Composer,
		store:      d.Store,
		retriever:  d.Retriever,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Analysis is a profile with the insights derived from it.
type Analysis struct {
	Profile  profile.Profile  `json:"profile"`
	Insights insight.Insights `json:"insights"`
}

// Analyze resolves identifier, extracts insights and stores the profile.
// Store failures are logged and do not fail the call.
func (s *Service) Analyze(ctx context.Context, identifier string) (Analysis, error) {
	p, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return Analysis{}, err
	}
	return s.analyzed(p), nil
}

// AnalyzeFields is Analyze for fields extracted elsewhere, such as a PDF.
func (s *Service) AnalyzeFields(f profile.Fields) (Analysis, error) {
	p, err := profile.FromFields("", f)
	if err != nil {
		return Analysis{}, err
	}
	return s.analyzed(p), nil
}

func (s *Service) analyzed(p profile.Profile) Analysis {
	a := Analysis{Profile: p, Insights: s.extractor.Extract(p)}
	s.persistProfile(p)
	return a
}

// Request asks for outreach messages. An empty Channels list means the
// profile's top two preferred channels. Tone overrides the profile's style.
type Request struct {
	Identifier string
	Channels   []profile.Channel
	Tone       *profile.Style
	Context    string
}

// GeneratedMessage is a composed message with its persistence identity.
type GeneratedMessage struct {
	ID        string `json:"id"`
	ProfileID string `json:"profile_id"`
	composer.Message
	CreatedAt time.Time `json:"created_at"`
}

// Outcome is the result of Generate. Messages keep the requested channel
// order; Failures lists the channels that could not be composed.
type Outcome struct {
	Profile  profile.Profile    `json:"profile"`
	Insights insight.Insights   `json:"insights"`
	Messages []GeneratedMessage `json:"messages"`
	Failures []composer.Failure `json:"failures,omitempty"`
}

// Generate resolves the profile and composes one message per channel.
// Partial failure is reported in Outcome.Failures; when every channel
// fails the error matches composer.ErrGeneration and the Outcome still
// carries the failures.
func (s *Service) Generate(ctx context.Context, req Request) (Outcome, error) {
	if s.composer == nil {
		return Outcome{}, fmt.Errorf("%w: no generation backend configured", composer.ErrGeneration)
	}
	for _, ch := range req.Channels {
		if !ch.Valid() {
			return Outcome{}, fmt.Errorf("%w: unsupported channel %q", ErrInvalidInput, ch)
		}
	}
	if req.Tone != nil && !req.Tone.Valid() {
		return Outcome{}, fmt.Errorf("%w: unsupported tone %q", ErrInvalidInput, *req.Tone)
	}

	p, err := s.resolver.Resolve(ctx, req.Identifier)
	if err != nil {
		return Outcome{}, err
	}
	in := s.extractor.Extract(p)
	s.persistProfile(p)

	channels := req.Channels
	if len(channels) == 0 {
		channels = in.Channels[:min(defaultChannelCount, len(in.Channels))]
	}

	batch := s.composer.ComposeBatch(ctx, composer.Request{
		Profile:  p,
		Insights: in,
		Tone:     req.Tone,
		Context:  strings.TrimSpace(req.Context),
	}, channels)

	out := Outcome{
		Profile:  p,
		Insights: in,
		Messages: make([]GeneratedMessage, len(batch.Messages)),
		Failures: batch.Failures,
	}
	now := s.now()
	for i, m := range batch.Messages {
		out.Messages[i] = GeneratedMessage{ID: uuid.New().String(), ProfileID: p.ID, Message: m, CreatedAt: now}
	}

	if len(out.Messages) == 0 {
		return out, allFailed(out.Failures)
	}
	s.persistMessages(p.ID, out.Messages)
	return out, nil
}

func allFailed(failures []composer.Failure) error {
	timeouts := 0
	reasons := make([]string, len(failures))
	for i, f := range failures {
		reasons[i] = f.Reason
		if f.Timeout {
			timeouts++
		}
	}
	if timeouts == len(failures) {
		return fmt.Errorf("%w: %w: %s", composer.ErrGeneration, composer.ErrTimeout, strings.Join(reasons, "; "))
	}
	return fmt.Errorf("%w: every channel failed: %s", composer.ErrGeneration, strings.Join(reasons, "; "))
}

func (s *Service) persistProfile(p profile.Profile) {
	if s.store == nil {
		return
	}
	id, err := s.store.SaveProfile(p)
	if err != nil {
		slog.Warn("pipeline: saving profile failed", "profile_id", p.ID, "error", err)
		return
	}
	if _, err := worker.EnqueueProfileIndex(s.store, id); err != nil {
		slog.Warn("pipeline: enqueueing profile index failed", "profile_id", id, "error", err)
	}
}

func (s *Service) persistMessages(profileID string, msgs []GeneratedMessage) {
	if s.store == nil {
		return
	}
	rows := make([]storage.Message, len(msgs))
	ids := make([]string, len(msgs))
	channels := make([]string, len(msgs))
	for i, m := range msgs {
		rows[i] = storage.Message{
			ID:        m.ID,
			ProfileID: profileID,
			Channel:   string(m.Channel),
			Subject:   m.Subject,
			Content:   m.Content,
			Tone:      string(m.Tone),
			CTA:       m.CTA,
			ReplyRate: m.ReplyRate,
			CreatedAt: m.CreatedAt,
		}
		ids[i] = m.ID
		channels[i] = string(m.Channel)
	}
	if err := s.store.SaveMessages(profileID, rows); err != nil {
		slog.Warn("pipeline: saving messages failed", "profile_id", profileID, "error", err)
		return
	}
	data := map[string]any{"channels": channels, "message_ids": ids}
	if _, err := worker.EnqueueInteraction(s.store, profileID, "outreach_generated", data); err != nil {
		slog.Warn("pipeline: enqueueing interaction failed", "profile_id", profileID, "error", err)
	}
}

// Demos returns the built-in demo profiles in key order.
func (s *Service) Demos() []profile.Profile {
	keys := s.normalizer.DemoKeys()
	out := make([]profile.Profile, 0, len(keys))
	for _, k := range keys {
		if p, ok := s.normalizer.Demo(k); ok {
			out = append(out, p)
		}
	}
	return out
}
