package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kalambet/coldreach/internal/profile"
	"github.com/kalambet/coldreach/internal/storage"
)

var errNoStore = errors.New("profile store is not configured")

// Profile returns a stored profile or storage.ErrNotFound.
func (s *Service) Profile(id string) (profile.Profile, error) {
	if s.store == nil {
		return profile.Profile{}, errNoStore
	}
	return s.store.GetProfile(id)
}

// Search finds stored profiles by name, company or role.
func (s *Service) Search(q string, limit int) ([]profile.Profile, error) {
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidInput)
	}
	if s.store == nil {
		return nil, errNoStore
	}
	return s.store.SearchProfiles(q, limit)
}

// ByIndustry lists stored profiles in an industry.
func (s *Service) ByIndustry(industry string, limit int) ([]profile.Profile, error) {
	if strings.TrimSpace(industry) == "" {
		return nil, fmt.Errorf("%w: empty industry", ErrInvalidInput)
	}
	if s.store == nil {
		return nil, errNoStore
	}
	return s.store.ProfilesByIndustry(industry, limit)
}

// Similar returns stored profiles sharing the industry or role of the
// profile id, excluding the profile itself.
func (s *Service) Similar(id string, limit int) ([]profile.Profile, error) {
	p, err := s.Profile(id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}
	found, err := s.store.FindSimilar(p.Role, p.Industry, limit+1)
	if err != nil {
		return nil, err
	}
	out := make([]profile.Profile, 0, len(found))
	for _, f := range found {
		if f.ID != p.ID && len(out) < limit {
			out = append(out, f)
		}
	}
	return out, nil
}

// Messages returns the stored messages of profile id, newest first.
func (s *Service) Messages(id string, limit int) ([]storage.Message, error) {
	if _, err := s.Profile(id); err != nil {
		return nil, err
	}
	return s.store.ListMessages(id, limit)
}

// SemanticMatch is a stored profile found by embedding similarity.
type SemanticMatch struct {
	Profile profile.Profile `json:"profile"`
	Score   float32         `json:"score"`
}

// Semantic searches profile summaries by meaning. It returns an empty
// result when no embedding backend is available.
func (s *Service) Semantic(ctx context.Context, q string, limit int) ([]SemanticMatch, error) {
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidInput)
	}
	if s.retriever == nil || s.store == nil {
		return []SemanticMatch{}, nil
	}
	if limit <= 0 {
		limit = 5
	}
	matches, err := s.retriever.Similar(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	out := make([]SemanticMatch, 0, len(matches))
	for _, m := range matches {
		p, err := s.store.GetProfile(m.ProfileID)
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("pipeline: indexed profile missing from store", "profile_id", m.ProfileID)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, SemanticMatch{Profile: p, Score: m.Score})
	}
	return out, nil
}

// Stats extends the store counts with index and queue state.
type Stats struct {
	storage.Stats
	IndexedProfiles int            `json:"indexed_profiles"`
	Jobs            map[string]int `json:"jobs"`
}

// Stats reports what the store holds.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if s.store == nil {
		return Stats{}, errNoStore
	}
	st, err := s.store.Stats()
	if err != nil {
		return Stats{}, err
	}
	out := Stats{Stats: st, Jobs: map[string]int{}}
	if jobs, err := s.store.JobCounts(); err == nil {
		out.Jobs = jobs
	}
	if s.retriever != nil {
		if n, err := s.retriever.Count(ctx); err == nil {
			out.IndexedProfiles = n
		}
	}
	return out, nil
}

// Export writes every stored profile to w as a JSON array.
func (s *Service) Export(w io.Writer) (int, error) {
	if s.store == nil {
		return 0, errNoStore
	}
	return s.store.ExportProfiles(w)
}
