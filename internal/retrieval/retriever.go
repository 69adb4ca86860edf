// Package retrieval provides semantic search over profile summaries using
// embeddings stored next to the profiles in SQLite.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNoEmbedder is returned by Index when no embedding backend is
// configured.
var ErrNoEmbedder = errors.New("no embedding backend configured")

// Match is a profile found by semantic search.
type Match struct {
	ProfileID string  `json:"profile_id"`
	Summary   string  `json:"summary"`
	Score     float32 `json:"score"`
}

// Retriever embeds profile summaries and queries and matches them through
// a VectorStore. A nil embedder disables indexing and search.
type Retriever struct {
	embedder *Embedder
	store    VectorStore
}

// NewRetriever creates a Retriever. embedder may be nil.
func NewRetriever(embedder *Embedder, store VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Enabled reports whether an embedding backend is configured.
func (r *Retriever) Enabled() bool { return r.embedder != nil }

// Index embeds summary and stores it as the vector for profileID.
func (r *Retriever) Index(ctx context.Context, profileID, summary string) error {
	if r.embedder == nil {
		return ErrNoEmbedder
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return fmt.Errorf("indexing %s: empty summary", profileID)
	}
	vec, err := r.embedder.Embed(ctx, summary)
	if err != nil {
		return fmt.Errorf("indexing %s: %w", profileID, err)
	}
	return r.store.Upsert(ctx, Record{
		ProfileID: profileID,
		Model:     r.embedder.Model(),
		Summary:   summary,
		Embedding: vec,
	})
}

// Similar returns up to k profiles whose summaries are closest to query.
// When the query cannot be embedded the result is empty, not an error.
func (r *Retriever) Similar(ctx context.Context, query string, k int) ([]Match, error) {
	query = strings.TrimSpace(query)
	if r.embedder == nil || query == "" || k <= 0 {
		return []Match{}, nil
	}
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		slog.Warn("retrieval: embedding unavailable, returning no matches", "error", err)
		return []Match{}, nil
	}
	scored, err := r.store.Search(ctx, r.embedder.Model(), vec, k)
	if err != nil {
		return nil, err
	}
	out := make([]Match, len(scored))
	for i, s := range scored {
		out[i] = Match{ProfileID: s.ProfileID, Summary: s.Summary, Score: s.Score}
	}
	return out, nil
}

// Count returns the number of indexed profiles.
func (r *Retriever) Count(ctx context.Context) (int, error) {
	return r.store.Count(ctx)
}
