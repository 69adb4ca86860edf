package retrieval

import (
	"context"
	"time"
)

// VectorStore stores one embedding per profile and answers nearest-neighbour
// queries over them. Vectors from different embedding models are never
// compared.
type VectorStore interface {
	// Upsert replaces the vector stored for r.ProfileID.
	Upsert(ctx context.Context, r Record) error

	// Search returns the topK records of model most similar to vector,
	// best first.
	Search(ctx context.Context, model string, vector []float32, topK int) ([]ScoredRecord, error)

	// Delete removes the vector of a profile. Deleting a missing vector is
	// not an error.
	Delete(ctx context.Context, profileID string) error

	// Count returns the number of stored vectors.
	Count(ctx context.Context) (int, error)
}

// Record is a row of profile_vectors.
type Record struct {
	ProfileID string
	Model     string
	Summary   string
	Embedding []float32
	UpdatedAt time.Time
}

// ScoredRecord is a Record with its cosine similarity to the query.
type ScoredRecord struct {
	Record
	Score float32
}
