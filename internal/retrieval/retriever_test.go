package retrieval

import (
	"context"
	"errors"
	"testing"
)

func TestRetriever_IndexAndSimilar(t *testing.T) {
	ctx := context.Background()
	r := NewRetriever(NewEmbedder(keywordEmbedder(), "m"), NewSQLiteStore(openTestDB(t)))

	profiles := map[string]string{
		"ana": "Ana is a software engineer at Acme",
		"ben": "Ben runs sales at Globex",
		"cat": "Cat is a nurse at City Hospital",
	}
	for id, summary := range profiles {
		if err := r.Index(ctx, id, summary); err != nil {
			t.Fatalf("Index(%s): %v", id, err)
		}
	}

	got, err := r.Similar(ctx, "backend engineer", 2)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ProfileID != "ana" {
		t.Errorf("best match = %q, want ana", got[0].ProfileID)
	}
	if got[0].Summary != profiles["ana"] {
		t.Errorf("Summary = %q", got[0].Summary)
	}
	if n, _ := r.Count(ctx); n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}

func TestRetriever_EmbedFailureReturnsEmpty(t *testing.T) {
	r := NewRetriever(NewEmbedder(&fakeEmbedder{embedFn: func(context.Context, string, string) ([]float32, error) {
		return nil, errors.New("ollama not running")
	}}, "m"), NewSQLiteStore(openTestDB(t)))

	got, err := r.Similar(context.Background(), "engineer", 5)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestRetriever_NoEmbedder(t *testing.T) {
	r := NewRetriever(nil, NewSQLiteStore(openTestDB(t)))

	if r.Enabled() {
		t.Error("Enabled() = true without embedder")
	}
	if err := r.Index(context.Background(), "p", "summary"); !errors.Is(err, ErrNoEmbedder) {
		t.Errorf("Index err = %v, want ErrNoEmbedder", err)
	}
	got, err := r.Similar(context.Background(), "engineer", 5)
	if err != nil || len(got) != 0 {
		t.Errorf("Similar = %v, %v; want empty", got, err)
	}
}

func TestRetriever_IndexRejectsEmptySummary(t *testing.T) {
	r := NewRetriever(NewEmbedder(keywordEmbedder(), "m"), NewSQLiteStore(openTestDB(t)))
	if err := r.Index(context.Background(), "p", "   "); err == nil {
		t.Error("expected error for empty summary")
	}
}
