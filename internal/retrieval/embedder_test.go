package retrieval

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

type fakeEmbedder struct {
	embedFn func(ctx context.Context, model, text string) ([]float32, error)
}

func (f *fakeEmbedder) Embed(ctx context.Context, model, text string) ([]float32, error) {
	return f.embedFn(ctx, model, text)
}

// keywordEmbedder maps text onto three axes: engineering, sales, health.
func keywordEmbedder() *fakeEmbedder {
	return &fakeEmbedder{embedFn: func(_ context.Context, _ string, text string) ([]float32, error) {
		t := strings.ToLower(text)
		v := []float32{0.01, 0.01, 0.01}
		if strings.Contains(t, "engineer") {
			v[0] = 1
		}
		if strings.Contains(t, "sales") {
			v[1] = 1
		}
		if strings.Contains(t, "nurse") {
			v[2] = 1
		}
		return v, nil
	}}
}

func TestEmbed_PassesModel(t *testing.T) {
	var gotModel string
	e := NewEmbedder(&fakeEmbedder{embedFn: func(_ context.Context, model, _ string) ([]float32, error) {
		gotModel = model
		return []float32{1, 2, 3}, nil
	}}, "nomic-embed-text")

	vec, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("len = %d, want 3", len(vec))
	}
	if gotModel != "nomic-embed-text" {
		t.Errorf("model = %q", gotModel)
	}
}

func TestEmbed_Errors(t *testing.T) {
	boom := errors.New("backend down")
	e := NewEmbedder(&fakeEmbedder{embedFn: func(context.Context, string, string) ([]float32, error) {
		return nil, boom
	}}, "m")
	if _, err := e.Embed(context.Background(), "x"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped backend error", err)
	}

	empty := NewEmbedder(&fakeEmbedder{embedFn: func(context.Context, string, string) ([]float32, error) {
		return nil, nil
	}}, "m")
	if _, err := empty.Embed(context.Background(), "x"); err == nil {
		t.Error("expected error for empty vector")
	}
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	var calls atomic.Int32
	e := NewEmbedder(&fakeEmbedder{embedFn: func(_ context.Context, _ string, text string) ([]float32, error) {
		calls.Add(1)
		return []float32{float32(len(text))}, nil
	}}, "m")

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff"}
	got, err := e.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	for i, v := range got {
		if int(v[0]) != len(texts[i]) {
			t.Errorf("result %d = %v, want %d", i, v, len(texts[i]))
		}
	}
	if calls.Load() != int32(len(texts)) {
		t.Errorf("calls = %d, want %d", calls.Load(), len(texts))
	}
}

func TestEmbedBatch_EmptyAndError(t *testing.T) {
	e := NewEmbedder(&fakeEmbedder{embedFn: func(_ context.Context, _ string, text string) ([]float32, error) {
		if text == "bad" {
			return nil, errors.New("nope")
		}
		return []float32{1}, nil
	}}, "m")

	got, err := e.EmbedBatch(context.Background(), nil)
	if err != nil || got != nil {
		t.Errorf("empty input: got %v, %v", got, err)
	}
	if _, err := e.EmbedBatch(context.Background(), []string{"ok", "bad"}); err == nil {
		t.Error("expected error when one text fails")
	}
}
