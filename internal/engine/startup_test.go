package engine

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/kalambet/coldreach/internal/composer"
)

type mockEngine struct {
	isRunning bool
	model     string
	models    map[string]bool
	pulled    []string
}

func (m *mockEngine) Generate(_ context.Context, _ string, _ composer.Params) (string, error) {
	return "", nil
}
func (m *mockEngine) Name() string                     { return "mock" }
func (m *mockEngine) Model() string                    { return m.model }
func (m *mockEngine) IsRunning(_ context.Context) bool { return m.isRunning }
func (m *mockEngine) HasModel(_ context.Context, name string) bool {
	return m.models[name]
}
func (m *mockEngine) PullModel(_ context.Context, name string, cb func(PullProgress)) error {
	m.pulled = append(m.pulled, name)
	if cb != nil {
		cb(PullProgress{Status: "success"})
	}
	return nil
}

// remoteEngine has no local models to manage.
type remoteEngine struct{ up bool }

func (r remoteEngine) Generate(context.Context, string, composer.Params) (string, error) {
	return "", nil
}
func (r remoteEngine) Name() string                   { return "remote" }
func (r remoteEngine) Model() string                  { return "remote-model" }
func (r remoteEngine) IsRunning(context.Context) bool { return r.up }

func TestEnsureReady_AllModelsPresent(t *testing.T) {
	m := &mockEngine{
		isRunning: true,
		model:     "tinyllama",
		models:    map[string]bool{"tinyllama": true, "nomic-embed-text": true},
	}
	if err := EnsureReady(context.Background(), m, "nomic-embed-text", io.Discard); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}
	if len(m.pulled) != 0 {
		t.Errorf("expected no pulls, got %v", m.pulled)
	}
}

func TestEnsureReady_PullsMissing(t *testing.T) {
	m := &mockEngine{
		isRunning: true,
		model:     "tinyllama",
		models:    map[string]bool{"tinyllama": true},
	}
	var out bytes.Buffer
	if err := EnsureReady(context.Background(), m, "nomic-embed-text", &out); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}
	if len(m.pulled) != 1 || m.pulled[0] != "nomic-embed-text" {
		t.Errorf("expected pull of nomic-embed-text, got %v", m.pulled)
	}
	if !strings.Contains(out.String(), "pulling") {
		t.Errorf("output = %q, want pull progress", out.String())
	}
}

func TestEnsureReady_ThroughRateLimiter(t *testing.T) {
	m := &mockEngine{isRunning: true, model: "tinyllama", models: map[string]bool{}}
	if err := EnsureReady(context.Background(), RateLimited(m, 5, 1), "", io.Discard); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}
	if len(m.pulled) != 1 || m.pulled[0] != "tinyllama" {
		t.Errorf("expected pull through decorator, got %v", m.pulled)
	}
}

func TestEnsureReady_RemoteEngine(t *testing.T) {
	if err := EnsureReady(context.Background(), remoteEngine{up: true}, "nomic-embed-text", io.Discard); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}
}

func TestEnsureReady_EngineDown(t *testing.T) {
	err := EnsureReady(context.Background(), remoteEngine{}, "", io.Discard)
	if err == nil {
		t.Fatal("expected error when engine is down")
	}
	if !strings.Contains(err.Error(), "remote backend is not reachable") {
		t.Errorf("error = %q", err)
	}
}
