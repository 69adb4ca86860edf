package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kalambet/coldreach/internal/composer"
	"github.com/kalambet/coldreach/internal/pipeline"
	"github.com/kalambet/coldreach/internal/storage"
)

const testCompletion = "SUBJECT: A quick idea\nMESSAGE:\nHi there, I liked what your team ships.\nCTA: Open to a short call?\nEND"

type stubGenerator struct {
	err error
}

func (g *stubGenerator) Generate(context.Context, string, composer.Params) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return testCompletion, nil
}

type stubBackend struct{ up bool }

func (stubBackend) Name() string                       { return "ollama" }
func (stubBackend) Model() string                      { return "llama3.2" }
func (b stubBackend) IsRunning(_ context.Context) bool { return b.up }

func newTestService(t *testing.T, gen composer.Generator) (*pipeline.Service, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	comp := composer.New(gen, composer.WithTimeout(time.Second))
	return pipeline.New(pipeline.Deps{Composer: comp, Store: store}), store
}

func newTestServer(t *testing.T, gen composer.Generator) (http.Handler, *storage.Store) {
	t.Helper()
	svc, store := newTestService(t, gen)
	return NewHandler(Deps{Service: svc, Backend: stubBackend{up: true}, Version: "test"}), store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response: %v\nbody: %s", err, w.Body.String())
	}
}

func errorType(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	decodeJSON(t, w, &env)
	if env.Error.Message == "" {
		t.Errorf("error envelope has no message: %s", w.Body.String())
	}
	return env.Error.Type
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t, &stubGenerator{})

	w := do(t, h, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp HealthResponse
	decodeJSON(t, w, &resp)
	if resp.Status != "ok" || resp.Backend != "ollama" || !resp.BackendReachable || resp.Version != "test" {
		t.Errorf("unexpected health: %+v", resp)
	}
}

func TestHealth_BackendDown(t *testing.T) {
	svc, _ := newTestService(t, &stubGenerator{})
	h := NewHandler(Deps{Service: svc, Backend: stubBackend{up: false}})

	var resp HealthResponse
	decodeJSON(t, do(t, h, http.MethodGet, "/health", ""), &resp)
	if resp.Status != "degraded" || resp.BackendReachable {
		t.Errorf("unexpected health: %+v", resp)
	}
}

func TestDemoProfiles(t *testing.T) {
	h, _ := newTestServer(t, &stubGenerator{})

	w := do(t, h, http.MethodGet, "/api/demo-profiles", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Count int `json:"count"`
	}
	decodeJSON(t, w, &resp)
	if resp.Count != 6 {
		t.Errorf("count = %d, want 6", resp.Count)
	}
}

func TestAnalyzeProfile(t *testing.T) {
	h, store := newTestServer(t, &stubGenerator{})

	w := do(t, h, http.MethodPost, "/api/analyze-profile", `{"identifier":"john_doe"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var a pipeline.Analysis
	decodeJSON(t, w, &a)
	if a.Profile.Name != "John Doe" {
		t.Errorf("name = %q", a.Profile.Name)
	}
	if len(a.Insights.Channels) == 0 {
		t.Error("no preferred channels")
	}
	if _, err := store.GetProfile("john_doe"); err != nil {
		t.Errorf("profile not stored: %v", err)
	}
}

func TestAnalyzeProfile_BadRequests(t *testing.T) {
	h, _ := newTestServer(t, &stubGenerator{})

	for name, body := range map[string]string{
		"invalid json":     `{not json`,
		"empty identifier": `{"identifier":"  "}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/analyze-profile", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if typ := errorType(t, w); typ != errInvalidRequest {
				t.Errorf("type = %q", typ)
			}
		})
	}
}

func TestAnalyzeProfile_BodyTooLarge(t *testing.T) {
	h, _ := newTestServer(t, &stubGenerator{})

	big := `{"identifier":"` + strings.Repeat("a", maxRequestBodySize) + `"}`
	w := do(t, h, http.MethodPost, "/api/analyze-profile", big)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzePDF_Invalid(t *testing.T) {
	h, _ := newTestServer(t, &stubGenerator{})

	r := httptest.NewRequest(http.MethodPost, "/api/analyze-pdf", bytes.NewReader([]byte("not a pdf")))
	r.Header.Set("Content-Type", "application/pdf")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	w = do(t, h, http.MethodPost, "/api/analyze-pdf", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty body status = %d, want 400", w.Code)
	}
}

func TestGenerateOutreach(t *testing.T) {
	h, _ := newTestServer(t, &stubGenerator{})

	w := do(t, h, http.MethodPost, "/api/generate-outreach",
		`{"identifier":"john_doe","channels":["email","sms"],"tone":"casual","additional_context":"We build dev tools"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp GenerateResponse
	decodeJSON(t, w, &resp)
	if len(resp.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(resp.Messages))
	}
	if resp.Messages[0].Channel != "email" || resp.Messages[0].Subject == "" {
		t.Errorf("unexpected email message: %+v", resp.Messages[0])
	}
	if resp.Messages[1].Subject != "" {
		t.Errorf("sms message has subject %q", resp.Messages[1].Subject)
	}
	if resp.Messages[0].Tone != "casual" {
		t.Errorf("tone = %q, want casual", resp.Messages[0].Tone)
	}
	if resp.Failures == nil || len(resp.Failures) != 0 {
		t.Errorf("failures = %v, want empty array", resp.Failures)
	}

	w = do(t, h, http.MethodGet, "/api/profiles/john_doe/messages", "")
	var listed struct {
		Count int `json:"count"`
	}
	decodeJSON(t, w, &listed)
	if listed.Count != 2 {
		t.Errorf("stored messages = %d, want 2", listed.Count)
	}
}

func TestGenerateOutreach_Validation(t *testing.T) {
	h, _ := newTestServer(t, &stubGenerator{})

	for name, body := range map[string]string{
		"bad channel":  `{"identifier":"john_doe","channels":["fax"]}`,
		"bad tone":     `{"identifier":"john_doe","tone":"shouty"}`,
		"missing id":   `{"channels":["email"]}`,
		"invalid json": `[`,
	} {
		t.Run(name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/generate-outreach", body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestGenerateOutreach_AllFailed(t *testing.T) {
	h, _ := newTestServer(t, &stubGenerator{err: errors.New("connection refused")})

	w := do(t, h, http.MethodPost, "/api/generate-outreach", `{"identifier":"john_doe","channels":["email"]}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if typ := errorType(t, w); typ != errGeneration {
		t.Errorf("type = %q", typ)
	}
}

func TestProfileQueries(t *testing.T) {
	h, _ := newTestServer(t, &stubGenerator{})
	for _, id := range []string{"john_doe", "sarah_sharma", "alex_kumar"} {
		if w := do(t, h, http.MethodPost, "/api/analyze-profile", `{"identifier":"`+id+`"}`); w.Code != http.StatusOK {
			t.Fatalf("analyze %s: %d", id, w.Code)
		}
	}

	tests := []struct {
		path string
		code int
	}{
		{"/api/profiles/search?q=techcorp", http.StatusOK},
		{"/api/profiles/search", http.StatusBadRequest},
		{"/api/profiles/industry/Technology?limit=5", http.StatusOK},
		{"/api/profiles/john_doe", http.StatusOK},
		{"/api/profiles/nobody", http.StatusNotFound},
		{"/api/profiles/john_doe/similar", http.StatusOK},
		{"/api/profiles/nobody/similar", http.StatusNotFound},
		{"/api/profiles/nobody/messages", http.StatusNotFound},
		{"/api/profiles/semantic?q=product", http.StatusOK},
		{"/api/stats", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(t, h, http.MethodGet, tt.path, "")
			if w.Code != tt.code {
				t.Errorf("status = %d, want %d, body: %s", w.Code, tt.code, w.Body.String())
			}
		})
	}

	var search struct {
		Count int `json:"count"`
	}
	decodeJSON(t, do(t, h, http.MethodGet, "/api/profiles/search?q=techcorp", ""), &search)
	if search.Count != 1 {
		t.Errorf("search count = %d, want 1", search.Count)
	}

	var st pipeline.Stats
	decodeJSON(t, do(t, h, http.MethodGet, "/api/stats", ""), &st)
	if st.Profiles != 3 {
		t.Errorf("profiles = %d, want 3", st.Profiles)
	}
}

func TestExportProfiles(t *testing.T) {
	h, _ := newTestServer(t, &stubGenerator{})
	do(t, h, http.MethodPost, "/api/analyze-profile", `{"identifier":"emma_wilson"}`)

	w := do(t, h, http.MethodGet, "/api/profiles/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment;") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	var out []map[string]any
	decodeJSON(t, w, &out)
	if len(out) != 1 || out[0]["id"] != "emma_wilson" {
		t.Errorf("unexpected export: %v", out)
	}
}

func TestSwaggerDoc(t *testing.T) {
	h, _ := newTestServer(t, &stubGenerator{})

	w := do(t, h, http.MethodGet, "/swagger/doc.json", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/api/generate-outreach") {
		t.Error("swagger doc does not describe generate-outreach")
	}
}
