package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordedRequest struct {
	Method      string
	Path        string
	Body        string
	ContentType string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.RequestURI(),
			Body:        body.String(),
			ContentType: r.Header.Get("Content-Type"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"profile not found","type":"not_found_error"}}`))
	}))
	t.Cleanup(ts.server.Close)

	prev := newAPIClient
	newAPIClient = func() (*apiClient, error) {
		return &apiClient{baseURL: ts.server.URL, httpClient: ts.server.Client()}, nil
	}
	t.Cleanup(func() { newAPIClient = prev })
	return ts
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--no-color"))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

const analysisJSON = `{
	"profile": {"id":"john_doe","name":"John Doe","role":"Senior Product Manager","company":"TechCorp Inc","industry":"Technology","seniority":"senior","communication_style":"formal","skills":["Product Strategy"],"interests":["AI/ML"],"source":"demo"},
	"insights": {"formality_score":0.8,"emoji_usage":"none","pain_points":["scaling teams"],"preferred_channels":["email","linkedin_dm"]}
}`

func TestAnalyzeCommand(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /api/analyze-profile": analysisJSON,
	})

	out, err := execute(t, "analyze", "john_doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "John Doe") || !strings.Contains(out, "email, linkedin_dm") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(ts.requests[0].Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["identifier"] != "john_doe" {
		t.Errorf("identifier = %q, want john_doe", body["identifier"])
	}
}

func TestAnalyzeCommand_PDF(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /api/analyze-pdf": analysisJSON,
	})
	path := filepath.Join(t.TempDir(), "resume.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "analyze", "--pdf", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := ts.requests[0]
	if r.Path != "/api/analyze-pdf" || r.ContentType != "application/pdf" {
		t.Errorf("request = %+v", r)
	}
	if r.Body != "%PDF-1.4 fake" {
		t.Errorf("body = %q", r.Body)
	}
	analyzeCmd.Flags().Set("pdf", "")
}

func TestAnalyzeCommand_MissingArgs(t *testing.T) {
	newTestServer(t, nil)

	_, err := execute(t, "analyze")
	if err == nil {
		t.Fatal("expected error for missing args")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q, want it to mention 'required'", err.Error())
	}
}

func TestGenerateCommand(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /api/generate-outreach": `{
			"messages": [{"id":"m1","profile_id":"john_doe","channel":"email","subject":"Quick idea","content":"Hi John, loved the roadmap talk.","tone":"formal","cta":"Open to a call?","estimated_reply_rate":0.42}],
			"failures": [{"channel":"sms","reason":"generation timed out","timeout":true}]
		}`,
	})

	out, err := execute(t, "generate", "john_doe", "--channel", "email", "--channel", "sms", "--tone", "formal", "--context", "We build tools")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Subject: Quick idea") || !strings.Contains(out, "42%") {
		t.Errorf("unexpected output:\n%s", out)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(ts.requests[0].Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["tone"] != "formal" || body["additional_context"] != "We build tools" {
		t.Errorf("body = %v", body)
	}
	chs, _ := body["channels"].([]any)
	if len(chs) != 2 || chs[0] != "email" || chs[1] != "sms" {
		t.Errorf("channels = %v", body["channels"])
	}
	generateCmd.Flags().Set("tone", "")
	generateCmd.Flags().Set("context", "")
}

func TestGenerateCommand_InvalidChannel(t *testing.T) {
	ts := newTestServer(t, nil)

	_, err := execute(t, "generate", "john_doe", "--channel", "fax")
	if err == nil {
		t.Fatal("expected error for unsupported channel")
	}
	if len(ts.requests) != 0 {
		t.Errorf("expected no requests, got %d", len(ts.requests))
	}
}

func TestSearchCommand(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /api/profiles/search": `{"query":"tech corp","profiles":[{"id":"john_doe","name":"John Doe","role":"PM","company":"TechCorp Inc","industry":"Technology"}],"count":1}`,
	})

	out, err := execute(t, "search", "tech", "corp", "--limit", "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "john_doe") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if got := ts.requests[0].Path; got != "/api/profiles/search?q=tech+corp&limit=3" {
		t.Errorf("path = %q", got)
	}
}

func TestSimilarCommand_NotFound(t *testing.T) {
	newTestServer(t, nil)

	_, err := execute(t, "similar", "nobody")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "profile not found") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestStatsCommand(t *testing.T) {
	newTestServer(t, map[string]string{
		"GET /api/stats": `{"total_profiles":3,"total_messages":4,"total_interactions":2,"avg_estimated_reply_rate":0.35,"profiles_by_industry":{"Technology":2},"indexed_profiles":1,"jobs":{}}`,
	})

	out, err := execute(t, "stats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"3 (1 indexed)", "35.0%", "Technology"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExportCommand_File(t *testing.T) {
	newTestServer(t, map[string]string{
		"GET /api/profiles/export": `[{"id":"john_doe"}]`,
	})
	path := filepath.Join(t.TempDir(), "export.json")

	if _, err := execute(t, "export", "--out", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `[{"id":"john_doe"}]` {
		t.Errorf("export = %q", data)
	}
	exportCmd.Flags().Set("out", "")
}

func TestDecodeJSON_ErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.WriteHeader(http.StatusBadGateway)
	rec.WriteString(`{"error":{"message":"every channel failed","type":"generation_error"}}`)

	err := decodeJSON(rec.Result(), nil)
	if err == nil || err.Error() != "server returned 502: every channel failed" {
		t.Errorf("err = %v", err)
	}
}

func TestPIDFile(t *testing.T) {
	path := pidFilePath(filepath.Join(t.TempDir(), "data"))
	if err := writePIDFile(path); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	pid, err := readPIDFile(path)
	if err != nil {
		t.Fatalf("readPIDFile: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}
	removePIDFile(path)
	if _, err := readPIDFile(path); err == nil {
		t.Error("expected error after removal")
	}
}
