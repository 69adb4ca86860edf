package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/coldreach/internal/pipeline"
	"github.com/kalambet/coldreach/internal/profile"
)

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPServer_RegistersTools(t *testing.T) {
	svc, _ := newTestService(t, &stubGenerator{})
	s := NewMCPServer(svc, "test")
	if s == nil {
		t.Fatal("NewMCPServer returned nil")
	}
	tools := s.ListTools()
	for _, name := range []string{"analyze_profile", "generate_outreach", "search_profiles", "list_demo_profiles"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestMCPTool_AnalyzeProfile(t *testing.T) {
	svc, _ := newTestService(t, &stubGenerator{})
	handler := mcpAnalyzeProfile(svc)

	result, err := handler(context.Background(), makeCallToolRequest("analyze_profile", map[string]any{"identifier": "sarah_sharma"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}
	var a pipeline.Analysis
	if err := json.Unmarshal([]byte(toolText(t, result)), &a); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if a.Profile.ID != "sarah_sharma" {
		t.Errorf("profile id = %q", a.Profile.ID)
	}

	result, _ = handler(context.Background(), makeCallToolRequest("analyze_profile", map[string]any{}))
	if !result.IsError {
		t.Error("expected error for missing identifier")
	}
}

func TestMCPTool_GenerateOutreach(t *testing.T) {
	svc, _ := newTestService(t, &stubGenerator{})
	handler := mcpGenerateOutreach(svc)

	result, err := handler(context.Background(), makeCallToolRequest("generate_outreach", map[string]any{
		"identifier":         "john_doe",
		"channels":           []any{"email", "linkedin_dm"},
		"tone":               "formal",
		"additional_context": "We sell observability tooling",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}
	var out pipeline.Outcome
	if err := json.Unmarshal([]byte(toolText(t, result)), &out); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(out.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(out.Messages))
	}
	if out.Messages[1].Channel != profile.LinkedInDM {
		t.Errorf("second channel = %q", out.Messages[1].Channel)
	}
}

func TestMCPTool_GenerateOutreach_Errors(t *testing.T) {
	svc, _ := newTestService(t, &stubGenerator{})
	handler := mcpGenerateOutreach(svc)

	for name, args := range map[string]map[string]any{
		"missing identifier": {"channels": []any{"email"}},
		"bad channel":        {"identifier": "john_doe", "channels": []any{"pigeon"}},
		"bad tone":           {"identifier": "john_doe", "tone": "loud"},
	} {
		t.Run(name, func(t *testing.T) {
			result, err := handler(context.Background(), makeCallToolRequest("generate_outreach", args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.IsError {
				t.Errorf("expected tool error, got %s", toolText(t, result))
			}
		})
	}

	failing, _ := newTestService(t, &stubGenerator{err: errors.New("backend down")})
	result, _ := mcpGenerateOutreach(failing)(context.Background(), makeCallToolRequest("generate_outreach", map[string]any{"identifier": "john_doe", "channels": []any{"sms"}}))
	if !result.IsError {
		t.Error("expected tool error when every channel fails")
	}
}

func TestMCPTool_SearchProfiles(t *testing.T) {
	svc, _ := newTestService(t, &stubGenerator{})
	if _, err := svc.Analyze(context.Background(), "michael_chen"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	handler := mcpSearchProfiles(svc)

	result, err := handler(context.Background(), makeCallToolRequest("search_profiles", map[string]any{"query": "michael", "limit": 5}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found []profile.Profile
	if err := json.Unmarshal([]byte(toolText(t, result)), &found); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(found) != 1 || found[0].ID != "michael_chen" {
		t.Errorf("found = %+v", found)
	}

	result, _ = handler(context.Background(), makeCallToolRequest("search_profiles", map[string]any{"query": " "}))
	if !result.IsError {
		t.Error("expected error for blank query")
	}
}

func TestMCPTool_ListDemoProfiles(t *testing.T) {
	svc, _ := newTestService(t, &stubGenerator{})

	result, err := mcpListDemoProfiles(svc)(context.Background(), makeCallToolRequest("list_demo_profiles", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var demos []map[string]string
	if err := json.Unmarshal([]byte(toolText(t, result)), &demos); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(demos) != 6 || demos[0]["id"] != "john_doe" {
		t.Errorf("demos = %v", demos)
	}
}

func TestMCPResource_Stats(t *testing.T) {
	svc, _ := newTestService(t, &stubGenerator{})
	svc.Analyze(context.Background(), "lisa_patel")

	contents, err := mcpResourceStats(svc)(context.Background(), mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "coldreach://stats"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	var st pipeline.Stats
	if err := json.Unmarshal([]byte(tc.Text), &st); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if st.Profiles != 1 {
		t.Errorf("profiles = %d, want 1", st.Profiles)
	}
}
