package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/coldreach/internal/pipeline"
	"github.com/kalambet/coldreach/internal/profile"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// NewMCPServer creates an MCP server exposing the outreach tools.
func NewMCPServer(svc *pipeline.Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"coldreach",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("coldreach analyzes social profiles and writes personalized cold outreach for email, LinkedIn, WhatsApp, SMS and Instagram."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("analyze_profile",
			mcp.WithDescription("Analyze a profile (demo key, LinkedIn or GitHub URL, or free text) and return the structured profile with communication insights."),
			mcp.WithString("identifier", mcp.Description("Demo key such as john_doe, a profile URL, or a free-text description"), mcp.Required()),
		),
		mcpAnalyzeProfile(svc),
	)

	s.AddTool(
		mcp.NewTool("generate_outreach",
			mcp.WithDescription("Generate personalized outreach messages for a profile on one or more channels."),
			mcp.WithString("identifier", mcp.Description("Demo key, profile URL, or free-text description"), mcp.Required()),
			mcp.WithArray("channels", mcp.Description("Channels: email, linkedin_dm, whatsapp, sms, instagram_dm. Defaults to the two best channels for the profile.")),
			mcp.WithString("tone", mcp.Description("Override the tone"), mcp.Enum(string(profile.Formal), string(profile.Casual), string(profile.Mixed))),
			mcp.WithString("additional_context", mcp.Description("Extra context for the messages, such as what you are offering")),
		),
		mcpGenerateOutreach(svc),
	)

	s.AddTool(
		mcp.NewTool("search_profiles",
			mcp.WithDescription("Search previously analyzed profiles by name, company or role."),
			mcp.WithString("query", mcp.Description("Search text"), mcp.Required()),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
		),
		mcpSearchProfiles(svc),
	)

	s.AddTool(
		mcp.NewTool("list_demo_profiles",
			mcp.WithDescription("List the built-in demo profiles that can be used as identifiers."),
		),
		mcpListDemoProfiles(svc),
	)

	s.AddResource(
		mcp.NewResource(
			"coldreach://stats",
			"Store Statistics",
			mcp.WithResourceDescription("Counts of stored profiles, messages and interactions"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceStats(svc),
	)

	return s
}

func mcpAnalyzeProfile(svc *pipeline.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		identifier, err := req.RequireString("identifier")
		if err != nil || strings.TrimSpace(identifier) == "" {
			return mcpError("identifier is required"), nil
		}
		a, err := svc.Analyze(ctx, identifier)
		if err != nil {
			return mcpError(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return mcpJSON(a)
	}
}

func mcpGenerateOutreach(svc *pipeline.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		identifier, err := req.RequireString("identifier")
		if err != nil || strings.TrimSpace(identifier) == "" {
			return mcpError("identifier is required"), nil
		}
		channels, err := profile.ParseChannels(req.GetStringSlice("channels", nil))
		if err != nil {
			return mcpError(err.Error()), nil
		}
		preq := pipeline.Request{
			Identifier: identifier,
			Channels:   channels,
			Context:    req.GetString("additional_context", ""),
		}
		if t := req.GetString("tone", ""); t != "" {
			tone, err := profile.ParseStyle(t)
			if err != nil {
				return mcpError(err.Error()), nil
			}
			preq.Tone = &tone
		}

		out, err := svc.Generate(ctx, preq)
		if err != nil {
			return mcpError(fmt.Sprintf("generation failed: %v", err)), nil
		}
		return mcpJSON(out)
	}
}

func mcpSearchProfiles(svc *pipeline.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}
		limit := req.GetInt("limit", defaultSearchLimit)
		if limit <= 0 {
			limit = defaultSearchLimit
		}
		if limit > maxSearchLimit {
			limit = maxSearchLimit
		}
		found, err := svc.Search(query, limit)
		if errors.Is(err, pipeline.ErrInvalidInput) {
			return mcpError("query is required"), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("search failed: %v", err)), nil
		}
		return mcpJSON(found)
	}
}

func mcpListDemoProfiles(svc *pipeline.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		type demo struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Role     string `json:"role"`
			Company  string `json:"company"`
			Industry string `json:"industry"`
		}
		demos := svc.Demos()
		out := make([]demo, len(demos))
		for i, p := range demos {
			out[i] = demo{ID: p.ID, Name: p.Name, Role: p.Role, Company: p.Company, Industry: p.Industry}
		}
		return mcpJSON(out)
	}
}

func mcpResourceStats(svc *pipeline.Service) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		st, err := svc.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get stats: %w", err)
		}
		b, err := json.Marshal(st)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal stats: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
