package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/coldreach/internal/composer"
	"github.com/kalambet/coldreach/internal/fetch"
	"github.com/kalambet/coldreach/internal/insight"
	"github.com/kalambet/coldreach/internal/pipeline"
	"github.com/kalambet/coldreach/internal/profile"
)

type handlers struct {
	deps Deps
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status           string `json:"status"`
	Version          string `json:"version"`
	Backend          string `json:"backend"`
	Model            string `json:"model,omitempty"`
	BackendReachable bool   `json:"backend_reachable"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
}

// health godoc
//
//	@Summary	Service health
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "ok",
		Version:       h.deps.Version,
		Backend:       "none",
		UptimeSeconds: int64(time.Since(h.deps.Started).Seconds()),
	}
	if b := h.deps.Backend; b != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		resp.Backend = b.Name()
		resp.Model = b.Model()
		resp.BackendReachable = b.IsRunning(ctx)
	}
	if !resp.BackendReachable {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

// demoProfiles godoc
//
//	@Summary	List the built-in demo profiles
//	@Tags		profiles
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/api/demo-profiles [get]
func (h *handlers) demoProfiles(w http.ResponseWriter, r *http.Request) {
	demos := h.deps.Service.Demos()
	writeJSON(w, http.StatusOK, map[string]any{"profiles": demos, "count": len(demos)})
}

// AnalyzeRequest is the body of POST /api/analyze-profile.
type AnalyzeRequest struct {
	Identifier string `json:"identifier"`
}

// analyzeProfile godoc
//
//	@Summary	Analyze a profile identifier, URL or free text
//	@Tags		profiles
//	@Accept		json
//	@Produce	json
//	@Param		request	body		AnalyzeRequest	true	"identifier"
//	@Success	200		{object}	pipeline.Analysis
//	@Failure	400		{object}	map[string]interface{}
//	@Router		/api/analyze-profile [post]
func (h *handlers) analyzeProfile(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Identifier) == "" {
		httpError(w, http.StatusBadRequest, errInvalidRequest, "identifier is required")
		return
	}
	a, err := h.deps.Service.Analyze(r.Context(), req.Identifier)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// analyzePDF godoc
//
//	@Summary	Analyze a profile PDF export
//	@Tags		profiles
//	@Accept		application/pdf
//	@Produce	json
//	@Success	200	{object}	pipeline.Analysis
//	@Failure	400	{object}	map[string]interface{}
//	@Router		/api/analyze-pdf [post]
func (h *handlers) analyzePDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPDFBodySize)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httpError(w, http.StatusBadRequest, errInvalidRequest, "reading body: %v", err)
		return
	}
	if len(body) == 0 {
		httpError(w, http.StatusBadRequest, errInvalidRequest, "pdf body is required")
		return
	}
	f, err := fetch.ReadPDF(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		httpError(w, http.StatusBadRequest, errInvalidRequest, "%v", err)
		return
	}
	a, err := h.deps.Service.AnalyzeFields(f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// GenerateRequest is the body of POST /api/generate-outreach.
type GenerateRequest struct {
	Identifier        string   `json:"identifier"`
	Channels          []string `json:"channels"`
	Tone              string   `json:"tone,omitempty"`
	AdditionalContext string   `json:"additional_context,omitempty"`
}

// GenerateResponse is the body returned by POST /api/generate-outreach.
type GenerateResponse struct {
	Profile  profile.Profile             `json:"profile"`
	Insights insight.Insights            `json:"insights"`
	Messages []pipeline.GeneratedMessage `json:"messages"`
	Failures []composer.Failure          `json:"failures"`
}

// generateOutreach godoc
//
//	@Summary	Generate outreach messages for one or more channels
//	@Tags		outreach
//	@Accept		json
//	@Produce	json
//	@Param		request	body		GenerateRequest	true	"generation request"
//	@Success	200		{object}	GenerateResponse
//	@Failure	400		{object}	map[string]interface{}
//	@Failure	502		{object}	map[string]interface{}
//	@Router		/api/generate-outreach [post]
func (h *handlers) generateOutreach(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Identifier) == "" {
		httpError(w, http.StatusBadRequest, errInvalidRequest, "identifier is required")
		return
	}
	channels, err := profile.ParseChannels(req.Channels)
	if err != nil {
		httpError(w, http.StatusBadRequest, errInvalidRequest, "%v", err)
		return
	}
	preq := pipeline.Request{Identifier: req.Identifier, Channels: channels, Context: req.AdditionalContext}
	if strings.TrimSpace(req.Tone) != "" {
		tone, err := profile.ParseStyle(req.Tone)
		if err != nil {
			httpError(w, http.StatusBadRequest, errInvalidRequest, "%v", err)
			return
		}
		preq.Tone = &tone
	}

	out, err := h.deps.Service.Generate(r.Context(), preq)
	if err != nil {
		if len(out.Failures) > 0 {
			slog.Warn("api: every channel failed", "profile_id", out.Profile.ID, "failures", len(out.Failures))
		}
		writeServiceError(w, err)
		return
	}
	failures := out.Failures
	if failures == nil {
		failures = []composer.Failure{}
	}
	writeJSON(w, http.StatusOK, GenerateResponse{
		Profile:  out.Profile,
		Insights: out.Insights,
		Messages: out.Messages,
		Failures: failures,
	})
}

// searchProfiles godoc
//
//	@Summary	Search stored profiles by name, company or role
//	@Tags		profiles
//	@Produce	json
//	@Param		q		query		string	true	"query"
//	@Param		limit	query		int		false	"max results"
//	@Success	200		{object}	map[string]interface{}
//	@Router		/api/profiles/search [get]
func (h *handlers) searchProfiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	found, err := h.deps.Service.Search(q, parseIntParam(r, "limit", defaultListLimit, maxListLimit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": q, "profiles": found, "count": len(found)})
}

// semanticSearch godoc
//
//	@Summary	Search stored profiles by meaning
//	@Tags		profiles
//	@Produce	json
//	@Param		q		query		string	true	"query"
//	@Param		limit	query		int		false	"max results"
//	@Success	200		{object}	map[string]interface{}
//	@Router		/api/profiles/semantic [get]
func (h *handlers) semanticSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	matches, err := h.deps.Service.Semantic(r.Context(), q, parseIntParam(r, "limit", 5, maxListLimit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": q, "matches": matches, "count": len(matches)})
}

// profilesByIndustry godoc
//
//	@Summary	List stored profiles in an industry
//	@Tags		profiles
//	@Produce	json
//	@Param		industry	path		string	true	"industry"
//	@Param		limit		query		int		false	"max results"
//	@Success	200			{object}	map[string]interface{}
//	@Router		/api/profiles/industry/{industry} [get]
func (h *handlers) profilesByIndustry(w http.ResponseWriter, r *http.Request) {
	industry := chi.URLParam(r, "industry")
	found, err := h.deps.Service.ByIndustry(industry, parseIntParam(r, "limit", defaultListLimit, maxListLimit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"industry": industry, "profiles": found, "count": len(found)})
}

// getProfile godoc
//
//	@Summary	Get a stored profile
//	@Tags		profiles
//	@Produce	json
//	@Param		id	path		string	true	"profile id"
//	@Success	200	{object}	profile.Profile
//	@Failure	404	{object}	map[string]interface{}
//	@Router		/api/profiles/{id} [get]
func (h *handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.Service.Profile(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// similarProfiles godoc
//
//	@Summary	Stored profiles sharing a profile's industry or role
//	@Tags		profiles
//	@Produce	json
//	@Param		id		path		string	true	"profile id"
//	@Param		limit	query		int		false	"max results"
//	@Success	200		{object}	map[string]interface{}
//	@Failure	404		{object}	map[string]interface{}
//	@Router		/api/profiles/{id}/similar [get]
func (h *handlers) similarProfiles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	found, err := h.deps.Service.Similar(id, parseIntParam(r, "limit", 5, maxListLimit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile_id": id, "similar_profiles": found, "count": len(found)})
}

// profileMessages godoc
//
//	@Summary	Messages generated for a profile, newest first
//	@Tags		outreach
//	@Produce	json
//	@Param		id		path		string	true	"profile id"
//	@Param		limit	query		int		false	"max results"
//	@Success	200		{object}	map[string]interface{}
//	@Failure	404		{object}	map[string]interface{}
//	@Router		/api/profiles/{id}/messages [get]
func (h *handlers) profileMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	msgs, err := h.deps.Service.Messages(id, parseIntParam(r, "limit", defaultListLimit, maxListLimit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile_id": id, "messages": msgs, "count": len(msgs)})
}

// stats godoc
//
//	@Summary	Store statistics
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	pipeline.Stats
//	@Router		/api/stats [get]
func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.Service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// exportProfiles godoc
//
//	@Summary	Download every stored profile as JSON
//	@Tags		profiles
//	@Produce	json
//	@Success	200
//	@Router		/api/profiles/export [get]
func (h *handlers) exportProfiles(w http.ResponseWriter, r *http.Request) {
	name := fmt.Sprintf("profiles_export_%s.json", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	n, err := h.deps.Service.Export(w)
	if err != nil {
		// Headers are already sent; the truncated body is the only signal.
		slog.Error("api: export failed", "written", n, "error", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, errInvalidRequest, "invalid request body: %v", err)
		return false
	}
	return true
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
