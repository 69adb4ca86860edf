// Package api exposes the outreach service over HTTP and MCP.
//
//	@title			coldreach API
//	@version		1.0
//	@description	Profile analysis and multi-channel cold outreach generation.
//	@BasePath		/
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/kalambet/coldreach/internal/api/docs"
	"github.com/kalambet/coldreach/internal/pipeline"
)

const (
	maxRequestBodySize = 1 << 20  // 1MB
	maxPDFBodySize     = 10 << 20 // 10MB
	defaultListLimit   = 20
	maxListLimit       = 100
)

// Backend is the generation backend as seen by the health check.
type Backend interface {
	Name() string
	Model() string
	IsRunning(ctx context.Context) bool
}

// Deps holds the dependencies of the HTTP handler. Backend may be nil.
type Deps struct {
	Service *pipeline.Service
	Backend Backend
	Version string
	Started time.Time
}

// NewHandler returns the HTTP API.
func NewHandler(d Deps) http.Handler {
	if d.Started.IsZero() {
		d.Started = time.Now()
	}
	h := &handlers{deps: d}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Get("/demo-profiles", h.demoProfiles)
		r.Post("/analyze-profile", h.analyzeProfile)
		r.Post("/analyze-pdf", h.analyzePDF)
		r.Post("/generate-outreach", h.generateOutreach)
		r.Get("/stats", h.stats)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/search", h.searchProfiles)
			r.Get("/semantic", h.semanticSearch)
			r.Get("/export", h.exportProfiles)
			r.Get("/industry/{industry}", h.profilesByIndustry)
			r.Get("/{id}", h.getProfile)
			r.Get("/{id}/similar", h.similarProfiles)
			r.Get("/{id}/messages", h.profileMessages)
		})
	})

	return r
}
