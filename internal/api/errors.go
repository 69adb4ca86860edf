package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kalambet/coldreach/internal/composer"
	"github.com/kalambet/coldreach/internal/pipeline"
	"github.com/kalambet/coldreach/internal/profile"
	"github.com/kalambet/coldreach/internal/storage"
)

// Error types carried in the error envelope.
const (
	errInvalidRequest = "invalid_request_error"
	errNotFound       = "not_found_error"
	errGeneration     = "generation_error"
	errAPI            = "api_error"
)

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": fmt.Sprintf(format, args...),
			"type":    errType,
		},
	})
}

// writeServiceError maps a pipeline error onto a status code.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profile.ErrNormalization), errors.Is(err, pipeline.ErrInvalidInput):
		httpError(w, http.StatusBadRequest, errInvalidRequest, "%v", err)
	case errors.Is(err, storage.ErrNotFound):
		httpError(w, http.StatusNotFound, errNotFound, "%v", err)
	case errors.Is(err, composer.ErrGeneration):
		httpError(w, http.StatusBadGateway, errGeneration, "%v", err)
	default:
		httpError(w, http.StatusInternalServerError, errAPI, "%v", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
