package httpapi

import (
	"net/http"

	"jdparse-engine/internal/domain"
)

type HealthHandler struct{}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Schema serves the JSON Schema of the records /parse returns.
func (h HealthHandler) Schema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(domain.Schema())
}
