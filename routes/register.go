package routes

import (
	"encoding/json"
	"net/http"

	"squnch/analytics"
	"squnch/artifact"
	"squnch/batch"
	"squnch/engine"
	"squnch/history"
	"squnch/logger"
	"squnch/store"
)

// Handlers holds the process-scoped state objects every endpoint reads or
// writes through. Wired once in main.
type Handlers struct {
	Jobs      *store.Store
	Batches   *batch.Tracker
	Analytics *analytics.Tracker
	Artifacts *artifact.Resolver
	History   *history.Store
	Images    *engine.ImageEngine
	Videos    *engine.VideoEngine
}

// Register attaches every API route to mux. Unmatched paths fall through to
// the JSON 404 handler.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api", h.RootHandler)
	mux.HandleFunc("/api/compress/image", h.CompressImageHandler)
	mux.HandleFunc("/api/compress/video", h.CompressVideoHandler)
	mux.HandleFunc("/api/compress/progress/", h.ProgressHandler)
	mux.HandleFunc("/api/download/", h.DownloadHandler)
	mux.HandleFunc("/api/quality-presets", h.PresetsHandler)
	mux.HandleFunc("/api/batch/start", h.BatchStartHandler)
	mux.HandleFunc("/api/batch/progress/", h.BatchProgressHandler)
	mux.HandleFunc("/api/analytics/summary", h.AnalyticsHandler)
	mux.HandleFunc("/api/history/", h.HistoryHandler)
	mux.HandleFunc("/api/health", h.HealthHandler)
	mux.HandleFunc("/", notFoundHandler)
}

// WithCORS wraps the mux with permissive CORS headers on every response,
// including OPTIONS preflight.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("unmatched route: %s %s", r.Method, r.URL.Path)
	respondError(w, http.StatusNotFound, "Route not found")
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Errorf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
