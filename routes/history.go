package routes

import (
	"net/http"
	"strings"

	"squnch/logger"
)

// HistoryHandler returns the durable audit record for a terminal job. Live
// job state is the progress endpoint's business, not this one's.
func (h *Handlers) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	fileID := strings.TrimPrefix(r.URL.Path, "/api/history/")
	if fileID == "" || strings.Contains(fileID, "/") {
		respondError(w, http.StatusNotFound, "Record not found")
		return
	}
	rec, err := h.History.Get(fileID)
	if err != nil {
		logger.Errorf("history lookup failed for %s: %v", fileID, err)
		respondError(w, http.StatusInternalServerError, "Failed to read history")
		return
	}
	if rec == nil {
		respondError(w, http.StatusNotFound, "Record not found")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}
