package routes

import (
	"net/http"
	"strings"
)

// ProgressHandler returns the latest job snapshot. It never blocks on the
// encode; pollers get whatever the background task has written so far.
func (h *Handlers) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	fileID := strings.TrimPrefix(r.URL.Path, "/api/compress/progress/")
	if fileID == "" || strings.Contains(fileID, "/") {
		respondError(w, http.StatusNotFound, "File not found")
		return
	}
	job, err := h.Jobs.Get(fileID)
	if err != nil {
		respondError(w, http.StatusNotFound, "File not found")
		return
	}
	respondJSON(w, http.StatusOK, job)
}
