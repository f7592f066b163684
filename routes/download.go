package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"squnch/artifact"
	"squnch/logger"
)

// DownloadHandler serves the compressed artifact of a completed job. A job
// that exists but has not completed and an unknown id both answer 404; the
// error text tells pollers whether retrying can ever succeed.
func (h *Handlers) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	fileID := strings.TrimPrefix(r.URL.Path, "/api/download/")
	if fileID == "" || strings.Contains(fileID, "/") {
		respondError(w, http.StatusNotFound, "File not found")
		return
	}

	data, art, err := h.Artifacts.Resolve(fileID)
	if err != nil {
		switch {
		case errors.Is(err, artifact.ErrNotReady):
			respondError(w, http.StatusNotFound, "File not ready")
		case errors.Is(err, artifact.ErrNotFound):
			respondError(w, http.StatusNotFound, "File not found")
		default:
			logger.Errorf("download failed for %s: %v", fileID, err)
			respondError(w, http.StatusInternalServerError, "Failed to read file")
		}
		return
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.SuggestedFilename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Errorf("failed to write download for %s: %v", fileID, err)
	}
}
