package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"squnch/batch"
)

type batchStartRequest struct {
	FileCount int   `json:"fileCount"`
	TotalSize int64 `json:"totalSize"`
}

// BatchStartHandler opens a new batch expecting the declared number of
// member jobs.
func (h *Handlers) BatchStartHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req batchStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FileCount <= 0 {
		respondError(w, http.StatusBadRequest, "fileCount must be positive")
		return
	}
	b := h.Batches.Start(req.FileCount, req.TotalSize)
	respondJSON(w, http.StatusOK, map[string]string{"batchId": b.BatchID})
}

// BatchProgressHandler returns the batch aggregate snapshot. Polling never
// mutates counts.
func (h *Handlers) BatchProgressHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	batchID := strings.TrimPrefix(r.URL.Path, "/api/batch/progress/")
	if batchID == "" || strings.Contains(batchID, "/") {
		respondError(w, http.StatusNotFound, "Batch not found")
		return
	}
	b, err := h.Batches.Get(batchID)
	if err != nil {
		if errors.Is(err, batch.ErrUnknownBatch) {
			respondError(w, http.StatusNotFound, "Batch not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to read batch")
		return
	}
	respondJSON(w, http.StatusOK, b)
}
