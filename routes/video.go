package routes

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"squnch/batch"
	"squnch/engine"
	"squnch/logger"
	"squnch/preset"
	"squnch/store"
)

const maxVideoUpload = 512 << 20 // 512 MB

// CompressVideoHandler accepts a video upload, creates the job and returns
// immediately; the encode runs in the background and is polled via the
// progress endpoint.
func (h *Handlers) CompressVideoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxVideoUpload)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to parse upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Missing or unreadable file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	fileID := r.FormValue("fileId")
	if fileID == "" {
		fileID = uuid.NewString()
	}
	p := preset.Get(r.FormValue("qualityPreset"))
	batchID := r.FormValue("batchId")

	if batchID != "" {
		if err := h.Batches.Register(batchID, fileID); err != nil {
			if errors.Is(err, batch.ErrUnknownBatch) {
				respondError(w, http.StatusNotFound, "Batch not found")
				return
			}
			respondError(w, http.StatusInternalServerError, "Failed to register with batch")
			return
		}
	}

	job, err := h.Videos.Start(fileID, data, header.Filename, p, batchID)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrEmptyUpload):
			respondError(w, http.StatusInternalServerError, "Empty video upload")
		case errors.Is(err, store.ErrDuplicateID):
			respondError(w, http.StatusConflict, "File id already in use")
		default:
			logger.Errorf("video start failed for %s: %v", fileID, err)
			respondError(w, http.StatusInternalServerError, "Failed to start video compression")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Video compression started",
		"fileId":        job.FileID,
		"originalSize":  job.OriginalSize,
		"qualityPreset": job.QualityPreset,
	})
}
