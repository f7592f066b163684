package routes

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"squnch/batch"
	"squnch/engine"
	"squnch/logger"
	"squnch/preset"
	"squnch/store"
)

const maxImageUpload = 32 << 20 // 32 MB

// CompressImageHandler compresses an uploaded image synchronously and
// returns the compressed bytes with size/ratio headers.
func (h *Handlers) CompressImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	started := time.Now()

	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to parse upload")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		// observed behavior keeps this a server error rather than a 4xx
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

	result, err := h.Images.Compress(fileID, data, p, batchID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateID):
			respondError(w, http.StatusConflict, "File id already in use")
		case errors.Is(err, engine.ErrUnsupportedFormat):
			respondError(w, http.StatusInternalServerError, "Unsupported or corrupt image")
		default:
			logger.Errorf("image compression failed for %s: %v", fileID, err)
			respondError(w, http.StatusInternalServerError, "Image compression failed")
		}
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("X-Original-Size", strconv.FormatInt(result.Job.OriginalSize, 10))
	w.Header().Set("X-Compression-Ratio", strconv.Itoa(result.Job.CompressionRatio))
	w.Header().Set("X-Processing-Time", strconv.FormatInt(time.Since(started).Milliseconds(), 10))
	w.Header().Set("X-Format-Changed", fmt.Sprintf("%v", result.Job.FormatChanged))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		logger.Errorf("failed to write image response for %s: %v", fileID, err)
	}
}
