package routes

import (
	"net/http"

	"squnch/preset"
)

// PresetsHandler lists the quality preset catalog.
func (h *Handlers) PresetsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"presets": preset.All()})
}
