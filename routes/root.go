package routes

import "net/http"

// RootHandler is the API ready marker.
func (h *Handlers) RootHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Squnch API Ready"})
}
