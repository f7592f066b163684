package routes

import "net/http"

// AnalyticsHandler returns the process-wide completed-job totals.
func (h *Handlers) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, h.Analytics.Summary())
}
