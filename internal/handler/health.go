package handler

import "net/http"

// GET /recommendations/health
//
// Reports scoring-engine liveness. Always 200; the status field carries
// the verdict. This endpoint is the only place engine unavailability is
// visible to callers.
func (h *Handler) GetRecommendationHealth(w http.ResponseWriter, r *http.Request) {
	status := h.reporter.Check(r.Context())
	writeJSON(w, http.StatusOK, status)
}
