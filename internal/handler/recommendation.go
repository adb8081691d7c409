package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/i211534/movieapp-recommendations/internal/domain"
	"github.com/i211534/movieapp-recommendations/internal/service"
)

// GET /users/{userID}/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	// Absent limit defaults; an explicit out-of-range value is the
	// caller's problem. Values above the cap are clamped downstream, not
	// rejected.
	limit := service.DefaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	result, err := h.service.GetRecommendations(r.Context(), userID, limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidUserID):
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid userId parameter")
		case errors.Is(err, domain.ErrInvalidLimit):
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
		// Checked before the catalog mapping: a cancelled request shows
		// up wrapped in the catalog error chain too.
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
		case errors.Is(err, domain.ErrCatalogUnavailable):
			writeError(w, http.StatusServiceUnavailable, "catalog_unavailable",
				"Movie catalog is temporarily unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}
