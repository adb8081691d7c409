package handler

import (
	"encoding/json"
	"net/http"

	"github.com/i211534/movieapp-recommendations/internal/health"
	"github.com/i211534/movieapp-recommendations/internal/service"
)

type Handler struct {
	service  *service.Service
	reporter *health.Reporter
}

func NewHandler(svc *service.Service, reporter *health.Reporter) *Handler {
	return &Handler{service: svc, reporter: reporter}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
