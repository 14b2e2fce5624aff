package api

import (
	"log/slog"
	"net/http"

	"github.com/internbook/internbook-api/internal/api/shared"
	"github.com/internbook/internbook-api/internal/service"
)

// InternHandler serves the public intern directory.
type InternHandler struct {
	interns service.InternService
	logger  *slog.Logger
}

// NewInternHandler creates a new InternHandler.
func NewInternHandler(interns service.InternService, logger *slog.Logger) *InternHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternHandler{
		interns: interns,
		logger:  logger.With(slog.String("component", "intern_handler")),
	}
}

// ListInterns handles GET /api/interns.
func (h *InternHandler) ListInterns(w http.ResponseWriter, r *http.Request) {
	interns, err := h.interns.ListInterns(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list interns")
		return
	}

	resp := make([]InternResponse, 0, len(interns))
	for _, i := range interns {
		resp = append(resp, internToResponse(i))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetIntern handles GET /api/interns/{id}.
func (h *InternHandler) GetIntern(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	intern, err := h.interns.GetIntern(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get intern")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, internToResponse(intern))
}
