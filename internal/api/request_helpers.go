package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/api/shared"
	"github.com/internbook/internbook-api/internal/domain"
	"github.com/internbook/internbook-api/internal/platform/logger"
)

// getInternIDFromContext extracts the verified intern id placed in the
// request context by the request gate.
func getInternIDFromContext(r *http.Request) (uuid.UUID, bool) {
	internID, ok := r.Context().Value(shared.InternIDContextKey).(uuid.UUID)
	if !ok || internID == uuid.Nil {
		return uuid.Nil, false
	}
	return internID, true
}

// getPathUUID parses the chi path parameter paramName as a UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// requireInternID writes a 401 and returns false when the request carries
// no verified intern id.
func requireInternID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	internID, ok := getInternIDFromContext(r)
	if !ok {
		log.Warn("intern ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return internID, true
}

// handleInternIDAndPathUUID extracts both the verified intern id and the
// path UUID, writing an error response if either is missing.
func handleInternIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	internID, ok := requireInternID(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Warn("invalid "+paramName,
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return internID, pathID, true
}

// decodeAndValidate decodes the JSON body into req and validates it,
// writing a 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
