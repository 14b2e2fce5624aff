package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/api/shared"
	"github.com/internbook/internbook-api/internal/platform/logger"
	"github.com/internbook/internbook-api/internal/service"
	"github.com/internbook/internbook-api/internal/service/auth"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	interns service.InternService
	tokens  auth.TokenService
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(interns service.InternService, tokens auth.TokenService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		interns: interns,
		tokens:  tokens,
		logger:  logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	intern, err := h.interns.Register(r.Context(), req.Name, req.Email, req.Department, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create intern")
		return
	}

	h.issueToken(w, r, http.StatusCreated, intern.ID)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	intern, err := h.interns.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate intern")
		return
	}

	h.issueToken(w, r, http.StatusOK, intern.ID)
}

// issueToken responds with a fresh token for internID.
func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, status int, internID uuid.UUID) {
	token, err := h.tokens.GenerateToken(r.Context(), internID)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to generate token",
			slog.String("intern_id", internID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}
	shared.RespondWithJSON(w, r, status, AuthResponse{InternID: internID, Token: token})
}
