package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tick-recorder/internal/recorder"
	"tick-recorder/internal/resolver"
)

// Supervisor is the recording control surface exposed over HTTP.
type Supervisor interface {
	Start(ctx context.Context, ticker, accessToken string) (recorder.SessionStatus, error)
	Stop(ticker string) error
	Sessions() []recorder.SessionStatus
}

// TokenValidator checks provider access tokens.
type TokenValidator interface {
	ValidateToken(ctx context.Context, accessToken string) (resolver.Profile, error)
}

// Handler carries the HTTP handler dependencies.
type Handler struct {
	supervisor Supervisor
	validator  TokenValidator
	logger     *slog.Logger
}

// NewHandler creates the API handler set.
func NewHandler(sv Supervisor, validator TokenValidator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{supervisor: sv, validator: validator, logger: logger}
}

// bearerToken extracts the access token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// StartRecording handles POST /api/v1/recordings/{ticker}/start.
func (h *Handler) StartRecording(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
		return
	}
	ticker := chi.URLParam(r, "ticker")

	status, err := h.supervisor.Start(r.Context(), ticker, token)
	if err != nil {
		h.logger.Warn("start recording failed", "ticker", ticker, "error", err)
		WriteJSON(w, startErrorStatus(err), ErrorResponse{Error: err.Error()})
		return
	}

	WriteJSON(w, http.StatusCreated, SuccessResponse{
		Message: "recording started",
		Data:    status,
	})
}

// startErrorStatus maps a supervisor start failure to an HTTP status.
func startErrorStatus(err error) int {
	switch {
	case errors.Is(err, recorder.ErrAlreadyRecording),
		errors.Is(err, recorder.ErrStopped):
		return http.StatusConflict
	case errors.Is(err, resolver.ErrInvalidFormat),
		errors.Is(err, resolver.ErrUnsupportedExchange):
		return http.StatusBadRequest
	case errors.Is(err, resolver.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, resolver.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, resolver.ErrNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, recorder.ErrNoData):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// StopRecording handles POST /api/v1/recordings/{ticker}/stop. Stopping
// an inactive ticker succeeds; the stop is idempotent.
func (h *Handler) StopRecording(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if err := h.supervisor.Stop(ticker); err != nil {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	WriteJSON(w, http.StatusOK, SuccessResponse{Message: "recording stopped"})
}

// ListRecordings handles GET /api/v1/recordings.
func (h *Handler) ListRecordings(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, SuccessResponse{
		Message: "live sessions",
		Data:    h.supervisor.Sessions(),
	})
}

// ValidateToken handles POST /api/v1/token/validate.
func (h *Handler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
		return
	}

	profile, err := h.validator.ValidateToken(r.Context(), token)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, resolver.ErrUnauthorized) {
			status = http.StatusUnauthorized
		}
		WriteJSON(w, status, ErrorResponse{Error: err.Error()})
		return
	}

	WriteJSON(w, http.StatusOK, SuccessResponse{
		Message: "token valid",
		Data:    profile,
	})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
