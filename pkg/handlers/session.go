package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/capintel/portfolio-engine/pkg/apperrors"
	"github.com/capintel/portfolio-engine/pkg/auth"
)

// SessionRequest is the body of POST /api/session: a token issued by
// the account service, to be exchanged for a cookie session.
type SessionRequest struct {
	Token string `json:"token"`
}

// SessionResponse confirms an established session.
type SessionResponse struct {
	Status   string        `json:"status"`
	Identity auth.Identity `json:"identity"`
}

// SessionHandler exchanges account-service tokens for dashboard
// sessions. It consumes the resolved authorization signal; it does not
// implement login, password storage or the approval workflow.
type SessionHandler struct {
	authService auth.AuthService
	sessions    *auth.SessionStore
	logger      *zap.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(authService auth.AuthService, sessions *auth.SessionStore, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		authService: authService,
		sessions:    sessions,
		logger:      logger,
	}
}

// RegisterRoutes registers the session handler's routes on the given mux.
func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/session", h.Establish)
	mux.HandleFunc("DELETE /api/session", h.Clear)
}

// Establish handles POST /api/session.
// Validates the presented token, requires an approved account, and
// sets the signed session cookie.
func (h *SessionHandler) Establish(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Token required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	id, err := h.authService.ExchangeToken(req.Token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotApproved) {
			if err := ErrorResponse(w, http.StatusForbidden, "not_approved", "Account is pending approval"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		if err := ErrorResponse(w, http.StatusUnauthorized, "invalid_token", "Token validation failed"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.sessions.Establish(w, r, id); err != nil {
		h.logger.Error("Failed to establish session", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to establish session"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, SessionResponse{Status: "success", Identity: *id}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Clear handles DELETE /api/session.
// Expires the session cookie. Always succeeds for idempotency.
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Debug("Failed to clear session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
