package auth

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/capintel/portfolio-engine/pkg/apperrors"
	"github.com/capintel/portfolio-engine/pkg/logging"
)

// Common authentication errors. Both wrap apperrors.ErrUnauthorized so
// callers can treat any credential failure uniformly with errors.Is.
var (
	ErrMissingAuthorization = fmt.Errorf("%w: missing authorization", apperrors.ErrUnauthorized)
	ErrInvalidAuthFormat    = fmt.Errorf("%w: invalid authorization header format", apperrors.ErrUnauthorized)
)

// AuthService resolves a request to a gated identity. The abstraction
// separates HTTP handling from validation logic and keeps both
// testable.
type AuthService interface {
	// ValidateRequest resolves the request's identity. It checks, in
	// order: the dashboard session cookie (browser clients that already
	// exchanged a token), then the Authorization header with "Bearer"
	// scheme (API clients). Unapproved accounts fail the gate with
	// apperrors.ErrNotApproved regardless of token validity.
	ValidateRequest(r *http.Request) (*Identity, error)

	// ExchangeToken validates a raw token and returns the gated
	// identity, for the session-establishing endpoint.
	ExchangeToken(tokenString string) (*Identity, error)
}

type authService struct {
	validator TokenValidator
	sessions  *SessionStore
	logger    *zap.Logger
}

// NewAuthService creates an AuthService over a token validator and the
// session store.
func NewAuthService(validator TokenValidator, sessions *SessionStore, logger *zap.Logger) AuthService {
	return &authService{
		validator: validator,
		sessions:  sessions,
		logger:    logger,
	}
}

func (s *authService) ValidateRequest(r *http.Request) (*Identity, error) {
	// Session cookie first: it only ever holds identities that already
	// passed the gate.
	if id, ok := s.sessions.Identity(r); ok {
		return id, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.logger.Debug("No session or token on request",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method))
		return nil, ErrMissingAuthorization
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		s.logger.Debug("Invalid Authorization header format",
			zap.String("path", r.URL.Path))
		return nil, ErrInvalidAuthFormat
	}

	return s.ExchangeToken(parts[1])
}

func (s *authService) ExchangeToken(tokenString string) (*Identity, error) {
	claims, err := s.validator.ValidateToken(tokenString)
	if err != nil {
		// Parse errors can quote the offending token; never log it raw.
		s.logger.Debug("Token validation failed",
			zap.String("reason", logging.SanitizeError(err)))
		return nil, err
	}

	if !claims.Approved() {
		s.logger.Debug("Account has not been approved",
			zap.String("email", claims.Email),
			zap.String("status", claims.Status))
		return nil, apperrors.ErrNotApproved
	}

	return &Identity{Email: claims.Email, Admin: claims.Admin}, nil
}

var _ AuthService = (*authService)(nil)
