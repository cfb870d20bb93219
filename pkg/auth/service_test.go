package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/capintel/portfolio-engine/pkg/apperrors"
)

// stubValidator maps token strings to canned claims.
type stubValidator struct {
	claims map[string]*Claims
}

func (v *stubValidator) ValidateToken(token string) (*Claims, error) {
	c, ok := v.claims[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return c, nil
}

func newTestAuthService(sessions *SessionStore) AuthService {
	validator := &stubValidator{claims: map[string]*Claims{
		"approved-token": {Email: "viewer@example.com", Status: StatusApproved},
		"pending-token":  {Email: "newbie@example.com", Status: StatusPending},
		"admin-token":    {Email: "admin@example.com", Status: StatusApproved, Admin: true},
	}}
	return NewAuthService(validator, sessions, zap.NewNop())
}

func TestExchangeToken(t *testing.T) {
	svc := newTestAuthService(NewSessionStore("secret"))

	id, err := svc.ExchangeToken("approved-token")
	require.NoError(t, err)
	assert.Equal(t, "viewer@example.com", id.Email)
	assert.False(t, id.Admin)

	id, err = svc.ExchangeToken("admin-token")
	require.NoError(t, err)
	assert.True(t, id.Admin)
}

func TestExchangeTokenPendingAccount(t *testing.T) {
	svc := newTestAuthService(NewSessionStore("secret"))

	_, err := svc.ExchangeToken("pending-token")
	require.ErrorIs(t, err, apperrors.ErrNotApproved)
}

func TestExchangeTokenInvalid(t *testing.T) {
	svc := newTestAuthService(NewSessionStore("secret"))

	_, err := svc.ExchangeToken("garbage")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotApproved)
}

func TestValidateRequestBearer(t *testing.T) {
	svc := newTestAuthService(NewSessionStore("secret"))

	r := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
	r.Header.Set("Authorization", "Bearer approved-token")

	id, err := svc.ValidateRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "viewer@example.com", id.Email)
}

func TestValidateRequestHeaderErrors(t *testing.T) {
	svc := newTestAuthService(NewSessionStore("secret"))

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"missing", "", ErrMissingAuthorization},
		{"wrong scheme", "Basic abc", ErrInvalidAuthFormat},
		{"no token", "Bearer", ErrInvalidAuthFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			_, err := svc.ValidateRequest(r)
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized, "credential failures share one sentinel")
		})
	}
}

func TestValidateRequestSessionCookie(t *testing.T) {
	sessions := NewSessionStore("secret")
	svc := newTestAuthService(sessions)

	// Establish a session, then replay its cookie on a fresh request.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	require.NoError(t, sessions.Establish(w, r, &Identity{Email: "viewer@example.com"}))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}

	id, err := svc.ValidateRequest(next)
	require.NoError(t, err)
	assert.Equal(t, "viewer@example.com", id.Email)
}
