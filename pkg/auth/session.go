package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the name of the dashboard session cookie.
const SessionName = "portfolio-session"

// Session value keys.
const (
	sessionKeyEmail = "email"
	sessionKeyAdmin = "admin"
)

// SessionStore issues and reads the signed cookie that carries an
// already-gated identity between requests, so browser clients present
// their token once and hold a session afterwards.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore initializes the cookie-based session store.
//
// The secret can be any passphrase - it is SHA-256 hashed to derive a
// 32-byte signing key. It must be consistent across restarts and across
// replicas behind a load balancer.
//
// Security settings:
// - HttpOnly: true (inaccessible to JavaScript)
// - Secure: true (HTTPS only in production)
// - SameSite: Strict (prevents CSRF)
func NewSessionStore(secret string) *SessionStore {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   12 * 60 * 60, // one working day
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	return &SessionStore{store: store}
}

// Establish writes the identity into a fresh session cookie. Only
// identities that already passed the approval gate reach this point.
func (s *SessionStore) Establish(w http.ResponseWriter, r *http.Request, id *Identity) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		// A stale or tampered cookie decodes to an error plus a fresh
		// session; the fresh session is what gets written.
		session, _ = s.store.New(r, SessionName)
	}
	session.Values[sessionKeyEmail] = id.Email
	session.Values[sessionKeyAdmin] = id.Admin
	return session.Save(r, w)
}

// Identity reads the identity from the request's session cookie.
// Returns false when no valid session exists.
func (s *SessionStore) Identity(r *http.Request) (*Identity, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil || session.IsNew {
		return nil, false
	}

	email, ok := session.Values[sessionKeyEmail].(string)
	if !ok || email == "" {
		return nil, false
	}
	admin, _ := session.Values[sessionKeyAdmin].(bool)
	return &Identity{Email: email, Admin: admin}, true
}

// Clear expires the session cookie.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		session, _ = s.store.New(r, SessionName)
	}
	session.Options.MaxAge = -1
	session.Values = make(map[interface{}]interface{})
	return session.Save(r, w)
}
