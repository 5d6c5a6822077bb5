// internal/app/system/auth/auth.go

// Package auth annotates requests with a caller identity. Colloquy
// accepts two classes of caller: authenticated users (session cookie
// written by the external identity service, sharing the same signing
// key) and anonymous visitors (assigned a stable visitor id on first
// contact). Authorization beyond that split is the identity service's
// concern; every API operation here is open to both classes.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey    = "is_authenticated"
	userIDKey    = "user_id"
	userNameKey  = "user_name"
	visitorIDKey = "visitor_id"
)

// Caller identifies who issued a request.
type Caller struct {
	UserID    string // hex ObjectID when authenticated, "" otherwise
	Name      string
	VisitorID string // set for anonymous callers
}

// Authenticated reports whether the caller carries a user identity.
func (c *Caller) Authenticated() bool { return c != nil && c.UserID != "" }

type ctxKey string

const callerKey ctxKey = "caller"

// CurrentCaller returns the caller placed in context by LoadCaller.
func CurrentCaller(r *http.Request) (*Caller, bool) {
	c, ok := r.Context().Value(callerKey).(*Caller)
	return c, ok
}

// SessionManager reads and writes the caller cookie.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager. An empty
// key gets a random per-process key (dev only: sessions reset on
// restart); a short key is tolerated with a warning so local dev stays
// easy.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	key := []byte(sessionKey)
	switch {
	case sessionKey == "":
		if secure {
			return nil, fmt.Errorf("session key is empty; provide at least 32 random chars")
		}
		logger.Warn("session key is empty; using a random per-process key")
		key = securecookie.GenerateRandomKey(32)
	case len(sessionKey) < 32:
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// LoadCaller injects a Caller into the request context. Authenticated
// sessions carry the user id and display name; everyone else gets a
// visitor id, minted and persisted on first contact.
func (m *SessionManager) LoadCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.store.Get(r, m.name)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			c := &Caller{
				UserID: getString(sess, userIDKey),
				Name:   getString(sess, userNameKey),
			}
			next.ServeHTTP(w, withCaller(r, c))
			return
		}

		visitor := getString(sess, visitorIDKey)
		if visitor == "" {
			visitor = uuid.NewString()
			sess.Values[visitorIDKey] = visitor
			if err := sess.Save(r, w); err != nil {
				m.log.Warn("saving visitor session failed", zap.Error(err))
			}
		}
		next.ServeHTTP(w, withCaller(r, &Caller{VisitorID: visitor}))
	})
}

// WithTestCaller returns r with caller injected. Test helper.
func WithTestCaller(r *http.Request, c *Caller) *http.Request {
	return withCaller(r, c)
}

func withCaller(r *http.Request, c *Caller) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), callerKey, c))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
