// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey      = "is_authenticated"
	usernameKey    = "username"
	sessionIDKey   = "session_id"
	credentialsKey = "api_credentials"
	verifiedAtKey  = "verified_at"
)

// DefaultReverify is how often an admin session is re-checked against the API.
const DefaultReverify = 5 * time.Minute

// Verifier confirms that stored API credentials are still accepted.
type Verifier interface {
	Verify(ctx context.Context, creds apiclient.Credentials) error
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the signed-in admin. Credentials are the API session the
// console relays on every call.
type SessionUser struct {
	Username    string
	SessionID   string
	Credentials apiclient.Credentials
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects u into the request context, as LoadSessionUser does.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the admin cookie session.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
	now   func() time.Time

	mu        sync.RWMutex
	verifier  Verifier
	reverify  time.Duration
	onSignOut []func(sessionID string)
}

// NewSessionManager builds the cookie store. In production (secure=true)
// cookies are Secure + SameSite=None; in local dev over http they are Lax.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "institutehub-session"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{
		store:    store,
		name:     name,
		log:      logger,
		now:      time.Now,
		reverify: DefaultReverify,
	}, nil
}

// SetVerifier enables periodic re-verification in RequireAdmin. A
// non-positive interval uses DefaultReverify.
func (sm *SessionManager) SetVerifier(v Verifier, every time.Duration) {
	if every <= 0 {
		every = DefaultReverify
	}
	sm.mu.Lock()
	sm.verifier = v
	sm.reverify = every
	sm.mu.Unlock()
}

// OnSignOut registers fn to run with the session id whenever a session ends.
func (sm *SessionManager) OnSignOut(fn func(sessionID string)) {
	sm.mu.Lock()
	sm.onSignOut = append(sm.onSignOut, fn)
	sm.mu.Unlock()
}

// Store exposes the cookie store (used to mirror options when deleting).
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// Name is the session cookie name.
func (sm *SessionManager) Name() string { return sm.name }

// GetSession returns the request's session. On a decode error a fresh
// session is still returned alongside the error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// SignIn starts an admin session holding the API credentials.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, username string, creds apiclient.Credentials) (*SessionUser, error) {
	sess, _ := sm.GetSession(r)
	u := &SessionUser{Username: username, SessionID: uuid.NewString(), Credentials: creds}
	sess.Values[isAuthKey] = true
	sess.Values[usernameKey] = u.Username
	sess.Values[sessionIDKey] = u.SessionID
	sess.Values[credentialsKey] = creds.Encode()
	sess.Values[verifiedAtKey] = sm.now().Unix()
	if err := sess.Save(r, w); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return u, nil
}

// UpdateCredentials stores refreshed API credentials for the signed-in admin.
func (sm *SessionManager) UpdateCredentials(w http.ResponseWriter, r *http.Request, creds apiclient.Credentials) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		return err
	}
	sess.Values[credentialsKey] = creds.Encode()
	return sess.Save(r, w)
}

// SignOut deletes the session cookie and runs the OnSignOut hooks.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.log.Warn("session decode failed during sign-out", zap.Error(err))
	}
	id := getString(sess, sessionIDKey)

	// Ensure the deletion-cookie matches the original store settings.
	if opts := sm.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	saveErr := sess.Save(r, w)

	if id != "" {
		sm.mu.RLock()
		hooks := append([]func(string){}, sm.onSignOut...)
		sm.mu.RUnlock()
		for _, fn := range hooks {
			fn(id)
		}
	}
	return saveErr
}

// LoadSessionUser injects the user into context if they are logged in.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sm.GetSession(r)
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				Username:    getString(sess, usernameKey),
				SessionID:   getString(sess, sessionIDKey),
				Credentials: apiclient.DecodeCredentials(getString(sess, credentialsKey)),
			}
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		redirectToLogin(w, r)
	})
}

// RequireAdmin is RequireSignedIn plus a periodic check that the API still
// accepts the session. A rejected session is signed out.
func (sm *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.mu.RLock()
		v, every := sm.verifier, sm.reverify
		sm.mu.RUnlock()
		if v == nil {
			next.ServeHTTP(w, r)
			return
		}

		sess, _ := sm.GetSession(r)
		last, _ := sess.Values[verifiedAtKey].(int64)
		if sm.now().Sub(time.Unix(last, 0)) < every {
			next.ServeHTTP(w, r)
			return
		}

		u, _ := CurrentUser(r)
		err := v.Verify(r.Context(), u.Credentials)
		switch {
		case err == nil:
			sess.Values[verifiedAtKey] = sm.now().Unix()
			if err := sess.Save(r, w); err != nil {
				sm.log.Warn("save session after verify", zap.Error(err))
			}
		case errors.Is(err, apiclient.ErrUnauthorized):
			sm.log.Info("admin session rejected by API", zap.String("username", u.Username))
			if err := sm.SignOut(w, r); err != nil {
				sm.log.Warn("sign-out after rejected session", zap.Error(err))
			}
			redirectToLogin(w, r)
			return
		default:
			// The API is unreachable; let the request through and let
			// the page report the failure.
			sm.log.Warn("session verify failed", zap.Error(err))
		}
		next.ServeHTTP(w, r)
	}))
}

// helpers

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(currentURI(r))

	// HTMX: full-page client redirect (no partial swap)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// Browser/HTML: go to login and preserve return
	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}

	// Non-HTML (API) callers: plain 401
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if s == nil {
		return ""
	}
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
