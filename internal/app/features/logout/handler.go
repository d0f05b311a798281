// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/institutehub/internal/app/system/auth"
	"github.com/dalemusser/institutehub/internal/app/system/navigation"
	"go.uber.org/zap"
)

// Handler ends admin sessions.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Log: logger, SessionMgr: sessionMgr}
}

// afterSignOut returns the admin to the public page named by ?return=,
// never to a page that needs a session.
var afterSignOut = navigation.BackURLOptions{
	ExcludedPrefixes: []string{"/admin", "/account", "/previews", "/heartbeat", "/logout"},
	Fallback:         "/",
}

// ServeLogout ends the admin session. The session manager's sign-out hooks
// discard the admin's drafts and previews.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	username := ""
	if u, ok := auth.CurrentUser(r); ok {
		username = u.Username
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	h.Log.Info("admin signed out", zap.String("username", username))

	dest := navigation.SafeBackURL(r, afterSignOut)
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
