// internal/app/features/admin/handler.go
package admin

import (
	stderrors "errors"
	"net/http"

	uierrors "github.com/dalemusser/institutehub/internal/app/features/errors"
	"github.com/dalemusser/institutehub/internal/app/resources"
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// defaultMaxUpload bounds a whole form post; the largest form carries three images.
const defaultMaxUpload = 24 << 20

// Handler serves the admin console for every resource in the catalogue.
type Handler struct {
	Deps      resources.Deps
	Bindings  []resources.Binding
	Sessions  *auth.SessionManager
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
	MaxUpload int64
}

// NewHandler constructs an admin Handler. sessions may be nil in tests.
func NewHandler(deps resources.Deps, bindings []resources.Binding, sessions *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.BasePath == "" {
		deps.BasePath = "/admin"
	}
	return &Handler{
		Deps:      deps,
		Bindings:  bindings,
		Sessions:  sessions,
		Log:       logger,
		ErrLog:    errLog,
		MaxUpload: defaultMaxUpload,
	}
}

// open resolves the {resource} URL parameter and the admin's editor for it.
// It writes the response and returns ok=false when either is missing.
func (h *Handler) open(w http.ResponseWriter, r *http.Request) (resources.Session, bool) {
	key := chi.URLParam(r, "resource")
	b, ok := resources.ByKey(h.Bindings, key)
	if !ok {
		uierrors.RenderNotFound(w, r, "There is no admin page called "+key+".", h.Deps.BasePath)
		return nil, false
	}
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return nil, false
	}
	return b.Open(h.Deps, u.SessionID, u.Credentials), true
}

func (h *Handler) pagePath(s resources.Session) string {
	return h.Deps.BasePath + "/" + s.Info().Key
}

// apiFailed handles an error from an editor call that reached the API. A
// rejected session signs the admin out. Other failures already queued a
// notice, so the admin goes back to the page to see it.
func (h *Handler) apiFailed(w http.ResponseWriter, r *http.Request, s resources.Session, op string, err error) {
	if stderrors.Is(err, apiclient.ErrUnauthorized) {
		h.Log.Info("admin session rejected by API", zap.String("resource", s.Info().Key), zap.String("op", op))
		if h.Sessions != nil {
			if serr := h.Sessions.SignOut(w, r); serr != nil {
				h.Log.Warn("sign out failed", zap.Error(serr))
			}
		}
		uierrors.RenderUnauthorized(w, r)
		return
	}
	h.Log.Warn("admin operation failed",
		zap.String("resource", s.Info().Key),
		zap.String("op", op),
		zap.Error(err))
	h.redirect(w, r, h.pagePath(s))
}

// redirect sends the browser to path, using HX-Redirect for htmx requests.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
