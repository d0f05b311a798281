// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/institutehub/internal/app/features/errors"
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/auth"
	"github.com/dalemusser/institutehub/internal/app/system/formrules"
	"github.com/dalemusser/institutehub/internal/app/system/ratelimit"
	"github.com/dalemusser/institutehub/internal/app/system/timeouts"
	"github.com/dalemusser/institutehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// Authenticator exchanges admin credentials for an API session.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (apiclient.Credentials, error)
}

type Handler struct {
	API        Authenticator
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error       string
	FieldErrors formrules.Errors
	Username    string
	ReturnURL   string
}

var loginRules = formrules.Ruleset{
	"username": {Required: true, RequiredMessage: "Username is required"},
	"password": {Required: true, RequiredMessage: "Password is required"},
}

// NewHandler constructs a login Handler. limiter may be nil to disable
// throttling.
func NewHandler(api Authenticator, sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		API:        api,
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		ErrLog:     errLog,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/admin"), http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Admin login", "/"),
		ReturnURL: ret,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if errs := formrules.ValidateAll(map[string]string{"username": username, "password": password}, loginRules); errs.Any() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "", errs, username)
		return
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, username); !ok {
			h.Log.Warn("login rate limited",
				zap.String("username", username),
				zap.String("ip", ratelimit.ClientIP(r)))
			h.renderForm(w, r, http.StatusTooManyRequests, msg, nil, username)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	creds, err := h.API.Login(ctx, username, password)
	switch {
	case err == nil:
	case apiclient.IsClientError(err):
		h.Log.Info("login rejected", zap.String("username", username), zap.Error(err))
		h.renderForm(w, r, http.StatusUnauthorized, apiclient.UserMessage(err), nil, username)
		return
	default:
		h.Log.Error("login call failed", zap.String("username", username), zap.Error(err))
		h.renderForm(w, r, http.StatusBadGateway, apiclient.UserMessage(err), nil, username)
		return
	}
	if creds.Empty() {
		h.Log.Error("login returned no session", zap.String("username", username))
		h.renderForm(w, r, http.StatusBadGateway, "The server did not start a session. Please try again.", nil, username)
		return
	}

	if _, err := h.SessionMgr.SignIn(w, r, username, creds); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("username", username))
		h.renderForm(w, r, http.StatusInternalServerError, "Unable to create session. Please try again.", nil, username)
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetUser(username)
	}
	h.Log.Info("admin signed in", zap.String("username", username))

	dest := urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "/admin")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, msg string, errs formrules.Errors, username string) {
	// From POST, "return" will be in the form; from GET, we might rely on the query.
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}
	if msg == "" && errs.Any() {
		msg = errs.First()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.Render(w, r, "login", loginFormData{
		BaseVM:      viewdata.NewBaseVM(r, "Admin login", "/"),
		Error:       msg,
		FieldErrors: errs,
		Username:    username,
		ReturnURL:   ret,
	})
}
