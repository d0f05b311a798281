// internal/app/features/account/handler.go
package account

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/institutehub/internal/app/features/errors"
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/auth"
	"github.com/dalemusser/institutehub/internal/app/system/formrules"
	"github.com/dalemusser/institutehub/internal/app/system/formutil"
	"github.com/dalemusser/institutehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// PasswordChanger changes the admin password on the API.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, creds apiclient.Credentials, username, current, next string) (string, error)
}

type Handler struct {
	API        PasswordChanger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(api PasswordChanger, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{API: api, SessionMgr: sessionMgr, ErrLog: errLog, Log: logger}
}

type passwordFormData struct {
	formutil.Base
	Username string
}

var passwordRules = formrules.Ruleset{
	"username":        {Required: true, RequiredMessage: "Username is required"},
	"currentPassword": {Required: true, RequiredMessage: "Current password is required"},
	"newPassword":     {Required: true, RequiredMessage: "New password is required", MinLen: 6, MaxLen: 128},
	"confirmPassword": {Required: true, RequiredMessage: "Please confirm the new password"},
}

// ServeChangePassword shows the form.
// GET /account/password
func (h *Handler) ServeChangePassword(w http.ResponseWriter, r *http.Request) {
	data := passwordFormData{}
	formutil.SetBase(&data.Base, r, "Change password", "/admin")
	if u, ok := auth.CurrentUser(r); ok {
		data.Username = u.Username
	}
	templates.Render(w, r, "account_password", data)
}

// HandleChangePassword submits the change to the API.
// POST /account/password
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/account/password")
		return
	}
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return
	}

	values := map[string]string{
		"username":        strings.TrimSpace(r.FormValue("username")),
		"currentPassword": r.FormValue("currentPassword"),
		"newPassword":     r.FormValue("newPassword"),
		"confirmPassword": r.FormValue("confirmPassword"),
	}
	data := passwordFormData{Username: values["username"]}
	formutil.SetBase(&data.Base, r, "Change password", "/admin")

	errs := formrules.ValidateAll(values, passwordRules)
	if !errs.Any() && values["newPassword"] != values["confirmPassword"] {
		errs = formrules.Errors{"confirmPassword": "Passwords do not match"}
	}
	if !errs.Any() && values["newPassword"] == values["currentPassword"] {
		errs = formrules.Errors{"newPassword": "New password must differ from the current one"}
	}
	if errs.Any() {
		data.SetFieldErrors(errs)
		h.render(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	msg, err := h.API.ChangePassword(ctx, u.Credentials, values["username"], values["currentPassword"], values["newPassword"])
	switch {
	case err == nil:
		h.Log.Info("admin password changed", zap.String("username", values["username"]))
		data.Success = msg
		h.render(w, r, http.StatusOK, data)
	case errors.Is(err, apiclient.ErrUnauthorized):
		h.Log.Info("password change rejected session", zap.String("username", u.Username))
		if serr := h.SessionMgr.SignOut(w, r); serr != nil {
			h.Log.Warn("sign out failed", zap.Error(serr))
		}
		uierrors.RenderUnauthorized(w, r)
	case apiclient.IsClientError(err):
		data.SetError(apiclient.UserMessage(err))
		h.render(w, r, http.StatusBadRequest, data)
	default:
		h.Log.Error("password change failed", zap.Error(err))
		data.SetError(apiclient.UserMessage(err))
		h.render(w, r, http.StatusBadGateway, data)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data passwordFormData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.Render(w, r, "account_password", data)
}
