// internal/app/features/errors/logger.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"go.uber.org/zap"
)

// ErrorLogger logs a handler failure with request context and renders the
// matching friendly page.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger wraps logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
}

// LogServerError logs at Error and renders a 500 page with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Error(msg, e.fields(r, err)...)
	RenderServerError(w, r, userMsg, backURL)
}

// LogBadRequest logs at Warn and renders a 400 page with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg, e.fields(r, err)...)
	RenderBadRequest(w, r, userMsg, backURL)
}

// LogForbidden logs at Warn and renders a 403 page with userMsg.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg, e.fields(r, err)...)
	RenderForbidden(w, r, userMsg, backURL)
}

// LogAPIError handles a failed content API call: a rejected session goes
// back to login, a missing record gets a 404, anything else a 502 with the
// API's own message where it sent one.
func (e *ErrorLogger) LogAPIError(w http.ResponseWriter, r *http.Request, msg string, err error, backURL string) {
	switch {
	case stderrors.Is(err, apiclient.ErrUnauthorized):
		e.log.Info(msg, e.fields(r, err)...)
		RenderUnauthorized(w, r)
	case stderrors.Is(err, apiclient.ErrNotFound):
		e.log.Warn(msg, e.fields(r, err)...)
		RenderNotFound(w, r, apiclient.UserMessage(err), backURL)
	default:
		e.log.Error(msg, e.fields(r, err)...)
		RenderUnavailable(w, r, apiclient.UserMessage(err), backURL)
	}
}
