// internal/app/features/contact/handler.go
package contact

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/institutehub/internal/app/features/errors"
	"github.com/dalemusser/institutehub/internal/app/resources"
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/formrules"
	"github.com/dalemusser/institutehub/internal/app/system/formutil"
	"github.com/dalemusser/institutehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/institutehub/internal/app/system/ratelimit"
	"github.com/dalemusser/institutehub/internal/app/system/timeouts"
	"github.com/dalemusser/institutehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Enquirer creates a student enquiry on the content API.
type Enquirer interface {
	Create(ctx context.Context, p apiclient.Payload) (models.StudentContact, error)
}

// Fields in the order they are validated and sent. The form calls the
// phone number "contact"; the API field is "phone".
var fields = []string{"name", "email", "phone", "place", "message"}

var rules = formrules.Ruleset{
	"name":    {Required: true, RequiredMessage: "Name is required", MaxLen: 100},
	"email":   {Required: true, RequiredMessage: "Email is required", Format: formrules.FormatEmail},
	"phone":   {Required: true, RequiredMessage: "Contact number is required", Format: formrules.FormatPhone10},
	"place":   {Required: true, RequiredMessage: "Place is required", MaxLen: 100},
	"message": {Required: true, RequiredMessage: "Message is required", MaxLen: 2000},
}

const sentMessage = "We will contact you shortly!"

type formData struct {
	formutil.Base
	Values map[string]string
}

type Handler struct {
	API     Enquirer
	Limiter *ratelimit.Limiter
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler builds a contact handler that posts anonymously through api.
// A nil limiter disables throttling.
func NewHandler(api *apiclient.Transport, limiter *ratelimit.Limiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		API:     resources.Contacts.Public(api),
		Limiter: limiter,
		ErrLog:  errLog,
		Log:     logger,
	}
}

// ServeContact renders GET /contact.
func (h *Handler) ServeContact(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, formData{Values: map[string]string{}})
}

// HandleContact validates and forwards POST /contact.
func (h *Handler) HandleContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "contact form parse failed", err, "The form could not be read.", "/contact")
		return
	}

	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f] = htmlsanitize.StripTags(strings.TrimSpace(r.PostFormValue(f)))
	}
	// The form labels the phone "contact".
	if values["phone"] == "" {
		values["phone"] = strings.TrimSpace(r.PostFormValue("contact"))
	}

	data := formData{Values: values}
	if errs := formrules.ValidateAll(values, rules); errs.Any() {
		data.SetFieldErrors(errs)
		h.render(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	if h.Limiter != nil && !h.Limiter.Allow(ratelimit.ClientIP(r)) {
		h.Log.Warn("contact form rate limited", zap.String("ip", ratelimit.ClientIP(r)))
		data.SetError("Too many messages. Please try again later.")
		h.render(w, r, http.StatusTooManyRequests, data)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.API(), h.Log, "contact submit")
	defer cancel()

	var p apiclient.Payload
	for _, f := range fields {
		p.Set(f, values[f])
	}
	if _, err := h.API.Create(ctx, p); err != nil {
		h.Log.Warn("contact submit failed", zap.Error(err))
		data.SetError(apiclient.UserMessage(err))
		status := http.StatusBadGateway
		if apiclient.IsClientError(err) {
			status = http.StatusBadRequest
		}
		h.render(w, r, status, data)
		return
	}

	h.Log.Info("contact enquiry sent", zap.String("place", values["place"]))
	done := formData{Values: map[string]string{}}
	done.Success = sentMessage
	h.render(w, r, http.StatusOK, done)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data formData) {
	formutil.SetBase(&data.Base, r, "Contact us", "/")
	w.WriteHeader(status)
	templates.Render(w, r, "contact", data)
}
