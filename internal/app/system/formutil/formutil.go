// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a form submission fails validation, the form should be re-rendered with
// the admin's previously entered values, a message explaining what went
// wrong, and the per-field errors. Base is embedded in form data structs to
// carry the common fields.
//
// Example usage:
//
//	type contactData struct {
//		formutil.Base
//		Name  string
//		Email string
//	}
//
//	data := contactData{Name: name, Email: email}
//	formutil.SetBase(&data.Base, r, "Contact us", "/")
//	data.SetFieldErrors(errs)
//	templates.Render(w, r, "contact", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/institutehub/internal/app/system/formrules"
	"github.com/dalemusser/institutehub/internal/app/system/viewdata"
)

// Base contains common fields for form pages that can be embedded in form data structs.
type Base struct {
	viewdata.BaseVM
	Error       template.HTML
	Success     string
	FieldErrors formrules.Errors
}

// SetBase populates the common Base fields from the request.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
	if b.FieldErrors == nil {
		b.FieldErrors = formrules.Errors{}
	}
}

// SetError sets the error message on a Base struct.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// SetFieldErrors records per-field errors and, when there are any, a
// summary message.
func (b *Base) SetFieldErrors(errs formrules.Errors) {
	b.FieldErrors = errs
	if errs.Any() && b.Error == "" {
		b.SetError("Please fix the highlighted fields.")
	}
}

// FieldError returns the message for one field, for use in templates.
func (b Base) FieldError(field string) string {
	return b.FieldErrors.Get(field)
}
