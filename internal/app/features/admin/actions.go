// internal/app/features/admin/actions.go
package admin

import (
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	uierrors "github.com/dalemusser/institutehub/internal/app/features/errors"
	"github.com/dalemusser/institutehub/internal/app/resources"
	"github.com/dalemusser/institutehub/internal/app/system/crudeditor"
	"github.com/dalemusser/institutehub/internal/app/system/imageprep"
	"github.com/dalemusser/institutehub/internal/app/system/navigation"
	"github.com/dalemusser/institutehub/internal/app/system/timeouts"
	"github.com/dalemusser/institutehub/internal/app/system/viewdata"
	"github.com/dalemusser/institutehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Save applies a posted form to the draft. With action=preview the fields
// and images are staged only; otherwise the draft is submitted.
// POST /admin/{resource}
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	if s.Info().IsTable {
		uierrors.RenderNotFound(w, r, "This page has no form.", h.pagePath(s))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
	if err := parseForm(r, h.MaxUpload); err != nil {
		h.ErrLog.LogBadRequest(w, r, "admin form parse failed", err, "The form could not be read. Images may be too large.", h.pagePath(s))
		return
	}

	values := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		values[k] = r.PostForm.Get(k)
	}
	if err := s.SetFields(values); err != nil {
		if stderrors.Is(err, crudeditor.ErrBusy) {
			h.redirect(w, r, h.pagePath(s))
			return
		}
		h.apiFailed(w, r, s, "set fields", err)
		return
	}

	budget := timeouts.API()
	if r.MultipartForm != nil {
		budget = timeouts.Upload()
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), budget, h.Log, s.Info().Key+" save")
	defer cancel()

	for _, im := range s.Schema().Images {
		if r.PostForm.Get("clear_"+im.Field) == "on" {
			if err := s.ClearImage(im.Field); err != nil {
				h.Log.Warn("clear image failed", zap.String("field", im.Field), zap.Error(err))
			}
		}
		f, ok, err := formImage(r, im.Field)
		if err != nil {
			h.Log.Warn("image part unreadable", zap.String("field", im.Field), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		// Rejected images are reported on the field by the editor.
		if err := s.SelectImage(ctx, im.Field, f); err != nil && imageprep.Message(err) == "" {
			h.Log.Warn("image select failed", zap.String("field", im.Field), zap.Error(err))
		}
	}

	if r.PostForm.Get("action") == "preview" {
		h.redirect(w, r, h.pagePath(s))
		return
	}

	err := s.Submit(ctx)
	switch {
	case err == nil, stderrors.Is(err, crudeditor.ErrInvalid):
		h.redirect(w, r, h.pagePath(s))
	case stderrors.Is(err, crudeditor.ErrBusy):
		h.redirect(w, r, h.pagePath(s))
	default:
		h.apiFailed(w, r, s, "submit", err)
	}
}

// parseForm handles both multipart and urlencoded posts.
func parseForm(r *http.Request, limit int64) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(limit)
	}
	return r.ParseForm()
}

// formImage reads the uploaded file for field, if the admin chose one.
func formImage(r *http.Request, field string) (imageprep.File, bool, error) {
	if r.MultipartForm == nil {
		return imageprep.File{}, false, nil
	}
	file, hdr, err := r.FormFile(field)
	if stderrors.Is(err, http.ErrMissingFile) {
		return imageprep.File{}, false, nil
	}
	if err != nil {
		return imageprep.File{}, false, err
	}
	defer file.Close()
	if hdr.Size == 0 && hdr.Filename == "" {
		return imageprep.File{}, false, nil
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return imageprep.File{}, false, err
	}
	return imageprep.File{
		Field:       field,
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}, true, nil
}

// Cancel discards the draft.
// POST /admin/{resource}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	if err := s.Cancel(); err != nil {
		h.Log.Warn("cancel failed", zap.String("resource", s.Info().Key), zap.Error(err))
	}
	h.redirect(w, r, h.pagePath(s))
}

// Edit loads a listed record into the draft.
// GET /admin/{resource}/{id}/edit
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	info := s.Info()
	if info.IsTable || info.CreateOnly {
		uierrors.RenderNotFound(w, r, "These records cannot be edited.", h.pagePath(s))
		return
	}
	id := models.ID(chi.URLParam(r, "id"))
	if err := s.BeginEdit(id); err != nil {
		if !stderrors.Is(err, crudeditor.ErrNotFound) {
			h.apiFailed(w, r, s, "edit", err)
			return
		}
		// The list may be stale; fetch it once before giving up.
		if rerr := s.Refresh(r.Context()); rerr != nil {
			h.ErrLog.LogAPIError(w, r, "admin list failed", rerr, h.pagePath(s))
			return
		}
		if err := s.BeginEdit(id); err != nil {
			uierrors.RenderNotFound(w, r, "That record no longer exists.", h.pagePath(s))
			return
		}
	}
	h.redirect(w, r, h.pagePath(s))
}

type confirmData struct {
	viewdata.BaseVM
	Prompt    string
	ItemTitle string
	Action    string
	CancelURL string
}

// ConfirmDelete asks before deleting.
// GET /admin/{resource}/{id}/delete
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	if !s.Info().Deletable {
		uierrors.RenderNotFound(w, r, "These records cannot be deleted.", h.pagePath(s))
		return
	}
	id := models.ID(chi.URLParam(r, "id"))
	row, found := s.Find(id)
	if !found {
		if err := s.Refresh(r.Context()); err != nil {
			h.ErrLog.LogAPIError(w, r, "admin list failed", err, h.pagePath(s))
			return
		}
		if row, found = s.Find(id); !found {
			uierrors.RenderNotFound(w, r, "That record no longer exists.", h.pagePath(s))
			return
		}
	}
	vm := viewdata.NewBaseVM(r, "Delete "+s.Info().Title, h.pagePath(s))
	templates.Render(w, r, "admin_confirm", confirmData{
		BaseVM:    vm,
		Prompt:    s.Schema().ConfirmPrompt(),
		ItemTitle: row.Title,
		Action:    h.pagePath(s) + "/" + url.PathEscape(id.String()) + "/delete",
		CancelURL: vm.BackURL,
	})
}

// Delete removes a record. The admin confirmed on the GET page.
// POST /admin/{resource}/{id}/delete
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	if !s.Info().Deletable {
		uierrors.RenderNotFound(w, r, "These records cannot be deleted.", h.pagePath(s))
		return
	}
	id := models.ID(chi.URLParam(r, "id"))
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.API(), h.Log, s.Info().Key+" delete")
	defer cancel()
	if _, err := s.Delete(ctx, id, crudeditor.Confirmed); err != nil && !stderrors.Is(err, crudeditor.ErrBusy) {
		h.apiFailed(w, r, s, "delete", err)
		return
	}
	h.redirect(w, r, h.back(r, s))
}

// Toggle flips a record's active flag.
// POST /admin/{resource}/{id}/toggle
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	id := models.ID(chi.URLParam(r, "id"))
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.API(), h.Log, s.Info().Key+" toggle")
	defer cancel()
	err := s.ToggleActive(ctx, id)
	switch {
	case err == nil, stderrors.Is(err, crudeditor.ErrBusy):
		h.redirect(w, r, h.pagePath(s))
	case stderrors.Is(err, crudeditor.ErrNotSupported):
		uierrors.RenderNotFound(w, r, "These records have no active flag.", h.pagePath(s))
	default:
		h.apiFailed(w, r, s, "toggle", err)
	}
}

// back returns the table page the admin came from, keeping its query.
func (h *Handler) back(r *http.Request, s resources.Session) string {
	return navigation.SafeBackURL(r, navigation.AdminPage(h.pagePath(s)))
}
