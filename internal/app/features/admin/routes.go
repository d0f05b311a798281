// internal/app/features/admin/routes.go
package admin

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the admin router. Callers wrap it in auth.RequireAdmin.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Dashboard)
	r.Get("/{resource}", h.Page)
	r.Post("/{resource}", h.Save)
	r.Post("/{resource}/cancel", h.Cancel)
	r.Get("/{resource}/{id}/edit", h.Edit)
	r.Get("/{resource}/{id}/delete", h.ConfirmDelete)
	r.Post("/{resource}/{id}/delete", h.Delete)
	r.Post("/{resource}/{id}/toggle", h.Toggle)
	return r
}
