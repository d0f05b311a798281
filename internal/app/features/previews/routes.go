// internal/app/features/previews/routes.go
package previews

import "github.com/go-chi/chi/v5"

// Routes mounts the preview endpoint. Callers wrap it in auth.RequireAdmin.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.Serve)
	return r
}
