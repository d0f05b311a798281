// internal/app/features/account/routes.go
package account

import "github.com/go-chi/chi/v5"

// Routes returns the account router. Callers wrap it in auth.RequireAdmin.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/password", h.ServeChangePassword)
	r.Post("/password", h.HandleChangePassword)
	return r
}
