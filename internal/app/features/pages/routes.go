// internal/app/features/pages/routes.go
package pages

import "github.com/go-chi/chi/v5"

// Each router is mounted at its own public path.

func (h *Handler) CoursesRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeCourses)
	return r
}

func (h *Handler) ServicesRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeServices)
	return r
}

func (h *Handler) FocusRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeFocus)
	return r
}

func (h *Handler) GalleryRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeGallery)
	return r
}

func (h *Handler) ResultsRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeResults)
	return r
}
