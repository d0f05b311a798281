// internal/app/features/previews/handler.go
package previews

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/institutehub/internal/app/system/imageprep"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves staged image previews so the admin can see a resized image
// before it is uploaded.
type Handler struct {
	Store *imageprep.PreviewStore
	Log   *zap.Logger
}

// NewHandler constructs a previews Handler.
func NewHandler(store *imageprep.PreviewStore, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

// Serve writes the preview image for {id}.
// GET /previews/{id}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	img, ok := h.Store.Get(imageprep.Handle(chi.URLParam(r, "id")))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := w.Write(img.Data); err != nil {
		h.Log.Debug("preview write failed", zap.Error(err))
	}
}
