// internal/app/features/heartbeat/handler.go
package heartbeat

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/institutehub/internal/app/system/auth"
	"github.com/dalemusser/institutehub/internal/app/system/crudeditor"
	"github.com/dalemusser/institutehub/internal/app/system/imageprep"
	"go.uber.org/zap"
)

// Handler keeps a signed-in admin's drafts and staged previews from being
// swept while the admin page is open in a browser tab.
type Handler struct {
	Registry *crudeditor.Registry
	Previews *imageprep.PreviewStore
	Log      *zap.Logger
}

// NewHandler creates a new heartbeat handler.
func NewHandler(reg *crudeditor.Registry, previews *imageprep.PreviewStore, logger *zap.Logger) *Handler {
	return &Handler{Registry: reg, Previews: previews, Log: logger}
}

type heartbeatResponse struct {
	Editors  int `json:"editors"`
	Previews int `json:"previews"`
}

// ServeHeartbeat handles POST /heartbeat.
// The admin page posts here periodically; the response reports how many
// editors and previews were kept alive.
func (h *Handler) ServeHeartbeat(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok || u.SessionID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var resp heartbeatResponse
	resp.Editors = h.Registry.Touch(u.SessionID)
	if h.Previews != nil {
		resp.Previews = h.Previews.ExtendPrefix(u.SessionID + "/")
	}
	h.Log.Debug("heartbeat",
		zap.String("user", u.Username),
		zap.Int("editors", resp.Editors),
		zap.Int("previews", resp.Previews))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Log.Warn("heartbeat encode failed", zap.Error(err))
	}
}
