// internal/app/features/userinfo/handler.go
package userinfo

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/institutehub/internal/app/system/auth"
)

// Handler reports who is signed in to the console.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

type userInfo struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Username        string `json:"username"`
}

// ServeUserInfo returns JSON with the current admin's sign-in status.
//
// Response format:
//
//	{ "isAuthenticated": bool, "username": "..." }
//
// The admin page uses it to decide whether to keep sending heartbeats.
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	var info userInfo
	if u, ok := auth.CurrentUser(r); ok {
		info = userInfo{IsAuthenticated: true, Username: u.Username}
	}
	_ = json.NewEncoder(w).Encode(info)
}
