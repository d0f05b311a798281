package userinfo_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/institutehub/internal/app/features/userinfo"
	"github.com/dalemusser/institutehub/internal/testutil"
	"github.com/go-chi/chi/v5"
)

type response struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Username        string `json:"username"`
}

func get(t *testing.T, req *http.Request) response {
	t.Helper()
	r := chi.NewRouter()
	userinfo.MountRoutes(r, userinfo.NewHandler())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response JSON: %v", err)
	}
	return resp
}

func TestServeUserInfo_Unauthenticated(t *testing.T) {
	resp := get(t, httptest.NewRequest(http.MethodGet, "/api/user", nil))
	if resp.IsAuthenticated || resp.Username != "" {
		t.Errorf("response = %+v, want anonymous", resp)
	}
}

func TestServeUserInfo_Admin(t *testing.T) {
	resp := get(t, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/user", testutil.Admin()))
	if !resp.IsAuthenticated || resp.Username != testutil.FakeUsername {
		t.Errorf("response = %+v", resp)
	}
}
