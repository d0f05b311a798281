package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/institutehub/internal/app/resources"
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func newTestDeps(t *testing.T) (Deps, *testutil.FakeAPI) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	api.AddInstituteResources()
	deps, err := ConnectDB(context.Background(), &config.CoreConfig{Env: "dev"}, testAppConfig(api.URL()), zap.NewNop())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	t.Cleanup(deps.Sweeper.Stop)
	return deps, api
}

func TestConnectDB_RejectsBadBaseURL(t *testing.T) {
	_, err := ConnectDB(context.Background(), &config.CoreConfig{Env: "dev"}, testAppConfig("not a url"), zap.NewNop())
	if err == nil {
		t.Fatal("expected error for invalid api base url")
	}
}

func TestConnectDB_UnreachableAPIIsNotFatal(t *testing.T) {
	deps, err := ConnectDB(context.Background(), &config.CoreConfig{Env: "dev"}, testAppConfig("http://127.0.0.1:1"), zap.NewNop())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if deps.Transport == nil || deps.Registry == nil || deps.Previews == nil || deps.Sweeper == nil {
		t.Errorf("ConnectDB left a dependency nil: %+v", deps)
	}
}

func TestEnsureSchema_CatalogueKeysUnique(t *testing.T) {
	deps, _ := newTestDeps(t)
	if err := EnsureSchema(context.Background(), nil, AppConfig{}, deps, zap.NewNop()); err != nil {
		t.Errorf("EnsureSchema: %v", err)
	}
}

func TestRouter_Health(t *testing.T) {
	deps, _ := newTestDeps(t)
	h := newRouter(testAppConfig(""), deps, false, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["api"] != "reachable" {
		t.Errorf("api = %q, want reachable", body["api"])
	}
}

func TestRouter_AdminRequiresSignIn(t *testing.T) {
	deps, _ := newTestDeps(t)
	h := newRouter(testAppConfig(""), deps, false, zap.NewNop())

	for _, path := range []string{"/admin", "/admin/banners", "/account/password", "/previews/abc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept", "text/html")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Errorf("GET %s: status = %d, want 303", path, rec.Code)
			continue
		}
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?return=") {
			t.Errorf("GET %s: Location = %q, want /login?return=...", path, loc)
		}
	}
}

func TestRouter_UserInfoAnonymous(t *testing.T) {
	deps, _ := newTestDeps(t)
	h := newRouter(testAppConfig(""), deps, false, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		IsAuthenticated bool `json:"isAuthenticated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.IsAuthenticated {
		t.Error("anonymous request reported as authenticated")
	}
}

func TestRouter_Metrics(t *testing.T) {
	deps, _ := newTestDeps(t)
	h := newRouter(testAppConfig(""), deps, false, zap.NewNop())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	for _, want := range []string{"http_requests_total", "go_goroutines"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestShutdown_ClosesEditors(t *testing.T) {
	deps, _ := newTestDeps(t)
	sess := resources.Banners.Open(deps.Resources(zap.NewNop()), "sess-1", apiclient.Credentials{Token: "t"})
	ed, ok := sess.(interface{ Closed() bool })
	if !ok {
		t.Fatal("session does not expose Closed")
	}
	if deps.Registry.Len() != 1 {
		t.Fatalf("registry len = %d, want 1", deps.Registry.Len())
	}

	if err := Shutdown(context.Background(), nil, AppConfig{}, deps, zap.NewNop()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if deps.Registry.Len() != 0 {
		t.Errorf("registry len after shutdown = %d, want 0", deps.Registry.Len())
	}
	if !ed.Closed() {
		t.Error("editor not closed on shutdown")
	}
}
