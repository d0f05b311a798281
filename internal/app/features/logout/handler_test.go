package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/institutehub/internal/app/features/logout"
	"github.com/dalemusser/institutehub/internal/app/system/auth"
	"github.com/dalemusser/institutehub/internal/testutil"
	"go.uber.org/zap"
)

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

// signedInCookies signs an admin in and returns the issued cookies.
func signedInCookies(t *testing.T, sm *auth.SessionManager) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if _, err := sm.SignIn(rec, httptest.NewRequest(http.MethodPost, "/login", nil), testutil.FakeUsername, testutil.Admin().Credentials); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	return rec.Result().Cookies()
}

func TestServeLogout_RedirectsToHome(t *testing.T) {
	sm := newSessionManager(t)
	handler := logout.NewHandler(sm, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/" {
		t.Errorf("Location: got %q, want %q", location, "/")
	}
}

func TestServeLogout_ClearsSessionAndRunsHooks(t *testing.T) {
	sm := newSessionManager(t)
	var closed string
	sm.OnSignOut(func(id string) { closed = id })
	handler := logout.NewHandler(sm, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, c := range signedInCookies(t, sm) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, req)

	if closed == "" {
		t.Error("sign-out hook did not receive the session id")
	}
	var expired bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("session cookie was not expired")
	}
}

func TestServeLogout_HTMX(t *testing.T) {
	handler := logout.NewHandler(newSessionManager(t), zap.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusOK || rec.Header().Get("HX-Redirect") != "/" {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("HX-Redirect"))
	}
}

func TestRoutes_RequireSignedIn(t *testing.T) {
	sm := newSessionManager(t)
	router := logout.Routes(logout.NewHandler(sm, zap.NewNop()), sm)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected redirect to login, got %d", rec.Code)
	}
}

func TestServeLogout_ReturnsToPublicPage(t *testing.T) {
	handler := logout.NewHandler(newSessionManager(t), zap.NewNop())
	for ret, want := range map[string]string{
		"/gallery":          "/gallery",
		"/admin/banners":    "/",
		"/account/password": "/",
	} {
		rec := httptest.NewRecorder()
		handler.ServeLogout(rec, httptest.NewRequest(http.MethodPost, "/logout?return="+ret, nil))
		if loc := rec.Header().Get("Location"); loc != want {
			t.Errorf("return=%s: Location = %q, want %q", ret, loc, want)
		}
	}
}
