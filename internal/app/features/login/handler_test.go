package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/institutehub/internal/app/features/errors"
	"github.com/dalemusser/institutehub/internal/app/features/login"
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/auth"
	"github.com/dalemusser/institutehub/internal/app/system/ratelimit"
	"github.com/dalemusser/institutehub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, limiter *ratelimit.LoginLimiter) (*login.Handler, *testutil.FakeAPI, *auth.SessionManager) {
	t.Helper()
	logger := zap.NewNop()
	fake := testutil.NewFakeAPI(t)
	tr, err := apiclient.NewTransport(apiclient.Options{BaseURL: fake.URL(), Timeout: 2 * time.Second, Logger: logger})
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	// Dev-mode session manager; weak key is fine in tests.
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return login.NewHandler(tr, sessionMgr, limiter, uierrors.NewErrorLogger(logger), logger), fake, sessionMgr
}

func postLogin(h *login.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	func() {
		// Template rendering may panic without a booted engine.
		defer func() { _ = recover() }()
		h.HandleLoginPost(rec, req)
	}()
	return rec
}

func TestHandleLoginPost_Success(t *testing.T) {
	h, fake, sm := newTestHandler(t, nil)

	rec := postLogin(h, url.Values{
		"username": {testutil.FakeUsername},
		"password": {testutil.FakePassword},
		"return":   {"/admin/banners"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/banners" {
		t.Errorf("Location: got %q, want %q", loc, "/admin/banners")
	}
	if n := fake.CountRequests(http.MethodPost, "/login"); n != 1 {
		t.Errorf("POST /login count = %d, want 1", n)
	}

	// The issued cookie carries a session LoadSessionUser understands.
	next := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	var got *auth.SessionUser
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), next)
	if got == nil {
		t.Fatal("no session user after login")
	}
	if got.Username != testutil.FakeUsername || got.Credentials.Empty() || got.SessionID == "" {
		t.Errorf("session user = %+v", got)
	}
}

func TestHandleLoginPost_UnsafeReturnIgnored(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)
	rec := postLogin(h, url.Values{
		"username": {testutil.FakeUsername},
		"password": {testutil.FakePassword},
		"return":   {"https://evil.example.com/steal"},
	})
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("Location: got %q, want /admin", loc)
	}
}

func TestHandleLoginPost_WrongPassword(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)
	rec := postLogin(h, url.Values{"username": {testutil.FakeUsername}, "password": {"nope"}})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("a session cookie was set for a failed login")
	}
}

func TestHandleLoginPost_MissingFields(t *testing.T) {
	h, fake, _ := newTestHandler(t, nil)
	rec := postLogin(h, url.Values{"username": {"  "}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}
	if n := fake.CountRequests(http.MethodPost, "/login"); n != 0 {
		t.Errorf("API called %d times for an empty form", n)
	}
}

func TestHandleLoginPost_RateLimited(t *testing.T) {
	h, fake, _ := newTestHandler(t, ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute))
	form := url.Values{"username": {testutil.FakeUsername}, "password": {"wrong"}}

	postLogin(h, form)
	postLogin(h, form)
	rec := postLogin(h, form)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d, got %d", http.StatusTooManyRequests, rec.Code)
	}
	if n := fake.CountRequests(http.MethodPost, "/login"); n != 2 {
		t.Errorf("POST /login count = %d, want 2", n)
	}
}

func TestHandleLoginPost_APIDown(t *testing.T) {
	h, fake, _ := newTestHandler(t, nil)
	fake.FailNext(http.MethodPost, "/login", http.StatusInternalServerError, "Database is down")
	rec := postLogin(h, url.Values{"username": {testutil.FakeUsername}, "password": {testutil.FakePassword}})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected status %d, got %d", http.StatusBadGateway, rec.Code)
	}
}

func TestServeLogin_SignedInRedirects(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/login?return=/admin/teams", testutil.Admin())
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/teams" {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}
