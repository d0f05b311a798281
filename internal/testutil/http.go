package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/auth"
)

// TestAdmin represents a signed-in admin for handler tests.
type TestAdmin struct {
	Username    string
	SessionID   string
	Credentials apiclient.Credentials
}

// Admin returns a TestAdmin carrying the FakeAPI session cookie.
func Admin() TestAdmin {
	return TestAdmin{
		Username:    FakeUsername,
		SessionID:   "test-session-id",
		Credentials: apiclient.Credentials{Cookies: []apiclient.Cookie{{Name: FakeSessionCookie, Value: FakeSessionValue}}},
	}
}

// WithAdmin adds an admin to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the admin directly.
func WithAdmin(r *http.Request, a TestAdmin) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		Username:    a.Username,
		SessionID:   a.SessionID,
		Credentials: a.Credentials,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with an admin in context.
func NewAuthenticatedRequest(method, target string, a TestAdmin) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithAdmin(req, a)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	location := r.Header().Get("Location")
	if location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
