package contact_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/institutehub/internal/app/features/contact"
	uierrors "github.com/dalemusser/institutehub/internal/app/features/errors"
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/ratelimit"
	"github.com/dalemusser/institutehub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, limiter *ratelimit.Limiter) (*contact.Handler, *testutil.FakeAPI) {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	fake.AddInstituteResources()
	tr, err := apiclient.NewTransport(apiclient.Options{BaseURL: fake.URL(), Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	logger := zap.NewNop()
	return contact.NewHandler(tr, limiter, uierrors.NewErrorLogger(logger), logger), fake
}

func post(h *contact.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	func() {
		// Template rendering may panic without a booted engine.
		defer func() { _ = recover() }()
		h.HandleContact(rec, req)
	}()
	return rec
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Ravi Kumar"},
		"email":   {"ravi@example.com"},
		"contact": {"9876543210"},
		"place":   {"Kochi"},
		"message": {"Please call me about <b>NEET</b> coaching."},
	}
}

func TestHandleContact_Sends(t *testing.T) {
	h, fake := newTestHandler(t, nil)
	rec := post(h, validForm())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	got := fake.Records("/contact/student")
	if len(got) != 1 {
		t.Fatalf("records = %d, want 1", len(got))
	}
	if got[0]["phone"] != "9876543210" {
		t.Errorf("phone = %v, want the contact number", got[0]["phone"])
	}
	if got[0]["message"] != "Please call me about NEET coaching." {
		t.Errorf("message = %q, want tags stripped", got[0]["message"])
	}
}

func TestHandleContact_Validation(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"missing name", "name", ""},
		{"bad email", "email", "not-an-email"},
		{"short phone", "contact", "12345"},
		{"letters in phone", "contact", "98765abcde"},
		{"missing place", "place", " "},
		{"missing message", "message", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fake := newTestHandler(t, nil)
			form := validForm()
			form.Set(tt.field, tt.value)
			rec := post(h, form)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
			}
			if n := fake.CountRequests(http.MethodPost, "/contact/student"); n != 0 {
				t.Errorf("API called %d times for an invalid form", n)
			}
		})
	}
}

func TestHandleContact_RateLimited(t *testing.T) {
	h, fake := newTestHandler(t, ratelimit.New(1, time.Minute))
	post(h, validForm())
	rec := post(h, validForm())
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d, got %d", http.StatusTooManyRequests, rec.Code)
	}
	if n := fake.CountRequests(http.MethodPost, "/contact/student"); n != 1 {
		t.Errorf("POST count = %d, want 1", n)
	}
}

func TestHandleContact_APIFailure(t *testing.T) {
	h, fake := newTestHandler(t, nil)
	fake.FailNext(http.MethodPost, "/contact/student", http.StatusInternalServerError, "Database is down")
	rec := post(h, validForm())
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected status %d, got %d", http.StatusBadGateway, rec.Code)
	}
}

func TestServeContact_OK(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	func() {
		defer func() { _ = recover() }()
		h.ServeContact(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))
	}()
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}
