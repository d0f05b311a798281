package account_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/institutehub/internal/app/features/account"
	uierrors "github.com/dalemusser/institutehub/internal/app/features/errors"
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/auth"
	"github.com/dalemusser/institutehub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*account.Handler, *testutil.FakeAPI) {
	t.Helper()
	logger := zap.NewNop()
	fake := testutil.NewFakeAPI(t)
	tr, err := apiclient.NewTransport(apiclient.Options{BaseURL: fake.URL(), Timeout: 2 * time.Second, Logger: logger})
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return account.NewHandler(tr, sm, uierrors.NewErrorLogger(logger), logger), fake
}

func post(h *account.Handler, form url.Values, admin *testutil.TestAdmin) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/account/password", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if admin != nil {
		req = testutil.WithAdmin(req, *admin)
	}
	rec := httptest.NewRecorder()
	func() {
		// Template rendering may panic without a booted engine.
		defer func() { _ = recover() }()
		h.HandleChangePassword(rec, req)
	}()
	return rec
}

func validForm(next string) url.Values {
	return url.Values{
		"username":        {testutil.FakeUsername},
		"currentPassword": {testutil.FakePassword},
		"newPassword":     {next},
		"confirmPassword": {next},
	}
}

func TestChangePassword_Success(t *testing.T) {
	h, fake := newTestHandler(t)
	admin := testutil.Admin()

	rec := post(h, validForm("brand-new-pass"), &admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if n := fake.CountRequests(http.MethodPost, "/changePassword"); n != 1 {
		t.Errorf("POST /changePassword count = %d, want 1", n)
	}

	// The new password now logs in.
	tr, _ := apiclient.NewTransport(apiclient.Options{BaseURL: fake.URL(), Timeout: 2 * time.Second})
	if _, err := tr.Login(t.Context(), testutil.FakeUsername, "brand-new-pass"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestChangePassword_Mismatch(t *testing.T) {
	h, fake := newTestHandler(t)
	admin := testutil.Admin()
	form := validForm("brand-new-pass")
	form.Set("confirmPassword", "something-else")

	rec := post(h, form, &admin)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if n := fake.CountRequests(http.MethodPost, "/changePassword"); n != 0 {
		t.Errorf("API called %d times for a mismatched form", n)
	}
}

func TestChangePassword_SameAsCurrent(t *testing.T) {
	h, _ := newTestHandler(t)
	admin := testutil.Admin()
	rec := post(h, validForm(testutil.FakePassword), &admin)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	h, _ := newTestHandler(t)
	admin := testutil.Admin()
	form := validForm("brand-new-pass")
	form.Set("currentPassword", "not-it")

	rec := post(h, form, &admin)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChangePassword_RejectedSession(t *testing.T) {
	h, _ := newTestHandler(t)
	admin := testutil.Admin()
	admin.Credentials = apiclient.Credentials{Token: "stale"}

	rec := post(h, validForm("brand-new-pass"), &admin)
	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/login") {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestChangePassword_NoAdmin(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(h, validForm("brand-new-pass"), nil)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
}
