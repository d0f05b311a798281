package navigation_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/institutehub/internal/app/system/navigation"
)

func postReturn(ret string) *http.Request {
	form := url.Values{"return": {ret}}
	req := httptest.NewRequest(http.MethodPost, "/admin/contacts/1/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSafeBackURL_AdminPage(t *testing.T) {
	opts := navigation.AdminPage("/admin/contacts")
	tests := []struct {
		name string
		ret  string
		want string
	}{
		{"same page with query", "/admin/contacts?q=ravi&sort=name", "/admin/contacts?q=ravi&sort=name"},
		{"other resource", "/admin/banners", "/admin/contacts"},
		{"action url", "/admin/contacts/3/delete", "/admin/contacts"},
		{"external", "https://evil.example.com/admin/contacts", "/admin/contacts"},
		{"empty", "", "/admin/contacts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := navigation.SafeBackURL(postReturn(tt.ret), opts); got != tt.want {
				t.Errorf("SafeBackURL(%q) = %q, want %q", tt.ret, got, tt.want)
			}
		})
	}
}

func TestSafeBackURL_PreservesQueryParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?q=a+b&return=/elsewhere", nil)
	got := navigation.SafeBackURL(req, navigation.BackURLOptions{
		AllowedPrefix:      "/admin/registrations",
		Fallback:           "/admin/registrations",
		PreserveQueryParam: "q",
	})
	if got != "/admin/registrations?q=a+b" {
		t.Errorf("got %q", got)
	}
}

func TestSafeBackURL_ExcludedPrefixes(t *testing.T) {
	opts := navigation.BackURLOptions{ExcludedPrefixes: []string{"/admin"}, Fallback: "/"}
	for ret, want := range map[string]string{
		"/courses":        "/courses",
		"/admin/banners":  "/",
		"/gallery?page=2": "/gallery?page=2",
	} {
		req := httptest.NewRequest(http.MethodGet, "/logout?return="+url.QueryEscape(ret), nil)
		if got := navigation.SafeBackURL(req, opts); got != want {
			t.Errorf("SafeBackURL(%q) = %q, want %q", ret, got, want)
		}
	}
}
