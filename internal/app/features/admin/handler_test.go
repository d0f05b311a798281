package admin_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/institutehub/internal/app/features/admin"
	uierrors "github.com/dalemusser/institutehub/internal/app/features/errors"
	"github.com/dalemusser/institutehub/internal/app/resources"
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/crudeditor"
	"github.com/dalemusser/institutehub/internal/app/system/imageprep"
	"github.com/dalemusser/institutehub/internal/app/system/timeouts"
	"github.com/dalemusser/institutehub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type fixture struct {
	fake   *testutil.FakeAPI
	deps   resources.Deps
	router chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	fake.AddInstituteResources()
	tr, err := apiclient.NewTransport(apiclient.Options{BaseURL: fake.URL(), Timeout: 5 * time.Second, Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	deps := resources.Deps{
		Transport: tr,
		Registry:  crudeditor.NewRegistry(time.Hour, zap.NewNop()),
		Previews:  imageprep.NewPreviewStore(time.Minute, zap.NewNop()),
		Logger:    zap.NewNop(),
		BasePath:  "/admin",
	}
	h := admin.NewHandler(deps, resources.Catalog(), nil, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
	r := chi.NewRouter()
	r.Mount("/admin", admin.Routes(h))
	return &fixture{fake: fake, deps: deps, router: r}
}

// serve runs the request. Pages that render templates may panic in tests
// without a booted engine; the status is already written by then.
func (f *fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	func() {
		defer func() { _ = recover() }()
		f.router.ServeHTTP(rec, req)
	}()
	return rec
}

func (f *fixture) session(b resources.Binding) resources.Session {
	a := testutil.Admin()
	return b.Open(f.deps, a.SessionID, a.Credentials)
}

func multipartRequest(t *testing.T, target string, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	for field, data := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, field+".jpg"))
		hdr.Set("Content-Type", "image/jpeg")
		pw, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		if _, err := pw.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testutil.WithAdmin(req, testutil.Admin())
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return testutil.WithAdmin(req, testutil.Admin())
}

func TestSave_CreatesBannerWithImage(t *testing.T) {
	f := newFixture(t)
	req := multipartRequest(t, "/admin/banners",
		map[string]string{"title": "Admissions open for the new session"},
		map[string][]byte{"image": testutil.JPEG(t, 400, 200)})

	rec := f.serve(req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/banners" {
		t.Fatalf("got %d %q, want 303 /admin/banners", rec.Code, rec.Header().Get("Location"))
	}
	if n := f.fake.CountRequests(http.MethodPost, "/banner"); n != 1 {
		t.Fatalf("POST /banner count = %d, want 1", n)
	}
	var posted testutil.RecordedRequest
	for _, rr := range f.fake.Requests() {
		if rr.Method == http.MethodPost && rr.Path == "/banner" {
			posted = rr
		}
	}
	if posted.Fields["title"] != "Admissions open for the new session" {
		t.Errorf("posted title = %q", posted.Fields["title"])
	}
	if _, ok := posted.Files["image"]; !ok {
		t.Error("posted request has no image part")
	}
	if !posted.Authed {
		t.Error("create was sent without the admin's credentials")
	}

	s := f.session(resources.Banners)
	if d := s.Draft(); d.Values["title"] != "" || d.Dirty {
		t.Errorf("draft not reset after create: %+v", d)
	}
	if got := len(s.Rows()); got != 1 {
		t.Errorf("rows after create = %d, want 1", got)
	}
}

func TestSave_InvalidDraftNeverReachesAPI(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(formRequest("/admin/banners", url.Values{"title": {"short"}}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if n := f.fake.CountRequests(http.MethodPost, "/banner"); n != 0 {
		t.Errorf("POST /banner count = %d, want 0", n)
	}
	d := f.session(resources.Banners).Draft()
	if d.Values["title"] != "short" {
		t.Errorf("draft title = %q, want short", d.Values["title"])
	}
	if d.Errors.Get("title") == "" {
		t.Error("expected a title error")
	}
	if d.Errors.Get("image") != "Image is required" {
		t.Errorf("image error = %q", d.Errors.Get("image"))
	}
}

func TestSave_PreviewStagesImageOnly(t *testing.T) {
	f := newFixture(t)
	req := multipartRequest(t, "/admin/teams",
		map[string]string{"title": "Science", "action": "preview"},
		map[string][]byte{"image": testutil.JPEG(t, 300, 300)})
	rec := f.serve(req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if n := f.fake.CountRequests(http.MethodPost, "/team"); n != 0 {
		t.Errorf("POST /team count = %d, want 0", n)
	}
	d := f.session(resources.Teams).Draft()
	if d.Images["image"].Preview == "" {
		t.Error("no preview staged")
	}
	if _, ok := f.deps.Previews.Get(d.Images["image"].Preview); !ok {
		t.Error("preview not held by the store")
	}
}

func TestSave_RejectedImageShownOnField(t *testing.T) {
	f := newFixture(t)
	req := multipartRequest(t, "/admin/teams",
		map[string]string{"title": "Science", "action": "preview"},
		map[string][]byte{"image": []byte("not an image")})
	f.serve(req)
	d := f.session(resources.Teams).Draft()
	if d.Images["image"].Error == "" {
		t.Error("expected an image error on the field")
	}
	if d.Images["image"].Preview != "" {
		t.Error("rejected image should not be staged")
	}
}

func TestEditThenSave_Updates(t *testing.T) {
	f := newFixture(t)
	f.fake.Seed("/team", map[string]any{"title": "Maths", "image": "m.jpg"})

	rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/admin/teams/1/edit", testutil.Admin()))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("edit status = %d, want 303", rec.Code)
	}
	d := f.session(resources.Teams).Draft()
	if d.Mode != crudeditor.ModeEdit || d.Values["title"] != "Maths" {
		t.Fatalf("draft after edit = %+v", d)
	}

	f.serve(formRequest("/admin/teams", url.Values{"title": {"Mathematics"}}))
	if n := f.fake.CountRequests(http.MethodPut, "/team/1"); n != 1 {
		t.Fatalf("PUT /team/1 count = %d, want 1", n)
	}
	if got := f.fake.Records("/team")[0]["title"]; got != "Mathematics" {
		t.Errorf("stored title = %v", got)
	}
}

func TestEdit_UnknownIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/admin/teams/99/edit", testutil.Admin()))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestEdit_PopupsAreCreateOnly(t *testing.T) {
	f := newFixture(t)
	f.fake.Seed("/popup", map[string]any{"title": "Notice", "filename": "p.png"})
	rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/admin/popups/1/edit", testutil.Admin()))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCancel_ResetsDraft(t *testing.T) {
	f := newFixture(t)
	f.serve(formRequest("/admin/teams", url.Values{"title": {"Draft"}, "action": {"preview"}}))
	f.serve(formRequest("/admin/teams/cancel", url.Values{}))
	if d := f.session(resources.Teams).Draft(); d.Values["title"] != "" {
		t.Errorf("title after cancel = %q", d.Values["title"])
	}
}

func TestDelete_RemovesAndRedirects(t *testing.T) {
	f := newFixture(t)
	f.fake.Seed("/contact/student",
		map[string]any{"name": "Asha", "email": "a@example.com", "phone": "9876543210"})

	rec := f.serve(formRequest("/admin/contacts/1/delete", url.Values{"return": {"/admin/contacts?q=asha"}}))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/contacts?q=asha" {
		t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if n := f.fake.CountRequests(http.MethodDelete, "/contact/student/1"); n != 1 {
		t.Errorf("DELETE count = %d, want 1", n)
	}
	if len(f.fake.Records("/contact/student")) != 0 {
		t.Error("record still stored")
	}
}

func TestDelete_ReadOnlyTableRefused(t *testing.T) {
	f := newFixture(t)
	f.fake.Seed("/register/registrations", map[string]any{"name": "Ravi", "course": "NEET"})
	rec := f.serve(formRequest("/admin/registrations/1/delete", url.Values{}))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if n := f.fake.CountRequests(http.MethodDelete, "/register/registrations/1"); n != 0 {
		t.Errorf("DELETE count = %d, want 0", n)
	}
}

func TestToggle_FlipsScrollStatus(t *testing.T) {
	f := newFixture(t)
	f.fake.Seed("/scroll", map[string]any{"content": "Admissions are open now", "status": "active"})
	rec := f.serve(formRequest("/admin/scroll/1/toggle", url.Values{}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := f.fake.Records("/scroll")[0]["status"]; got != "inactive" {
		t.Errorf("status = %v, want inactive", got)
	}
}

func TestToggle_UnsupportedResource(t *testing.T) {
	f := newFixture(t)
	f.fake.Seed("/team", map[string]any{"title": "Maths"})
	rec := f.serve(formRequest("/admin/teams/1/toggle", url.Values{}))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUnknownResource(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/admin/nope", testutil.Admin()))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestNoAdminRedirectsToLogin(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(httptest.NewRequest(http.MethodGet, "/admin/banners", nil))
	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/login?return=") {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestSave_RejectedSessionGoesToLogin(t *testing.T) {
	f := newFixture(t)
	f.fake.FailNext(http.MethodPost, "/team", http.StatusUnauthorized, "Unauthorized")
	req := multipartRequest(t, "/admin/teams",
		map[string]string{"title": "Science"},
		map[string][]byte{"image": testutil.JPEG(t, 300, 300)})
	rec := f.serve(req)
	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/login") {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if d := f.session(resources.Teams).Draft(); d.Values["title"] != "Science" {
		t.Errorf("draft lost after failed submit: %q", d.Values["title"])
	}
}

func TestCancel_HTMXUsesHXRedirect(t *testing.T) {
	f := newFixture(t)
	req := formRequest("/admin/teams/cancel", url.Values{})
	req.Header.Set("HX-Request", "true")
	rec := f.serve(req)
	if rec.Code != http.StatusOK || rec.Header().Get("HX-Redirect") != "/admin/teams" {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("HX-Redirect"))
	}
}

func TestPage_ListFailureRendersError(t *testing.T) {
	f := newFixture(t)
	f.fake.FailNext(http.MethodGet, "/team", http.StatusInternalServerError, "database down")
	rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/admin/teams", testutil.Admin()))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestSave_RejectedImageBlocksUpdate(t *testing.T) {
	f := newFixture(t)
	f.fake.Seed("/teacher", map[string]any{"name": "Asha", "qualifications": `["M.Sc"]`, "photo": "asha.jpg"})

	rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/admin/teachers/1/edit", testutil.Admin()))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("edit status = %d, want 303", rec.Code)
	}

	req := multipartRequest(t, "/admin/teachers",
		map[string]string{"name": "Asha Rao", "qualifications": "M.Sc, B.Ed"},
		map[string][]byte{"photo": make([]byte, 3<<20)})
	rec = f.serve(req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/teachers" {
		t.Fatalf("got %d %q, want 303 /admin/teachers", rec.Code, rec.Header().Get("Location"))
	}
	if n := f.fake.CountRequests(http.MethodPut, "/teacher/1"); n != 0 {
		t.Fatalf("PUT /teacher/1 count = %d, want 0", n)
	}

	s := f.session(resources.Teachers)
	for _, n := range s.DrainNotices() {
		if n.Level == crudeditor.LevelSuccess {
			t.Errorf("unexpected success notice %q", n.Message)
		}
	}
	d := s.Draft()
	if d.Mode != crudeditor.ModeEdit {
		t.Errorf("mode = %v, want edit", d.Mode)
	}
	if d.Values["name"] != "Asha Rao" {
		t.Errorf("name = %q, draft should keep the typed values", d.Values["name"])
	}
	if d.Images["photo"].Error != "Image must be less than 2MB" {
		t.Errorf("photo error = %q", d.Images["photo"].Error)
	}
}

func TestSave_BoundedByAPITimeout(t *testing.T) {
	timeouts.Configure(timeouts.Config{API: 50 * time.Millisecond})
	t.Cleanup(timeouts.Reset)

	f := newFixture(t)
	f.fake.SetDelay(3 * time.Second)

	start := time.Now()
	rec := f.serve(formRequest("/admin/scroll", url.Values{"content": {"Admissions are open for all"}}))
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("save took %v, want it cut off by the API budget", elapsed)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/scroll" {
		t.Fatalf("got %d %q, want 303 /admin/scroll", rec.Code, rec.Header().Get("Location"))
	}
	if n := len(f.fake.Records("/scroll")); n != 0 {
		t.Errorf("stored records = %d, want 0", n)
	}

	s := f.session(resources.Scroll)
	var sawError bool
	for _, n := range s.DrainNotices() {
		if n.Level == crudeditor.LevelError {
			sawError = true
		}
	}
	if !sawError {
		t.Error("expected an error notice for the timed out save")
	}
	if d := s.Draft(); d.Values["content"] != "Admissions are open for all" {
		t.Errorf("content = %q, draft should survive a timeout", d.Values["content"])
	}
}
