package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// FakeAPI login constants.
const (
	FakeUsername      = "admin"
	FakePassword      = "secret-pass"
	FakeSessionCookie = "token"
	FakeSessionValue  = "fake-session"
)

// FakeResource configures one collection served by FakeAPI.
type FakeResource struct {
	Path         string // write base, e.g. "/banner"
	ListPath     string // read path when different, e.g. "/allbanners"
	Envelope     string // "" bare array, "data", or a resource key such as "scroll"
	NoID         bool   // singleton addressed without an id
	SingleActive bool   // toggling one on turns the others off
	PublicWrite  bool   // creates allowed without a session
}

// FileInfo describes an uploaded file seen by FakeAPI.
type FileInfo struct {
	Name        string
	ContentType string
	Size        int
}

// RecordedRequest is a request FakeAPI received.
type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Fields      map[string]string
	Files       map[string]FileInfo
	Authed      bool
}

type fakeCollection struct {
	cfg     FakeResource
	records []map[string]any
}

type failure struct {
	method, path string
	status       int
	message      string
}

// FakeAPI is an in-memory stand-in for the institute content API.
type FakeAPI struct {
	Server *httptest.Server

	mu          sync.Mutex
	collections []*fakeCollection
	requests    []RecordedRequest
	failures    []failure
	nextID      int
	password    string
	delay       time.Duration
}

// NewFakeAPI starts a FakeAPI and closes it when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{nextID: 1, password: FakePassword}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL.
func (f *FakeAPI) URL() string { return f.Server.URL }

// AddResource registers a collection.
func (f *FakeAPI) AddResource(cfg FakeResource) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections = append(f.collections, &fakeCollection{cfg: cfg})
}

// AddInstituteResources registers every collection the admin console and the
// public site read or write.
func (f *FakeAPI) AddInstituteResources() {
	for _, r := range []FakeResource{
		{Path: "/banner", ListPath: "/allbanners"},
		{Path: "/faculty-main", SingleActive: true},
		{Path: "/teacher"},
		{Path: "/team"},
		{Path: "/scroll", Envelope: "scroll"},
		{Path: "/popup"},
		{Path: "/about"},
		{Path: "/courses"},
		{Path: "/focus-meta", NoID: true},
		{Path: "/focus-items"},
		{Path: "/services"},
		{Path: "/features"},
		{Path: "/gallery"},
		{Path: "/result"},
		{Path: "/contact/student", PublicWrite: true},
		{Path: "/register/registrations"},
	} {
		f.AddResource(r)
	}
}

// Seed inserts records into the collection at path, assigning numeric ids.
func (f *FakeAPI) Seed(path string, records ...map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.byPath(path)
	if c == nil {
		panic("testutil: no fake resource at " + path)
	}
	for _, r := range records {
		rec := copyRecord(r)
		if _, ok := rec["id"]; !ok && !c.cfg.NoID {
			rec["id"] = f.nextID
			f.nextID++
		}
		c.records = append(c.records, rec)
	}
}

// Records returns a copy of the collection at path.
func (f *FakeAPI) Records(path string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.byPath(path)
	if c == nil {
		return nil
	}
	out := make([]map[string]any, len(c.records))
	for i, r := range c.records {
		out[i] = copyRecord(r)
	}
	return out
}

// Requests returns the requests received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// CountRequests counts received requests matching method and path.
func (f *FakeAPI) CountRequests(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// FailNext makes the next request matching method and path answer status
// with {"message": message}.
func (f *FakeAPI) FailNext(method, path string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, failure{method: method, path: path, status: status, message: message})
}

// SetDelay delays every response.
func (f *FakeAPI) SetDelay(d time.Duration) {
	f.mu.Lock()
	f.delay = d
	f.mu.Unlock()
}

func (f *FakeAPI) byPath(path string) *fakeCollection {
	for _, c := range f.collections {
		if c.cfg.Path == path || (c.cfg.ListPath != "" && c.cfg.ListPath == path) {
			return c
		}
	}
	return nil
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	delay := f.delay
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	rec := f.record(r)

	f.mu.Lock()
	defer f.mu.Unlock()

	for i, fl := range f.failures {
		if fl.method == r.Method && fl.path == r.URL.Path {
			f.failures = append(f.failures[:i], f.failures[i+1:]...)
			writeJSON(w, fl.status, map[string]any{"message": fl.message})
			return
		}
	}

	switch r.URL.Path {
	case "/login":
		f.login(w, rec)
		return
	case "/verify":
		if !rec.Authed {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	case "/changePassword":
		f.changePassword(w, rec)
		return
	}

	for _, c := range f.collections {
		if c.cfg.ListPath != "" && r.URL.Path == c.cfg.ListPath && r.Method == http.MethodGet {
			f.list(w, c)
			return
		}
		if r.URL.Path == c.cfg.Path {
			f.collection(w, r, rec, c)
			return
		}
		if rest, ok := strings.CutPrefix(r.URL.Path, c.cfg.Path+"/"); ok {
			f.item(w, r, rec, c, rest)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"message": "Route not found"})
}

func (f *FakeAPI) record(r *http.Request) RecordedRequest {
	rec := RecordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Fields:      map[string]string{},
		Files:       map[string]FileInfo{},
	}
	if ck, err := r.Cookie(FakeSessionCookie); err == nil && ck.Value == FakeSessionValue {
		rec.Authed = true
	}

	switch {
	case strings.HasPrefix(rec.ContentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			for k, v := range r.MultipartForm.Value {
				if len(v) > 0 {
					rec.Fields[k] = v[0]
				}
			}
			for k, fhs := range r.MultipartForm.File {
				if len(fhs) > 0 {
					rec.Files[k] = FileInfo{
						Name:        fhs[0].Filename,
						ContentType: fhs[0].Header.Get("Content-Type"),
						Size:        int(fhs[0].Size),
					}
				}
			}
		}
	case strings.HasPrefix(rec.ContentType, "application/json"):
		body, _ := io.ReadAll(r.Body)
		var obj map[string]any
		if json.Unmarshal(body, &obj) == nil {
			for k, v := range obj {
				if s, ok := v.(string); ok {
					rec.Fields[k] = s
				}
			}
		}
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	return rec
}

func (f *FakeAPI) login(w http.ResponseWriter, rec RecordedRequest) {
	if rec.Fields["username"] != FakeUsername || rec.Fields["password"] != f.password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid username or password"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: FakeSessionCookie, Value: FakeSessionValue, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Login successful"})
}

func (f *FakeAPI) changePassword(w http.ResponseWriter, rec RecordedRequest) {
	if !rec.Authed {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
		return
	}
	if rec.Fields["currentPassword"] != f.password {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Current password is incorrect"})
		return
	}
	f.password = rec.Fields["newPassword"]
	writeJSON(w, http.StatusOK, map[string]any{"message": "Password updated successfully"})
}

func (f *FakeAPI) list(w http.ResponseWriter, c *fakeCollection) {
	if c.cfg.NoID {
		if len(c.records) == 0 {
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
		writeJSON(w, http.StatusOK, envelope(c.cfg.Envelope, c.records[0]))
		return
	}
	items := make([]map[string]any, len(c.records))
	copy(items, c.records)
	writeJSON(w, http.StatusOK, envelope(c.cfg.Envelope, items))
}

func (f *FakeAPI) collection(w http.ResponseWriter, r *http.Request, rec RecordedRequest, c *fakeCollection) {
	switch r.Method {
	case http.MethodGet:
		f.list(w, c)
	case http.MethodPost:
		if !rec.Authed && !c.cfg.PublicWrite {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
			return
		}
		if c.cfg.NoID && len(c.records) > 0 {
			merge(c.records[0], rec)
			writeJSON(w, http.StatusOK, envelope(c.cfg.Envelope, c.records[0]))
			return
		}
		nr := map[string]any{}
		if !c.cfg.NoID {
			nr["id"] = f.nextID
			f.nextID++
		}
		merge(nr, rec)
		if c.cfg.SingleActive {
			if _, ok := nr["active"]; !ok {
				nr["active"] = false
			}
		}
		c.records = append(c.records, nr)
		writeJSON(w, http.StatusCreated, envelope(c.cfg.Envelope, nr))
	case http.MethodDelete:
		if !rec.Authed {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
			return
		}
		c.records = nil
		writeJSON(w, http.StatusOK, map[string]any{"message": "Deleted"})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "Method not allowed"})
	}
}

func (f *FakeAPI) item(w http.ResponseWriter, r *http.Request, rec RecordedRequest, c *fakeCollection, rest string) {
	id, action, _ := strings.Cut(rest, "/")
	idx := -1
	for i, x := range c.records {
		if idString(x["id"]) == id {
			idx = i
			break
		}
	}
	if !rec.Authed && r.Method != http.MethodGet {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
		return
	}
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
		return
	}

	switch {
	case r.Method == http.MethodGet && action == "":
		writeJSON(w, http.StatusOK, envelope(c.cfg.Envelope, c.records[idx]))
	case r.Method == http.MethodPut && action == "":
		merge(c.records[idx], rec)
		writeJSON(w, http.StatusOK, envelope(c.cfg.Envelope, c.records[idx]))
	case r.Method == http.MethodDelete && action == "":
		c.records = append(c.records[:idx], c.records[idx+1:]...)
		writeJSON(w, http.StatusOK, map[string]any{"message": "Deleted successfully"})
	case r.Method == http.MethodPatch && action == "toggle":
		x := c.records[idx]
		if st, ok := x["status"].(string); ok {
			if st == "active" {
				x["status"] = "inactive"
			} else {
				x["status"] = "active"
			}
		} else {
			on := !truthy(x["active"])
			if on && c.cfg.SingleActive {
				for _, o := range c.records {
					o["active"] = false
				}
			}
			x["active"] = on
		}
		writeJSON(w, http.StatusOK, envelope(c.cfg.Envelope, x))
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "Method not allowed"})
	}
}

func merge(dst map[string]any, rec RecordedRequest) {
	keys := make([]string, 0, len(rec.Fields))
	for k := range rec.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := rec.Fields[k]
		if k == "qualifications" {
			var xs []string
			if json.Unmarshal([]byte(v), &xs) == nil {
				dst[k] = xs
				continue
			}
		}
		dst[k] = v
	}
	for field, fi := range rec.Files {
		dst[field] = "uploaded-" + fi.Name
		if field == "file" {
			dst["filename"] = "uploaded-" + fi.Name
		}
	}
}

func envelope(key string, v any) any {
	if key == "" {
		return v
	}
	return map[string]any{key: v}
}

func idString(v any) string {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	}
	return ""
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x == "true" || x == "1"
	case int:
		return x != 0
	}
	return false
}

func copyRecord(r map[string]any) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
