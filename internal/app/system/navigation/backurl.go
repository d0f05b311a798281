// internal/app/system/navigation/backurl.go
//
// Package navigation resolves where a page should send the admin next.
// Every candidate comes from the request and is checked so a crafted
// ?return= can never redirect off-site or back onto an action URL.
package navigation

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions restricts which return URLs SafeBackURL accepts.
type BackURLOptions struct {
	// AllowedPrefix, when set, must prefix the return URL ("/admin/contacts").
	AllowedPrefix string

	// ExcludedPrefixes reject return URLs that start with any of them.
	ExcludedPrefixes []string

	// ExcludedSubpaths reject return URLs that contain any of them ("/edit").
	ExcludedSubpaths []string

	// Fallback is used when no acceptable return URL is present.
	Fallback string

	// PreserveQueryParam is copied from the request onto the fallback,
	// for example "q" so a table search survives a rejected return URL.
	PreserveQueryParam string
}

// SafeBackURL returns the request's "return" value (query first, then form)
// when it is a local path that satisfies opts, otherwise opts.Fallback.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	if ret := returnParam(r); ret != "" && opts.accepts(ret) {
		return ret
	}
	if opts.PreserveQueryParam == "" {
		return opts.Fallback
	}
	v := formOrQuery(r, opts.PreserveQueryParam)
	if v == "" {
		return opts.Fallback
	}
	sep := "?"
	if strings.Contains(opts.Fallback, "?") {
		sep = "&"
	}
	return opts.Fallback + sep + opts.PreserveQueryParam + "=" + url.QueryEscape(v)
}

func (o BackURLOptions) accepts(ret string) bool {
	if o.AllowedPrefix != "" && !strings.HasPrefix(ret, o.AllowedPrefix) {
		return false
	}
	for _, p := range o.ExcludedPrefixes {
		if strings.HasPrefix(ret, p) {
			return false
		}
	}
	for _, s := range o.ExcludedSubpaths {
		if strings.Contains(ret, s) {
			return false
		}
	}
	return true
}

func returnParam(r *http.Request) string {
	if ret := urlutil.SafeReturn(query.Get(r, "return"), "", ""); ret != "" {
		return ret
	}
	return urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
}

func formOrQuery(r *http.Request, key string) string {
	if v := query.Get(r, key); v != "" {
		return v
	}
	return strings.TrimSpace(r.FormValue(key))
}

// AdminPage keeps an admin on one resource page, for example
// "/admin/contacts?q=ravi", and never sends them back onto an action URL.
func AdminPage(pagePath string) BackURLOptions {
	return BackURLOptions{
		AllowedPrefix:    pagePath,
		ExcludedSubpaths: []string{"/edit", "/delete", "/toggle", "/cancel"},
		Fallback:         pagePath,
	}
}
