// internal/app/system/apiclient/transport.go
//
// Package apiclient is the typed client for the institute content API. The
// API is the system of record; this package knows its paths, its request
// encodings and the several response envelopes it uses.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/institutehub/internal/app/system/metrics"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every API call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

const maxResponseBytes = 10 << 20

// Options configure a Transport.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	HTTPClient *http.Client // optional; Timeout is applied when it has none
}

// Transport performs HTTP calls against the API base URL. It holds no
// per-admin state; credentials are passed per call.
type Transport struct {
	base    string
	http    *http.Client
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewTransport validates the base URL and builds a Transport.
func NewTransport(opts Options) (*Transport, error) {
	u, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("api base url must be an absolute http(s) URL, got %q", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if hc.Timeout == 0 {
		hc.Timeout = timeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Transport{
		base:    strings.TrimRight(u.String(), "/"),
		http:    hc,
		log:     logger,
		metrics: opts.Metrics,
	}, nil
}

// BaseURL returns the API base URL without a trailing slash.
func (t *Transport) BaseURL() string { return t.base }

// ImageURL returns the public URL of an uploaded file. Absolute URLs are
// returned unchanged.
func (t *Transport) ImageURL(filename string) string {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return ""
	}
	if strings.HasPrefix(filename, "http://") || strings.HasPrefix(filename, "https://") {
		return filename
	}
	filename = strings.TrimPrefix(filename, "/")
	filename = strings.TrimPrefix(filename, "uploads/")
	return t.base + "/uploads/" + url.PathEscape(filename)
}

// call is one outbound request.
type call struct {
	resource    string
	op          string
	method      string
	path        string
	body        []byte
	contentType string
	creds       Credentials
}

// reply is a 2xx response.
type reply struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

func (t *Transport) do(ctx context.Context, c call) (reply, error) {
	var body io.Reader
	if c.body != nil {
		body = bytes.NewReader(c.body)
	}
	req, err := http.NewRequestWithContext(ctx, c.method, t.base+c.path, body)
	if err != nil {
		return reply{}, fmt.Errorf("%s %s: build request: %w", c.resource, c.op, err)
	}
	if c.contentType != "" {
		req.Header.Set("Content-Type", c.contentType)
	}
	req.Header.Set("Accept", "application/json")
	c.creds.apply(req)

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		t.metrics.ObserveAPI(c.resource, c.op, 0, time.Since(start))
		t.log.Warn("content api call failed",
			zap.String("resource", c.resource),
			zap.String("op", c.op),
			zap.String("method", c.method),
			zap.String("path", c.path),
			zap.Error(err))
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return reply{}, ctx.Err()
		}
		return reply{}, fmt.Errorf("%w: %s %s: %w", ErrNetwork, c.resource, c.op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	t.metrics.ObserveAPI(c.resource, c.op, resp.StatusCode, time.Since(start))
	if err != nil {
		return reply{}, fmt.Errorf("%w: %s %s: read body: %w", ErrNetwork, c.resource, c.op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(c.resource, c.op, resp.StatusCode, data)
		t.log.Warn("content api returned error",
			zap.String("resource", c.resource),
			zap.String("op", c.op),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return reply{}, apiErr
	}
	return reply{status: resp.StatusCode, body: data, cookies: resp.Cookies()}, nil
}
