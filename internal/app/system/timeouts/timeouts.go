// Package timeouts provides centralized timeout values for handler operations.
//
// Every call to the content API runs under one of these, so a slow or
// unreachable API surfaces as a timeout message instead of a hung page.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks against the API root
//   - Short: rendering a form, a single read, login/verify
//   - API: list fetches and JSON writes (30s by default)
//   - Upload: multipart writes carrying resized images
package timeouts

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 10 * time.Second
	DefaultAPI    = 30 * time.Second
	DefaultUpload = 60 * time.Second
)

var mu sync.RWMutex

var (
	ping   = DefaultPing
	short  = DefaultShort
	api    = DefaultAPI
	upload = DefaultUpload
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for login, verify and single reads.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// API returns the timeout for list fetches and ordinary writes.
func API() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return api
}

// Upload returns the timeout for writes that carry image files.
func Upload() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return upload
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	API    time.Duration
	Upload time.Duration
}

// Configure sets custom timeout values. Call it during startup before
// handlers are registered. An Upload shorter than API is raised to API.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.API > 0 {
		api = cfg.API
	}
	if cfg.Upload > 0 {
		upload = cfg.Upload
	}
	if upload < api {
		upload = api
	}
}

// Reset restores all timeouts to their default values.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	short = DefaultShort
	api = DefaultAPI
	upload = DefaultUpload
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, API: api, Upload: upload}
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context was canceled due to deadline exceeded.
//
// Example:
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upload(), h.Log, "banner create")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
