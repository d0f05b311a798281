// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, body limits); AppConfig is
// everything specific to the institute site and its admin console.
//
// Struct tags are checked by ValidateConfig.
type AppConfig struct {
	// Content API
	APIBaseURL string        `validate:"required,http_url"` // e.g. https://api.example.org
	APITimeout time.Duration `validate:"gt=0"`

	// Admin session and CSRF
	SessionKey    string        `validate:"required,min=16"`
	SessionName   string        `validate:"required"`
	SessionDomain string        // blank means current host
	SessionMaxAge time.Duration `validate:"gt=0"`
	VerifyEvery   time.Duration `validate:"gt=0"` // how often an admin's API token is re-verified
	CSRFKey       []byte        `validate:"len=32"`

	// Editors and image previews
	PreviewTTL     time.Duration `validate:"gt=0"`
	EditorIdleTTL  time.Duration `validate:"gt=0"`
	SweepInterval  time.Duration `validate:"gt=0"`
	UploadMaxBytes int64         `validate:"gt=0"`

	// Abuse limits (requests per minute per client IP)
	LoginRateLimit   int `validate:"gte=1"`
	ContactRateLimit int `validate:"gte=1"`

	SiteName string `validate:"required,max=100"`
}
