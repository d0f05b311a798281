// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/institutehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for InstituteHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, session_name, etc.
//   - Environment variables: INSTITUTEHUB_API_BASE_URL, INSTITUTEHUB_SESSION_NAME, etc.
//   - Command-line flags: --api_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: "http://localhost:5000", Desc: "Base URL of the institute content API"},
	{Name: "api_timeout", Default: "30s", Desc: "Timeout for a single content API call"},

	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (at least 32 characters in production)"},
	{Name: "session_name", Default: "institutehub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Admin session lifetime"},
	{Name: "session_verify_every", Default: "5m", Desc: "How often an admin's API token is re-verified"},
	{Name: "csrf_key", Default: "", Desc: "32-byte CSRF key (random per process when blank outside production)"},

	{Name: "preview_ttl", Default: "30m", Desc: "How long an unsaved image preview is kept"},
	{Name: "editor_idle_ttl", Default: "1h", Desc: "Idle time after which an admin's editor is discarded"},
	{Name: "sweep_interval", Default: "1m", Desc: "How often expired previews, editors and rate-limit buckets are swept"},
	{Name: "upload_max_bytes", Default: 24 << 20, Desc: "Maximum size of one admin form post"},

	{Name: "login_rate_limit", Default: 10, Desc: "Login attempts per minute per IP"},
	{Name: "contact_rate_limit", Default: 5, Desc: "Contact enquiries per minute per IP"},

	{Name: "site_name", Default: models.DefaultInstituteName, Desc: "Institute name shown in page titles"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, INSTITUTEHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "INSTITUTEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL: strings.TrimSpace(appValues.String("api_base_url")),
		APITimeout: appValues.Duration("api_timeout", 30*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),
		VerifyEvery:   appValues.Duration("session_verify_every", 5*time.Minute),

		PreviewTTL:     appValues.Duration("preview_ttl", 30*time.Minute),
		EditorIdleTTL:  appValues.Duration("editor_idle_ttl", time.Hour),
		SweepInterval:  appValues.Duration("sweep_interval", time.Minute),
		UploadMaxBytes: int64(appValues.Int("upload_max_bytes")),

		LoginRateLimit:   appValues.Int("login_rate_limit"),
		ContactRateLimit: appValues.Int("contact_rate_limit"),

		SiteName: strings.TrimSpace(appValues.String("site_name")),
	}

	appCfg.CSRFKey = []byte(appValues.String("csrf_key"))
	if len(appCfg.CSRFKey) == 0 && coreCfg.Env != "prod" {
		appCfg.CSRFKey = securecookie.GenerateRandomKey(32)
		logger.Warn("csrf_key not set; using a random key for this process")
	}

	return coreCfg, appCfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateConfig performs app-specific config validation.
//
// Struct tags on AppConfig cover shape and ranges. Production additionally
// refuses the development session key and short keys.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validate.Struct(appCfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			err = errors.New(strings.Join(msgs, "; "))
		}
		logger.Error("invalid app config", zap.Error(err))
		return fmt.Errorf("invalid app config: %w", err)
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.SessionKey == devSessionKey || len(appCfg.SessionKey) < 32 {
			return errors.New("session_key must be set to at least 32 characters in production")
		}
	}
	return nil
}
