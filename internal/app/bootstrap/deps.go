// internal/app/bootstrap/deps.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/institutehub/internal/app/resources"
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/auth"
	"github.com/dalemusser/institutehub/internal/app/system/crudeditor"
	"github.com/dalemusser/institutehub/internal/app/system/imageprep"
	"github.com/dalemusser/institutehub/internal/app/system/metrics"
	"github.com/dalemusser/institutehub/internal/app/system/ratelimit"
	"github.com/dalemusser/institutehub/internal/app/system/timeouts"
	"github.com/dalemusser/institutehub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Deps holds the long-lived backends shared by every handler. The content
// API is the only store; everything else here is process-local state.
type Deps struct {
	Transport      *apiclient.Transport
	Metrics        *metrics.Metrics
	Sessions       *auth.SessionManager
	Registry       *crudeditor.Registry
	Previews       *imageprep.PreviewStore
	LoginLimiter   *ratelimit.LoginLimiter
	ContactLimiter *ratelimit.Limiter
	Sweeper        *workers.Sweeper
}

// Resources returns the dependency bundle the admin catalogue opens editors with.
func (d Deps) Resources(logger *zap.Logger) resources.Deps {
	return resources.Deps{
		Transport: d.Transport,
		Registry:  d.Registry,
		Previews:  d.Previews,
		Logger:    logger,
		BasePath:  "/admin",
	}
}

// ConnectDB builds the content API transport and the in-memory stores.
//
// The API is pinged once; an unreachable API is logged but does not stop
// startup, since public pages degrade and /health reports it.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (Deps, error) {
	timeouts.Configure(timeouts.Config{API: appCfg.APITimeout})
	m := metrics.New()

	tr, err := apiclient.NewTransport(apiclient.Options{
		BaseURL: appCfg.APIBaseURL,
		Timeout: appCfg.APITimeout,
		Logger:  logger,
		Metrics: m,
	})
	if err != nil {
		return Deps{}, fmt.Errorf("content api: %w", err)
	}

	secure := coreCfg != nil && coreCfg.Env == "prod"
	sm, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return Deps{}, err
	}

	deps := Deps{
		Transport:      tr,
		Metrics:        m,
		Sessions:       sm,
		Registry:       crudeditor.NewRegistry(appCfg.EditorIdleTTL, logger),
		Previews:       imageprep.NewPreviewStore(appCfg.PreviewTTL, logger),
		LoginLimiter:   ratelimit.NewLoginLimiter(appCfg.LoginRateLimit),
		ContactLimiter: ratelimit.New(appCfg.ContactRateLimit, time.Minute),
	}
	deps.Sweeper = workers.NewSweeper(logger, appCfg.SweepInterval,
		workers.Job{Name: "editors", Sweep: deps.Registry.Sweep},
		workers.Job{Name: "previews", Sweep: deps.Previews.Sweep},
		workers.Job{Name: "login-limiter", Sweep: deps.LoginLimiter.Sweep},
		workers.Job{Name: "contact-limiter", Sweep: deps.ContactLimiter.Sweep},
	)

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := tr.Ping(pingCtx); err != nil {
		logger.Warn("content API not reachable at startup", zap.String("base_url", tr.BaseURL()), zap.Error(err))
	} else {
		logger.Info("content API reachable", zap.String("base_url", tr.BaseURL()))
	}

	return deps, nil
}

// EnsureSchema checks the admin catalogue. The API owns its own schema, so
// the only thing to verify locally is that resource keys are unique.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	seen := make(map[string]bool)
	for _, b := range resources.Catalog() {
		key := b.Info().Key
		if seen[key] {
			return fmt.Errorf("duplicate admin resource key %q", key)
		}
		seen[key] = true
	}
	logger.Info("admin catalogue ready", zap.Int("resources", len(seen)))
	return nil
}
