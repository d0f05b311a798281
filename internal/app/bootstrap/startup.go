// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/institutehub/internal/app/resources"
	"github.com/dalemusser/institutehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the backends are
// built but before the HTTP handler is. It loads the shared templates, links
// the session lifecycle to the editor registry and starts the sweeper.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	viewdata.SetSiteName(appCfg.SiteName)

	deps.Sessions.SetVerifier(deps.Transport, appCfg.VerifyEvery)
	deps.Sessions.OnSignOut(func(sessionID string) {
		// Closing an editor also releases the previews it owns.
		n := deps.Registry.CloseSession(sessionID)
		logger.Info("admin signed out", zap.Int("editors_closed", n))
	})

	deps.Metrics.Register(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "admin_open_editors",
			Help: "Admin editors currently held in memory",
		}, func() float64 { return float64(deps.Registry.Len()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "image_previews",
			Help: "Processed image previews currently held in memory",
		}, func() float64 { return float64(deps.Previews.Len()) }),
	)

	deps.Sweeper.Start()
	logger.Info("startup complete", zap.String("site_name", appCfg.SiteName))
	return nil
}
