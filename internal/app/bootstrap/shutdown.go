// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the sweeper and discards every open editor. Unsaved drafts
// are not persisted; the API holds everything that was submitted.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	if deps.Sweeper != nil {
		deps.Sweeper.Stop()
	}
	if deps.Registry != nil {
		n := deps.Registry.CloseAll()
		logger.Info("closed admin editors", zap.Int("count", n))
	}
	return nil
}
