// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	userstore "github.com/dalemusser/gatehouse/internal/app/store/users"
	"github.com/dalemusser/gatehouse/internal/app/system/timeouts"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. Gatehouse
// uses it to log whether the system still needs its first principal, which
// is the first thing an operator wants to know on a fresh deploy.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	startCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	n, err := userstore.New(deps.MongoDatabase).CountPrincipals(startCtx)
	if err != nil {
		logger.Warn("startup: principal count failed", zap.Error(err))
		return nil
	}
	if n == 0 {
		logger.Info("no principal account exists yet; first principal signup will self-approve")
	} else {
		logger.Info("principal accounts present", zap.Int64("count", n))
	}
	return nil
}
