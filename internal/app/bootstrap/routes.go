// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	analyticsfeature "github.com/dalemusser/gatehouse/internal/app/features/analytics"
	authfeature "github.com/dalemusser/gatehouse/internal/app/features/auth"
	departmentsfeature "github.com/dalemusser/gatehouse/internal/app/features/departments"
	healthfeature "github.com/dalemusser/gatehouse/internal/app/features/health"
	membersfeature "github.com/dalemusser/gatehouse/internal/app/features/members"
	notificationsfeature "github.com/dalemusser/gatehouse/internal/app/features/notifications"
	reportsfeature "github.com/dalemusser/gatehouse/internal/app/features/reports"
	setupfeature "github.com/dalemusser/gatehouse/internal/app/features/setup"
	usersfeature "github.com/dalemusser/gatehouse/internal/app/features/users"
	visitorsfeature "github.com/dalemusser/gatehouse/internal/app/features/visitors"
	"github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Gatehouse mounts the health probe at the
// root and everything else under /api behind a per-IP rate limit; session
// loading and role gates are applied per feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	apiLimiter := ratelimit.New(appCfg.RateLimitMax, appCfg.RateLimitWindow)

	r.Route("/api", func(api chi.Router) {
		api.Use(apiLimiter.Middleware)

		authHandler := authfeature.NewHandler(db, sessionMgr, logger)
		api.Mount("/auth", authfeature.Routes(authHandler, sessionMgr))

		setupHandler := setupfeature.NewHandler(db, logger)
		api.Mount("/setup", setupfeature.Routes(setupHandler))

		usersHandler := usersfeature.NewHandler(db, logger)
		api.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

		visitorsHandler := visitorsfeature.NewHandler(db, logger)
		api.Mount("/visitors", visitorsfeature.Routes(visitorsHandler, sessionMgr))

		membersHandler := membersfeature.NewHandler(db, logger)
		api.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))

		notificationsHandler := notificationsfeature.NewHandler(db, logger)
		api.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))

		analyticsHandler := analyticsfeature.NewHandler(db, logger)
		api.Mount("/analytics", analyticsfeature.Routes(analyticsHandler, sessionMgr))

		departmentsHandler := departmentsfeature.NewHandler(db, logger)
		api.Mount("/departments", departmentsfeature.Routes(departmentsHandler, sessionMgr))

		reportsHandler := reportsfeature.NewHandler(db, logger)
		api.Mount("/reports", reportsfeature.Routes(reportsHandler, sessionMgr))
	})

	return r, nil
}
