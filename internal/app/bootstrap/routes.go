// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	aboutfeature "github.com/dalemusser/institutehub/internal/app/features/about"
	accountfeature "github.com/dalemusser/institutehub/internal/app/features/account"
	adminfeature "github.com/dalemusser/institutehub/internal/app/features/admin"
	contactfeature "github.com/dalemusser/institutehub/internal/app/features/contact"
	errorsfeature "github.com/dalemusser/institutehub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/institutehub/internal/app/features/health"
	heartbeatfeature "github.com/dalemusser/institutehub/internal/app/features/heartbeat"
	homefeature "github.com/dalemusser/institutehub/internal/app/features/home"
	loginfeature "github.com/dalemusser/institutehub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/institutehub/internal/app/features/logout"
	pagesfeature "github.com/dalemusser/institutehub/internal/app/features/pages"
	previewsfeature "github.com/dalemusser/institutehub/internal/app/features/previews"
	userinfofeature "github.com/dalemusser/institutehub/internal/app/features/userinfo"
	"github.com/dalemusser/institutehub/internal/app/resources"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, backend construction and the
// Startup hook. It boots the template engine and mounts every feature:
// the public site, admin sign-in, and the admin console.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) (http.Handler, error) {
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	return newRouter(appCfg, deps, coreCfg.Env == "prod", logger), nil
}

// newRouter mounts the middleware stack and feature routers.
func newRouter(appCfg AppConfig, deps Deps, secure bool, logger *zap.Logger) chi.Router {
	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()
	sm := deps.Sessions

	r := chi.NewRouter()
	r.Use(deps.Metrics.Middleware)

	// Unauthenticated, non-form endpoints sit outside CSRF protection.
	r.Handle("/metrics", deps.Metrics.Handler())

	healthHandler := healthfeature.NewHandler(deps.Transport, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		if !secure {
			r.Use(markPlaintext)
		}
		r.Use(csrf.Protect(appCfg.CSRFKey,
			csrf.Secure(secure),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.Warn("csrf check failed", zap.String("path", r.URL.Path), zap.Error(csrf.FailureReason(r)))
				errorsfeature.RenderForbidden(w, r, "Your form has expired. Reload the page and try again.", "/")
			})),
		))

		// Global auth middleware: loads SessionUser into context if signed in.
		r.Use(sm.LoadSessionUser)

		// Public pages
		r.Mount("/", homefeature.Routes(homefeature.NewHandler(deps.Transport, logger)))
		r.Mount("/about", aboutfeature.Routes(aboutfeature.NewHandler(deps.Transport, errLog, logger)))

		pages := pagesfeature.NewHandler(deps.Transport, errLog, logger)
		r.Mount("/courses", pages.CoursesRouter())
		r.Mount("/services", pages.ServicesRouter())
		r.Mount("/focus", pages.FocusRouter())
		r.Mount("/gallery", pages.GalleryRouter())
		r.Mount("/results", pages.ResultsRouter())

		contactHandler := contactfeature.NewHandler(deps.Transport, deps.ContactLimiter, errLog, logger)
		r.Mount("/contact", contactfeature.Routes(contactHandler))

		userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

		// Authentication
		loginHandler := loginfeature.NewHandler(deps.Transport, sm, deps.LoginLimiter, errLog, logger)
		r.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sm, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler, sm))

		// Error pages
		r.Get("/forbidden", errorsHandler.Forbidden)

		// Admin console
		r.Group(func(ar chi.Router) {
			ar.Use(sm.RequireAdmin)

			adminHandler := adminfeature.NewHandler(deps.Resources(logger), resources.Catalog(), sm, errLog, logger)
			adminHandler.MaxUpload = appCfg.UploadMaxBytes
			ar.Mount("/admin", adminfeature.Routes(adminHandler))

			ar.Mount("/account", accountfeature.Routes(accountfeature.NewHandler(deps.Transport, sm, errLog, logger)))
			ar.Mount("/previews", previewsfeature.Routes(previewsfeature.NewHandler(deps.Previews, logger)))
		})

		heartbeatHandler := heartbeatfeature.NewHandler(deps.Registry, deps.Previews, logger)
		r.Mount("/heartbeat", heartbeatfeature.Routes(heartbeatHandler, sm))
	})

	r.NotFound(errorsHandler.NotFound)

	return r
}

// markPlaintext tells the CSRF middleware the request arrived over plain
// HTTP so its origin check does not demand an https referer.
func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
