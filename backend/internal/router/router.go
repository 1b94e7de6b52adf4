package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itchan-dev/modcore/backend/internal/handler"
	mw "github.com/itchan-dev/modcore/backend/internal/middleware"
	"github.com/itchan-dev/modcore/shared/config"
	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/itchan-dev/modcore/shared/middleware/metrics"
)

// New creates the chi router with all the routes.
func New(h *handler.Handler, auth *mw.Auth, loginLimiter mw.Limiter, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(mw.SecurityHeaders(cfg.Public.SecureCookies))
	r.Use(metrics.Middleware)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/manage", func(r chi.Router) {
		// store calls of a request share one deadline
		r.Use(middleware.Timeout(cfg.Public.RequestTimeout))
		r.Use(auth.Identify)

		r.With(mw.RateLimit(loginLimiter, mw.ByIP)).Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(domain.RoleNone))
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})

		action := func(name string, fn http.HandlerFunc) {
			r.With(mw.RequireRole(cfg.Public.MinRole(name))).Post("/"+name, fn)
		}
		action(domain.ActionImport, h.Import)
		action(domain.ActionRebuild, h.Rebuild)
		action(domain.ActionDelete, h.Delete)
		action(domain.ActionApprove, h.Approve)
		action(domain.ActionToggleLock, h.ToggleLock)
		action(domain.ActionToggleSticky, h.ToggleSticky)

		r.With(mw.RequireRole(domain.RoleAdmin)).Get("/logs", h.Logs)
	})

	return r
}
