package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skyreport-dev/skyreport/internal/middleware/metrics"
	"github.com/skyreport-dev/skyreport/internal/setup"

	mw "github.com/skyreport-dev/skyreport/internal/middleware"
)

// New builds the chi router with all routes wired to the handlers.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// JSON API only, no scripts or styles needed
	csp := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.SecureCookies, csp))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
		})

		// Logged-in user routes
		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())

			r.Route("/reports", func(r chi.Router) {
				r.Post("/", h.CreateReport)
				r.Get("/", h.ListReports)
				r.Get("/{report}", h.GetReport)
				r.Put("/{report}/status", h.UpdateReportStatus)
				r.Delete("/{report}", h.DeleteReport)
			})

			r.Route("/messages", func(r chi.Router) {
				r.Post("/", h.SendMessage)
				r.Get("/inbox", h.Inbox)
				r.Get("/outbox", h.Outbox)
				r.Put("/{message}/read", h.MarkMessageRead)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.ListNotifications)
				r.Put("/read", h.MarkAllNotificationsRead)
				r.Put("/{notification}/read", h.MarkNotificationRead)
			})

			r.Get("/settings", h.GetSettings)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMw.AdminOnly())

			r.Get("/accounts", h.ListAccounts)
			r.Post("/accounts", h.CreateAccount)
			r.Put("/accounts/{account}", h.UpdateAccount)
			r.Delete("/accounts/{account}", h.DeleteAccount)

			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)
			r.Get("/audit", h.AuditLog)
		})
	})

	// Avoid 404s for preflight requests
	r.MethodFunc(http.MethodOptions, "/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
