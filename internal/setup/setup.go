package setup

import (
	"github.com/skyreport-dev/skyreport/internal/audit"
	"github.com/skyreport-dev/skyreport/internal/config"
	"github.com/skyreport-dev/skyreport/internal/handler"
	"github.com/skyreport-dev/skyreport/internal/jwt"
	"github.com/skyreport-dev/skyreport/internal/middleware"
	"github.com/skyreport-dev/skyreport/internal/ratelimit"
	"github.com/skyreport-dev/skyreport/internal/service"
	"github.com/skyreport-dev/skyreport/internal/storage/pg"
)

// Dependencies holds all initialized collaborators for the application.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Jwt            jwt.JwtService
}

// SetupDependencies initializes the full dependency graph.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	limiter := ratelimit.New(storage)
	recorder := audit.NewRecorder(storage, cfg.Private.AuditWebhookURL)

	auth := service.NewAuth(storage, limiter, recorder, jwtService, cfg)
	reports := service.NewReport(storage, cfg.Public.ReportsPerPage)
	messages := service.NewMessage(storage)
	notifications := service.NewNotification(storage)
	accounts := service.NewAccounts(storage)
	settings := service.NewSettings(storage)
	auditLog := service.NewAuditLog(storage)

	h := handler.New(auth, reports, messages, notifications, accounts, settings, auditLog, storage, cfg)
	authMw := middleware.NewAuth(jwtService, cfg.Public.SecureCookies)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
		Jwt:            jwtService,
	}, nil
}
