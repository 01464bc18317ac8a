package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/skyreport-dev/skyreport/internal/config"
	"github.com/skyreport-dev/skyreport/internal/logger"
	"github.com/skyreport-dev/skyreport/internal/service"
)

// HealthChecker reports whether the storage backend is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth          service.AuthService
	reports       service.ReportService
	messages      service.MessageService
	notifications service.NotificationService
	accounts      service.AccountService
	settings      service.SettingsService
	auditLog      service.AuditLogService
	health        HealthChecker
	cfg           *config.Config
}

func New(
	auth service.AuthService,
	reports service.ReportService,
	messages service.MessageService,
	notifications service.NotificationService,
	accounts service.AccountService,
	settings service.SettingsService,
	auditLog service.AuditLogService,
	health HealthChecker,
	cfg *config.Config,
) *Handler {
	return &Handler{auth, reports, messages, notifications, accounts, settings, auditLog, health, cfg}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
