package service

import (
	"context"

	"github.com/skyreport-dev/skyreport/internal/domain"
)

const maxAuditPage = 500

// to mock service in tests
type AuditLogService interface {
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

type AuditLogStorage interface {
	AuditEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

// AuditLog is the admin-console read side of the login audit trail.
type AuditLog struct {
	storage AuditLogStorage
}

func NewAuditLog(storage AuditLogStorage) *AuditLog {
	return &AuditLog{storage: storage}
}

func (s *AuditLog) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 || limit > maxAuditPage {
		limit = 100
	}
	return s.storage.AuditEntries(ctx, limit)
}
