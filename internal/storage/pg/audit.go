package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skyreport-dev/skyreport/internal/domain"
)

// SaveAuditEntry appends one login audit record. The table is append-only;
// nothing in this codebase updates or deletes rows from it.
func (s *Storage) SaveAuditEntry(ctx context.Context, entry domain.AuditEntry) error {
	var fields []byte
	if entry.Fields != nil {
		var err error
		if fields, err = json.Marshal(entry.Fields); err != nil {
			return fmt.Errorf("failed to marshal audit fields: %w", err)
		}
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO audit_log(id, event, outcome, email, ip, user_agent, fields, created_at)
        VALUES($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.Id, entry.Event, entry.Outcome, entry.Email, entry.IP, entry.UserAgent, fields, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// AuditEntries returns recent entries, newest first. Read path for the admin
// console.
func (s *Storage) AuditEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, event, outcome, email, ip, user_agent, COALESCE(fields, '{}'), created_at
        FROM audit_log ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var fields []byte
		if err := rows.Scan(&e.Id, &e.Event, &e.Outcome, &e.Email, &e.IP, &e.UserAgent, &fields, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if err := json.Unmarshal(fields, &e.Fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit fields: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
