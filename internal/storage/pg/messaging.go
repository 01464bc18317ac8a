package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/skyreport-dev/skyreport/internal/domain"
)

func (s *Storage) SaveMessage(ctx context.Context, m domain.Message) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO messages(sender_id, recipient_id, subject, body)
        VALUES($1, $2, $3, $4)`,
		m.SenderId, m.RecipientId, m.Subject, m.Body)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (s *Storage) MessagesTo(ctx context.Context, accountId domain.AccountId) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, sender_id, recipient_id, subject, body, read, created_at
        FROM messages WHERE recipient_id = $1 ORDER BY created_at DESC`, accountId)
	if err != nil {
		return nil, fmt.Errorf("failed to query inbox: %w", err)
	}
	return collectMessages(rows)
}

func (s *Storage) MessagesFrom(ctx context.Context, accountId domain.AccountId) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, sender_id, recipient_id, subject, body, read, created_at
        FROM messages WHERE sender_id = $1 ORDER BY created_at DESC`, accountId)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	return collectMessages(rows)
}

func collectMessages(rows *sql.Rows) ([]domain.Message, error) {
	defer rows.Close()
	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Id, &m.SenderId, &m.RecipientId, &m.Subject, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkMessageRead only touches messages addressed to accountId.
func (s *Storage) MarkMessageRead(ctx context.Context, accountId domain.AccountId, id domain.MessageId) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE messages SET read = true WHERE id = $1 AND recipient_id = $2", id, accountId)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return requireRowsAffected(result, "Message not found")
}

func (s *Storage) SaveNotification(ctx context.Context, n domain.Notification) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notifications(account_id, body) VALUES($1, $2)", n.AccountId, n.Body)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (s *Storage) Notifications(ctx context.Context, accountId domain.AccountId) ([]domain.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, account_id, body, read, created_at
        FROM notifications WHERE account_id = $1 ORDER BY created_at DESC`, accountId)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.Id, &n.AccountId, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *Storage) MarkNotificationRead(ctx context.Context, accountId domain.AccountId, id domain.NotificationId) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = true WHERE id = $1 AND account_id = $2", id, accountId)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return requireRowsAffected(result, "Notification not found")
}

func (s *Storage) MarkAllNotificationsRead(ctx context.Context, accountId domain.AccountId) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = true WHERE account_id = $1 AND NOT read", accountId)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
