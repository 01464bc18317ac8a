package service

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/skyreport-dev/skyreport/internal/domain"
	internal_errors "github.com/skyreport-dev/skyreport/internal/errors"
)

// to mock service in tests
type MessageService interface {
	Send(ctx context.Context, sender domain.Account, recipientEmail, subject, body string) error
	Inbox(ctx context.Context, accountId domain.AccountId) ([]domain.Message, error)
	Outbox(ctx context.Context, accountId domain.AccountId) ([]domain.Message, error)
	MarkRead(ctx context.Context, accountId domain.AccountId, id domain.MessageId) error
}

type MessageStorage interface {
	AccountIdByEmail(ctx context.Context, email domain.Email) (domain.AccountId, error)
	SaveMessage(ctx context.Context, m domain.Message) error
	MessagesTo(ctx context.Context, accountId domain.AccountId) ([]domain.Message, error)
	MessagesFrom(ctx context.Context, accountId domain.AccountId) ([]domain.Message, error)
	MarkMessageRead(ctx context.Context, accountId domain.AccountId, id domain.MessageId) error
	SaveNotification(ctx context.Context, n domain.Notification) error
}

type Message struct {
	storage MessageStorage
	policy  *bluemonday.Policy
}

func NewMessage(storage MessageStorage) *Message {
	return &Message{storage: storage, policy: bluemonday.StrictPolicy()}
}

func (s *Message) Send(ctx context.Context, sender domain.Account, recipientEmail, subject, body string) error {
	recipientId, err := s.storage.AccountIdByEmail(ctx, strings.ToLower(strings.TrimSpace(recipientEmail)))
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return internal_errors.NotFound("Recipient not found")
		}
		return err
	}
	if recipientId == sender.Id {
		return internal_errors.BadRequest("Can't message yourself")
	}

	subject = strings.TrimSpace(s.policy.Sanitize(subject))
	body = strings.TrimSpace(s.policy.Sanitize(body))
	if subject == "" || body == "" {
		return internal_errors.BadRequest("Subject and body are required")
	}

	if err := s.storage.SaveMessage(ctx, domain.Message{
		SenderId:    sender.Id,
		RecipientId: recipientId,
		Subject:     subject,
		Body:        body,
	}); err != nil {
		return err
	}

	// Inbox badge for the recipient; the message itself is already stored.
	_ = s.storage.SaveNotification(ctx, domain.Notification{
		AccountId: recipientId,
		Body:      "New message from " + sender.Email + ": " + subject,
	})
	return nil
}

func (s *Message) Inbox(ctx context.Context, accountId domain.AccountId) ([]domain.Message, error) {
	return s.storage.MessagesTo(ctx, accountId)
}

func (s *Message) Outbox(ctx context.Context, accountId domain.AccountId) ([]domain.Message, error) {
	return s.storage.MessagesFrom(ctx, accountId)
}

func (s *Message) MarkRead(ctx context.Context, accountId domain.AccountId, id domain.MessageId) error {
	return s.storage.MarkMessageRead(ctx, accountId, id)
}

// to mock service in tests
type NotificationService interface {
	List(ctx context.Context, accountId domain.AccountId) ([]domain.Notification, error)
	MarkRead(ctx context.Context, accountId domain.AccountId, id domain.NotificationId) error
	MarkAllRead(ctx context.Context, accountId domain.AccountId) error
}

type NotificationStorage interface {
	Notifications(ctx context.Context, accountId domain.AccountId) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, accountId domain.AccountId, id domain.NotificationId) error
	MarkAllNotificationsRead(ctx context.Context, accountId domain.AccountId) error
}

type Notification struct {
	storage NotificationStorage
}

func NewNotification(storage NotificationStorage) *Notification {
	return &Notification{storage: storage}
}

func (s *Notification) List(ctx context.Context, accountId domain.AccountId) ([]domain.Notification, error) {
	return s.storage.Notifications(ctx, accountId)
}

func (s *Notification) MarkRead(ctx context.Context, accountId domain.AccountId, id domain.NotificationId) error {
	return s.storage.MarkNotificationRead(ctx, accountId, id)
}

func (s *Notification) MarkAllRead(ctx context.Context, accountId domain.AccountId) error {
	return s.storage.MarkAllNotificationsRead(ctx, accountId)
}
