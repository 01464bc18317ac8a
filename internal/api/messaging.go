package api

import "github.com/skyreport-dev/skyreport/internal/domain"

type SendMessageRequest struct {
	RecipientEmail string `json:"recipient_email" validate:"required,email"`
	Subject        string `json:"subject" validate:"required,max=200"`
	Body           string `json:"body" validate:"required,max=10000"`
}

type MessageListResponse struct {
	Messages []domain.Message `json:"messages"`
}

type NotificationListResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}
