package domain

import "time"

type MessageId = int64

type Message struct {
	Id          MessageId
	SenderId    AccountId
	RecipientId AccountId
	Subject     string
	Body        string
	Read        bool
	CreatedAt   time.Time
}

type NotificationId = int64

type Notification struct {
	Id        NotificationId
	AccountId AccountId
	Body      string
	Read      bool
	CreatedAt time.Time
}
