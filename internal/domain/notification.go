package domain

import (
	"time"

	"github.com/google/uuid"
)

// InAppNotification is a persisted inbox entry shown in the user's notification center.
type InAppNotification struct {
	ID        uuid.UUID              `json:"id"`
	UserID    string                 `json:"user_id"`
	Category  string                 `json:"category"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Body      *string                `json:"body,omitempty"`
	Status    string                 `json:"status"`
	Data      map[string]interface{} `json:"data,omitempty"`
	DedupeKey *string                `json:"-"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// MailMessage is queued for the mailer worker.
type MailMessage struct {
	ID       string            `json:"id"`
	To       string            `json:"to"`
	Subject  string            `json:"subject"`
	Body     string            `json:"body"`
	Template string            `json:"template"`
	Data     map[string]string `json:"data,omitempty"`
	QueuedAt time.Time         `json:"queued_at"`
}

// User is the subset of the users table the notification layer needs.
type User struct {
	ID       string
	Email    string
	FullName string
	Role     string
}
