package models

import "time"

// Notification type tags used by the workflow.
const (
	NotifBookDonated       = "book_donated"
	NotifBookRequest       = "book_request"
	NotifRequestSent       = "request_sent"
	NotifRequestAccepted   = "request_accepted"
	NotifRequestRejected   = "request_rejected"
	NotifContactShared     = "contact_shared"
	NotifExchangeCompleted = "exchange_completed"
	NotifRequestReminder   = "request_reminder"
)

type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Type      string    `json:"type" db:"type"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Read      bool      `json:"read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateNotificationPayload mirrors the create_book_notification remote
// procedure: target user, type tag, title, message.
type CreateNotificationPayload struct {
	UserID  string `json:"user_id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
