package notification

import "time"

// Kind classifies what a notification is about
type Kind string

const (
	KindExpenseAdded    Kind = "EXPENSE_ADDED"
	KindPaymentReceived Kind = "PAYMENT_RECEIVED"
)

// Notification represents an in-app notification for a user
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	GroupID   *int64    `json:"group_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
