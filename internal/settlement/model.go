package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/LuccaDangelo/RachAi/internal/user"
)

// Payment represents a settlement payment recorded in a group
type Payment struct {
	ID         int64           `json:"id"`
	GroupID    int64           `json:"group_id"`
	PayerID    int64           `json:"payer_id"`
	ReceiverID int64           `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       *string         `json:"note,omitempty"`
	CreatedBy  int64           `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
	PaidAt     time.Time       `json:"paid_at"`

	// Populated via JOIN
	PayerUsername    string  `json:"payer_username,omitempty"`
	PayerFullName    *string `json:"payer_full_name,omitempty"`
	ReceiverUsername string  `json:"receiver_username,omitempty"`
	ReceiverFullName *string `json:"receiver_full_name,omitempty"`
}

// PayerDisplayName returns the payer's presentable name
func (p *Payment) PayerDisplayName() string {
	return user.DisplayNameFor(p.PayerUsername, p.PayerFullName)
}

// ReceiverDisplayName returns the receiver's presentable name
func (p *Payment) ReceiverDisplayName() string {
	return user.DisplayNameFor(p.ReceiverUsername, p.ReceiverFullName)
}
