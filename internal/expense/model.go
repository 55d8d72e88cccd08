package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/LuccaDangelo/RachAi/internal/expense/split"
	"github.com/LuccaDangelo/RachAi/internal/user"
)

// Expense represents an expense registered in a group
type Expense struct {
	ID          int64           `json:"id"`
	GroupID     int64           `json:"group_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      int64           `json:"paid_by"`
	SplitMethod split.Method    `json:"split_method"`
	CreatedAt   time.Time       `json:"created_at"`

	// Populated via JOIN
	PayerUsername string  `json:"payer_username,omitempty"`
	PayerFullName *string `json:"payer_full_name,omitempty"`
}

// PayerDisplayName returns the payer's presentable name
func (e *Expense) PayerDisplayName() string {
	return user.DisplayNameFor(e.PayerUsername, e.PayerFullName)
}

// ExpenseSplit is one participant's owed share of an expense. The rows of
// an expense always sum to its amount, cent for cent; the split calculator
// guarantees it before anything is written.
type ExpenseSplit struct {
	ID         int64           `json:"id"`
	ExpenseID  int64           `json:"expense_id"`
	UserID     int64           `json:"user_id"`
	AmountOwed decimal.Decimal `json:"amount_owed"`

	// Populated via JOIN
	Username string  `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// DisplayName returns the split owner's presentable name
func (s *ExpenseSplit) DisplayName() string {
	return user.DisplayNameFor(s.Username, s.FullName)
}

// ExpenseWithSplits combines an expense with its split rows
type ExpenseWithSplits struct {
	Expense *Expense
	Splits  []*ExpenseSplit
}
