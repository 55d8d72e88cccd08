package settlement

// RecordPaymentRequest represents the request to record a settlement payment
type RecordPaymentRequest struct {
	GroupID    int64   `json:"group_id" validate:"required"`
	ReceiverID int64   `json:"receiver_id" validate:"required"`
	Amount     string  `json:"amount" validate:"required"`
	Note       *string `json:"note,omitempty" validate:"omitempty,max=255"`
}

// BalanceResponse is one participant's net position in a group
type BalanceResponse struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// SettlementResponse is one suggested payment
type SettlementResponse struct {
	FromUserID int64  `json:"from_user_id"`
	FromName   string `json:"from_name"`
	ToUserID   int64  `json:"to_user_id"`
	ToName     string `json:"to_name"`
	Amount     string `json:"amount"`
}

// PaymentResponse represents a recorded payment
type PaymentResponse struct {
	ID           int64   `json:"id"`
	GroupID      int64   `json:"group_id"`
	PayerID      int64   `json:"payer_id"`
	PayerName    string  `json:"payer_name"`
	ReceiverID   int64   `json:"receiver_id"`
	ReceiverName string  `json:"receiver_name"`
	Amount       string  `json:"amount"`
	Note         *string `json:"note,omitempty"`
	PaidAt       string  `json:"paid_at"`
}

// OweEntry is one non-payer share of an expense
type OweEntry struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// OverviewExpense is an expense annotated for the settlement view. Owes
// lists who owes the payer for it; the payer's own share is left out.
type OverviewExpense struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Amount      string      `json:"amount"`
	PayerID     int64       `json:"payer_id"`
	PayerName   string      `json:"payer_name"`
	CreatedAt   string      `json:"created_at"`
	Owes        []*OweEntry `json:"owes"`
}

// GroupSettlementsResponse is the full settlement view of a group
type GroupSettlementsResponse struct {
	GroupID     int64                 `json:"group_id"`
	GroupName   string                `json:"group_name"`
	Balances    []*BalanceResponse    `json:"balances"`
	Settlements []*SettlementResponse `json:"settlements"`
	Expenses    []*OverviewExpense    `json:"expenses"`
	Payments    []*PaymentResponse    `json:"payments"`
}

// DebtItem is one outstanding suggested payment seen from a single user
type DebtItem struct {
	GroupID          int64  `json:"group_id"`
	GroupName        string `json:"group_name"`
	CounterpartyID   int64  `json:"counterparty_id"`
	CounterpartyName string `json:"counterparty_name"`
	Amount           string `json:"amount"`
}

// DebtsSummaryResponse aggregates a user's position across all their groups
type DebtsSummaryResponse struct {
	TotalIOwe     string             `json:"total_i_owe"`
	TotalOwedToMe string             `json:"total_owed_to_me"`
	IOwe          []*DebtItem        `json:"i_owe"`
	OwedToMe      []*DebtItem        `json:"owed_to_me"`
	PaymentsMade  []*PaymentResponse `json:"payments_made"`
}

// ToResponse converts a Payment model to a PaymentResponse DTO
func (p *Payment) ToResponse() *PaymentResponse {
	return &PaymentResponse{
		ID:           p.ID,
		GroupID:      p.GroupID,
		PayerID:      p.PayerID,
		PayerName:    p.PayerDisplayName(),
		ReceiverID:   p.ReceiverID,
		ReceiverName: p.ReceiverDisplayName(),
		Amount:       p.Amount.StringFixed(2),
		Note:         p.Note,
		PaidAt:       p.PaidAt.Format("2006-01-02T15:04:05Z"),
	}
}
