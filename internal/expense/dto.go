package expense

// SplitValue carries one participant's raw split input. Values arrive as
// locale-formatted strings ("50", "33,34", "1.234,56") and are parsed at
// the service boundary; past it everything is exact decimals.
type SplitValue struct {
	UserID     int64   `json:"user_id" validate:"required"`
	Amount     *string `json:"amount,omitempty"`     // For EXACT_VALUE split
	Percentage *string `json:"percentage,omitempty"` // For PERCENTAGE split
}

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	GroupID     int64        `json:"group_id" validate:"required"`
	Description string       `json:"description" validate:"required,min=1,max=255"`
	Amount      string       `json:"amount" validate:"required"`
	PaidBy      int64        `json:"paid_by" validate:"required"`
	SplitMethod string       `json:"split_method" validate:"required,oneof=EQUAL EXACT_VALUE PERCENTAGE"`
	Splits      []SplitValue `json:"splits,omitempty" validate:"omitempty,dive"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID          int64            `json:"id"`
	GroupID     int64            `json:"group_id"`
	Description string           `json:"description"`
	Amount      string           `json:"amount"`
	PaidBy      int64            `json:"paid_by"`
	PayerName   string           `json:"payer_name,omitempty"`
	SplitMethod string           `json:"split_method"`
	CreatedAt   string           `json:"created_at"`
	Splits      []*SplitResponse `json:"splits,omitempty"`
}

// SplitResponse represents one owed share in an expense response
type SplitResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	Name       string `json:"name,omitempty"`
	AmountOwed string `json:"amount_owed"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		PaidBy:      e.PaidBy,
		PayerName:   e.PayerDisplayName(),
		SplitMethod: string(e.SplitMethod),
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts an ExpenseSplit model to a SplitResponse DTO
func (s *ExpenseSplit) ToResponse() *SplitResponse {
	return &SplitResponse{
		ID:         s.ID,
		UserID:     s.UserID,
		Name:       s.DisplayName(),
		AmountOwed: s.AmountOwed.StringFixed(2),
	}
}
