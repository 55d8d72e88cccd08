package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/LuccaDangelo/RachAi/internal/expense"
	"github.com/LuccaDangelo/RachAi/internal/money"
)

// Balances maps users to their net position in a group: positive means the
// group owes them, negative means they owe the group. Insertion order is
// kept so settlement suggestions come out the same on every call.
type Balances struct {
	order   []int64
	amounts map[int64]decimal.Decimal
}

// NewBalances creates an empty balance sheet
func NewBalances() *Balances {
	return &Balances{amounts: make(map[int64]decimal.Decimal)}
}

// Touch registers a user with a zero balance if not seen yet
func (b *Balances) Touch(userID int64) {
	if _, ok := b.amounts[userID]; !ok {
		b.order = append(b.order, userID)
		b.amounts[userID] = decimal.Zero
	}
}

// Add applies a delta to a user's balance
func (b *Balances) Add(userID int64, delta decimal.Decimal) {
	b.Touch(userID)
	b.amounts[userID] = b.amounts[userID].Add(delta)
}

// Get returns a user's current balance
func (b *Balances) Get(userID int64) decimal.Decimal {
	return b.amounts[userID]
}

// UserIDs returns all registered users in insertion order
func (b *Balances) UserIDs() []int64 {
	return b.order
}

// Transfer is one suggested settlement payment
type Transfer struct {
	FromUserID int64
	ToUserID   int64
	Amount     decimal.Decimal
}

// CalculateBalances derives every participant's net position from the
// group's full expense and payment history. Participants are registered
// first, in join order, so users with no activity still appear at zero.
//
// Each expense credits its payer with the full amount and debits every
// split holder, the payer's own share included, so payers net out what
// they owe themselves. Each recorded payment moves value from payer to
// receiver.
func CalculateBalances(participantIDs []int64, expenses []*expense.ExpenseWithSplits, payments []*Payment) *Balances {
	balances := NewBalances()
	for _, id := range participantIDs {
		balances.Touch(id)
	}

	for _, item := range expenses {
		balances.Add(item.Expense.PaidBy, item.Expense.Amount)
		for _, s := range item.Splits {
			balances.Add(s.UserID, s.AmountOwed.Neg())
		}
	}

	for _, p := range payments {
		balances.Add(p.PayerID, p.Amount)
		balances.Add(p.ReceiverID, p.Amount.Neg())
	}

	return balances
}

// CalculateSettlements pairs debtors with creditors greedily, both sides
// walked in insertion order, so the plan is deterministic. Balances inside
// the one-cent tolerance are treated as settled and skipped. The plan
// produced at most len(users)-1 transfers; it is not guaranteed minimal,
// just small and stable.
func CalculateSettlements(balances *Balances) []Transfer {
	var debtors, creditors []int64
	remaining := make(map[int64]decimal.Decimal)

	for _, id := range balances.UserIDs() {
		amount := balances.Get(id)
		if money.IsNegligible(amount) {
			continue
		}
		if amount.IsNegative() {
			debtors = append(debtors, id)
			remaining[id] = amount.Neg()
		} else {
			creditors = append(creditors, id)
			remaining[id] = amount
		}
	}

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := debtors[i], creditors[j]

		amount := decimal.Min(remaining[debtor], remaining[creditor])
		amount = money.Quantize(amount)
		transfers = append(transfers, Transfer{
			FromUserID: debtor,
			ToUserID:   creditor,
			Amount:     amount,
		})

		remaining[debtor] = remaining[debtor].Sub(amount)
		remaining[creditor] = remaining[creditor].Sub(amount)

		if remaining[debtor].LessThan(money.Tolerance) {
			i++
		}
		if remaining[creditor].LessThan(money.Tolerance) {
			j++
		}
	}

	return transfers
}
