package split

import (
	"github.com/shopspring/decimal"

	"github.com/LuccaDangelo/RachAi/internal/money"
)

// =============================================================================
// EQUAL SPLIT STRATEGY
// Divides the expense equally among all participants
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Method returns the split method identifier
func (s *EqualStrategy) Method() Method {
	return MethodEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(amount decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Calculate divides the amount into equal cent-floored shares. The division
// remainder goes entirely to the first participant in iteration order, so
// the shares always reconcile with the amount exactly.
func (s *EqualStrategy) Calculate(amount decimal.Decimal, participants []Input) ([]Share, error) {
	if err := s.Validate(amount, participants); err != nil {
		return nil, err
	}

	count := decimal.NewFromInt(int64(len(participants)))
	perShare := money.FloorCents(amount.Div(count))
	remainder := amount.Sub(perShare.Mul(count))

	shares := make([]Share, len(participants))
	for i, p := range participants {
		owed := perShare
		if i == 0 {
			owed = owed.Add(remainder)
		}
		shares[i] = Share{UserID: p.UserID, AmountOwed: owed}
	}

	return shares, nil
}
