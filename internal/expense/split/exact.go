package split

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LuccaDangelo/RachAi/internal/money"
)

// =============================================================================
// EXACT VALUE SPLIT STRATEGY
// Each participant owes a specific submitted amount (must sum to the total)
// =============================================================================

// ExactValueStrategy implements the Strategy interface for exact-value splits
type ExactValueStrategy struct{}

// Method returns the split method identifier
func (s *ExactValueStrategy) Method() Method {
	return MethodExactValue
}

// Validate checks that every submitted value is non-negative and that the
// quantized values sum to the expense amount exactly. A missing value counts
// as zero. Any discrepancy, even a single cent, is an error: there is no
// remainder redistribution for this method.
func (s *ExactValueStrategy) Validate(amount decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	sum := decimal.Zero
	for _, p := range participants {
		v := valueOrZero(p.Amount)
		if v.IsNegative() {
			return ErrNegativeAmount
		}
		sum = sum.Add(money.Quantize(v))
	}

	if !sum.Equal(amount) {
		return fmt.Errorf("%w: submitted values sum to %s, off by %s",
			ErrExactSum, sum.StringFixed(2), amount.Sub(sum).StringFixed(2))
	}

	return nil
}

// Calculate returns the quantized submitted amounts. Zero-valued shares are
// dropped from the result; they carry no debt and no split row is stored
// for them.
func (s *ExactValueStrategy) Calculate(amount decimal.Decimal, participants []Input) ([]Share, error) {
	if err := s.Validate(amount, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, 0, len(participants))
	for _, p := range participants {
		owed := money.Quantize(valueOrZero(p.Amount))
		if owed.IsZero() {
			continue
		}
		shares = append(shares, Share{UserID: p.UserID, AmountOwed: owed})
	}

	return shares, nil
}
