package split

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LuccaDangelo/RachAi/internal/money"
)

// =============================================================================
// PERCENTAGE SPLIT STRATEGY
// Divides the expense based on a submitted percentage per participant
// =============================================================================

// PercentageStrategy implements the Strategy interface for percentage splits
type PercentageStrategy struct{}

// Method returns the split method identifier
func (s *PercentageStrategy) Method() Method {
	return MethodPercentage
}

// Validate checks that every percentage is within [0, 100] and that the
// quantized percentages sum to exactly 100.00. A missing percentage counts
// as zero.
func (s *PercentageStrategy) Validate(amount decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	sum := decimal.Zero
	for _, p := range participants {
		pct := valueOrZero(p.Percentage)
		if pct.IsNegative() {
			return ErrNegativePercentage
		}
		if pct.GreaterThan(hundred) {
			return ErrPercentageOutOfRange
		}
		sum = sum.Add(money.Quantize(pct))
	}

	if !sum.Equal(hundred) {
		return fmt.Errorf("%w: submitted percentages sum to %s",
			ErrPercentageSum, sum.StringFixed(2))
	}

	return nil
}

// Calculate computes each share as round(amount * pct / 100, 2). Rounding
// the shares independently can leave a cent-level gap against the amount
// in either direction. A shortfall is added to the first participant's
// share; an overshoot is clawed back from the shares in order, taking from
// each only what it can give up without going negative. Zero-valued shares
// are dropped afterwards.
func (s *PercentageStrategy) Calculate(amount decimal.Decimal, participants []Input) ([]Share, error) {
	if err := s.Validate(amount, participants); err != nil {
		return nil, err
	}

	owed := make([]decimal.Decimal, len(participants))
	distributed := decimal.Zero
	for i, p := range participants {
		pct := money.Quantize(valueOrZero(p.Percentage))
		owed[i] = money.Quantize(amount.Mul(pct).Div(hundred))
		distributed = distributed.Add(owed[i])
	}

	leftover := amount.Sub(distributed)
	if leftover.IsPositive() {
		owed[0] = owed[0].Add(leftover)
	} else if leftover.IsNegative() {
		excess := leftover.Neg()
		for i := range owed {
			if excess.IsZero() {
				break
			}
			take := decimal.Min(owed[i], excess)
			owed[i] = owed[i].Sub(take)
			excess = excess.Sub(take)
		}
	}

	shares := make([]Share, 0, len(participants))
	for i, p := range participants {
		if owed[i].IsZero() {
			continue
		}
		shares = append(shares, Share{UserID: p.UserID, AmountOwed: owed[i]})
	}

	return shares, nil
}
