package split

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Method defines how an expense amount is distributed among participants
type Method string

const (
	MethodEqual      Method = "EQUAL"
	MethodExactValue Method = "EXACT_VALUE"
	MethodPercentage Method = "PERCENTAGE"
)

// Input represents one group participant entering a split. Amount is only
// read by EXACT_VALUE, Percentage only by PERCENTAGE; a nil value counts
// as zero.
type Input struct {
	UserID     int64            `json:"user_id"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`     // For EXACT_VALUE split
	Percentage *decimal.Decimal `json:"percentage,omitempty"` // For PERCENTAGE split
}

// Share is the calculated owed amount for a single participant
type Share struct {
	UserID     int64           `json:"user_id"`
	AmountOwed decimal.Decimal `json:"amount_owed"`
}

// Strategy is the interface that all split strategies must implement.
// Every strategy guarantees that the shares it returns sum to the expense
// amount exactly, cent for cent. The payer is a regular participant here:
// their own share is produced like everyone else's and the balance engine
// nets it against the full amount they are credited with.
type Strategy interface {
	// Calculate computes the owed share for every participant
	Calculate(amount decimal.Decimal, participants []Input) ([]Share, error)

	// Method returns the method identifier for this strategy
	Method() Method

	// Validate checks if the inputs are valid for this strategy
	Validate(amount decimal.Decimal, participants []Input) error
}

// Factory creates split strategies based on the requested method
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy implementation for the given method
func (f *Factory) Create(method Method) (Strategy, error) {
	switch method {
	case MethodEqual:
		return &EqualStrategy{}, nil
	case MethodExactValue:
		return &ExactValueStrategy{}, nil
	case MethodPercentage:
		return &PercentageStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

// CreateFromString creates a strategy from a raw method string
func (f *Factory) CreateFromString(method string) (Strategy, error) {
	return f.Create(Method(method))
}

var (
	ErrUnknownMethod        = errors.New("unknown split method")
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrNegativeAmount       = errors.New("amounts cannot be negative")
	ErrNegativePercentage   = errors.New("percentages cannot be negative")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
	ErrPercentageSum        = errors.New("percentages must sum to exactly 100")
	ErrExactSum             = errors.New("exact amounts must sum to the expense amount")
)

var hundred = decimal.NewFromInt(100)

// valueOrZero dereferences an optional decimal input
func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
