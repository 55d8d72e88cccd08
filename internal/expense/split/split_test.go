package split

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// sumShares adds every calculated share so tests can assert the
// cent-exact reconciliation invariant.
func sumShares(shares []Share) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.AmountOwed)
	}
	return sum
}

func shareMap(shares []Share) map[int64]string {
	m := make(map[int64]string, len(shares))
	for _, s := range shares {
		m[s.UserID] = s.AmountOwed.StringFixed(2)
	}
	return m
}

func TestFactoryCreate(t *testing.T) {
	f := NewFactory()

	for _, method := range []Method{MethodEqual, MethodExactValue, MethodPercentage} {
		strategy, err := f.Create(method)
		require.NoError(t, err)
		assert.Equal(t, method, strategy.Method())
	}

	_, err := f.CreateFromString("HALFSIES")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestEqualStrategy(t *testing.T) {
	s := &EqualStrategy{}

	t.Run("two participants split evenly", func(t *testing.T) {
		shares, err := s.Calculate(dec("150.00"), []Input{{UserID: 1}, {UserID: 2}})
		require.NoError(t, err)
		assert.Equal(t, map[int64]string{1: "75.00", 2: "75.00"}, shareMap(shares))
	})

	t.Run("first participant absorbs the remainder cent", func(t *testing.T) {
		shares, err := s.Calculate(dec("100.00"), []Input{{UserID: 1}, {UserID: 2}, {UserID: 3}})
		require.NoError(t, err)
		assert.Equal(t, map[int64]string{1: "33.34", 2: "33.33", 3: "33.33"}, shareMap(shares))
		assert.True(t, sumShares(shares).Equal(dec("100.00")))
	})

	t.Run("single participant owes everything", func(t *testing.T) {
		shares, err := s.Calculate(dec("99.99"), []Input{{UserID: 7}})
		require.NoError(t, err)
		assert.Equal(t, map[int64]string{7: "99.99"}, shareMap(shares))
	})

	t.Run("zero participants fails cleanly", func(t *testing.T) {
		_, err := s.Calculate(dec("100.00"), nil)
		assert.ErrorIs(t, err, ErrNoParticipants)
	})
}

func TestExactValueStrategy(t *testing.T) {
	s := &ExactValueStrategy{}

	t.Run("submitted values are respected", func(t *testing.T) {
		shares, err := s.Calculate(dec("150.00"), []Input{
			{UserID: 1, Amount: decPtr("100.00")},
			{UserID: 2, Amount: decPtr("50.00")},
		})
		require.NoError(t, err)
		assert.Equal(t, map[int64]string{1: "100.00", 2: "50.00"}, shareMap(shares))
	})

	t.Run("missing value counts as zero and is omitted", func(t *testing.T) {
		shares, err := s.Calculate(dec("150.00"), []Input{
			{UserID: 1, Amount: decPtr("150.00")},
			{UserID: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, map[int64]string{1: "150.00"}, shareMap(shares))
	})

	t.Run("sum mismatch is rejected with the discrepancy", func(t *testing.T) {
		_, err := s.Calculate(dec("150.00"), []Input{
			{UserID: 1, Amount: decPtr("80.00")},
			{UserID: 2, Amount: decPtr("60.00")},
		})
		require.ErrorIs(t, err, ErrExactSum)
		assert.Contains(t, err.Error(), "140.00")
		assert.Contains(t, err.Error(), "10.00")
	})

	t.Run("single-cent mismatch is still rejected", func(t *testing.T) {
		_, err := s.Calculate(dec("100.00"), []Input{
			{UserID: 1, Amount: decPtr("49.99")},
			{UserID: 2, Amount: decPtr("50.00")},
		})
		assert.ErrorIs(t, err, ErrExactSum)
	})

	t.Run("negative value is rejected", func(t *testing.T) {
		_, err := s.Calculate(dec("100.00"), []Input{
			{UserID: 1, Amount: decPtr("-10.00")},
			{UserID: 2, Amount: decPtr("110.00")},
		})
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})

	t.Run("zero participants fails cleanly", func(t *testing.T) {
		_, err := s.Calculate(dec("100.00"), nil)
		assert.ErrorIs(t, err, ErrNoParticipants)
	})
}

func TestPercentageStrategy(t *testing.T) {
	s := &PercentageStrategy{}

	t.Run("percentages are applied and quantized", func(t *testing.T) {
		shares, err := s.Calculate(dec("300.00"), []Input{
			{UserID: 1, Percentage: decPtr("25")},
			{UserID: 2, Percentage: decPtr("75")},
		})
		require.NoError(t, err)
		assert.Equal(t, map[int64]string{1: "75.00", 2: "225.00"}, shareMap(shares))
	})

	t.Run("fractional percentages reconcile exactly", func(t *testing.T) {
		shares, err := s.Calculate(dec("100.00"), []Input{
			{UserID: 1, Percentage: decPtr("33.33")},
			{UserID: 2, Percentage: decPtr("33.33")},
			{UserID: 3, Percentage: decPtr("33.34")},
		})
		require.NoError(t, err)
		assert.True(t, sumShares(shares).Equal(dec("100.00")))
		assert.Equal(t, map[int64]string{1: "33.33", 2: "33.33", 3: "33.34"}, shareMap(shares))
	})

	t.Run("rounding leftover lands on the first participant", func(t *testing.T) {
		// Rounded shares are 33.33 + 33.33 + 33.34 = 100.00; the leftover
		// cent against 100.01 goes to the first share.
		shares, err := s.Calculate(dec("100.01"), []Input{
			{UserID: 1, Percentage: decPtr("33.33")},
			{UserID: 2, Percentage: decPtr("33.33")},
			{UserID: 3, Percentage: decPtr("33.34")},
		})
		require.NoError(t, err)
		assert.Equal(t, map[int64]string{1: "33.34", 2: "33.33", 3: "33.34"}, shareMap(shares))
		assert.True(t, sumShares(shares).Equal(dec("100.01")))
	})

	t.Run("rounding overshoot never drives a share negative", func(t *testing.T) {
		// Rounded shares are 0.01 + 0.02 + 0.02 + 0.02 = 0.07, two cents
		// over the amount; the claw-back empties the first share and trims
		// the second instead of pushing the first below zero.
		shares, err := s.Calculate(dec("0.05"), []Input{
			{UserID: 1, Percentage: decPtr("10")},
			{UserID: 2, Percentage: decPtr("30")},
			{UserID: 3, Percentage: decPtr("30")},
			{UserID: 4, Percentage: decPtr("30")},
		})
		require.NoError(t, err)
		for _, sh := range shares {
			assert.False(t, sh.AmountOwed.IsNegative(), "user %d owes %s", sh.UserID, sh.AmountOwed)
		}
		assert.True(t, sumShares(shares).Equal(dec("0.05")))
		assert.Equal(t, map[int64]string{2: "0.01", 3: "0.02", 4: "0.02"}, shareMap(shares))
	})

	t.Run("sub-cent shares across many participants reconcile", func(t *testing.T) {
		// Every share rounds up to a cent, so the overshoot spans several
		// participants and must be clawed back from more than one share.
		inputs := make([]Input, 20)
		for i := range inputs {
			inputs[i] = Input{UserID: int64(i + 1), Percentage: decPtr("5")}
		}
		shares, err := s.Calculate(dec("0.10"), inputs)
		require.NoError(t, err)
		for _, sh := range shares {
			assert.False(t, sh.AmountOwed.IsNegative(), "user %d owes %s", sh.UserID, sh.AmountOwed)
		}
		assert.True(t, sumShares(shares).Equal(dec("0.10")))
	})

	t.Run("sum below 100 is rejected", func(t *testing.T) {
		_, err := s.Calculate(dec("300.00"), []Input{
			{UserID: 1, Percentage: decPtr("24.99")},
			{UserID: 2, Percentage: decPtr("75")},
		})
		assert.ErrorIs(t, err, ErrPercentageSum)
	})

	t.Run("sum above 100 is rejected", func(t *testing.T) {
		_, err := s.Calculate(dec("300.00"), []Input{
			{UserID: 1, Percentage: decPtr("25.01")},
			{UserID: 2, Percentage: decPtr("75")},
		})
		assert.ErrorIs(t, err, ErrPercentageSum)
	})

	t.Run("zero percentage share is omitted", func(t *testing.T) {
		shares, err := s.Calculate(dec("80.00"), []Input{
			{UserID: 1, Percentage: decPtr("100")},
			{UserID: 2, Percentage: decPtr("0")},
		})
		require.NoError(t, err)
		assert.Equal(t, map[int64]string{1: "80.00"}, shareMap(shares))
	})

	t.Run("negative percentage is rejected", func(t *testing.T) {
		_, err := s.Calculate(dec("100.00"), []Input{
			{UserID: 1, Percentage: decPtr("-5")},
			{UserID: 2, Percentage: decPtr("105")},
		})
		assert.Error(t, err)
	})
}

// The split-sum invariant holds for every method and every valid input.
func TestSplitSumInvariant(t *testing.T) {
	tests := []struct {
		name         string
		strategy     Strategy
		amount       string
		participants []Input
	}{
		{
			name:     "equal with awkward remainder",
			strategy: &EqualStrategy{},
			amount:   "73.42",
			participants: []Input{
				{UserID: 1}, {UserID: 2}, {UserID: 3}, {UserID: 4}, {UserID: 5}, {UserID: 6}, {UserID: 7},
			},
		},
		{
			name:     "exact values with cents",
			strategy: &ExactValueStrategy{},
			amount:   "99.99",
			participants: []Input{
				{UserID: 1, Amount: decPtr("33.33")},
				{UserID: 2, Amount: decPtr("33.33")},
				{UserID: 3, Amount: decPtr("33.33")},
			},
		},
		{
			name:     "percentages with heavy rounding",
			strategy: &PercentageStrategy{},
			amount:   "10.01",
			participants: []Input{
				{UserID: 1, Percentage: decPtr("16.67")},
				{UserID: 2, Percentage: decPtr("16.67")},
				{UserID: 3, Percentage: decPtr("16.67")},
				{UserID: 4, Percentage: decPtr("16.67")},
				{UserID: 5, Percentage: decPtr("16.66")},
				{UserID: 6, Percentage: decPtr("16.66")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := tt.strategy.Calculate(dec(tt.amount), tt.participants)
			require.NoError(t, err)
			assert.True(t, sumShares(shares).Equal(dec(tt.amount)),
				"shares sum to %s, want %s", sumShares(shares), tt.amount)
		})
	}
}
