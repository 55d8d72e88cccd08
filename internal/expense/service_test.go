package expense

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuccaDangelo/RachAi/internal/expense/split"
	"github.com/LuccaDangelo/RachAi/internal/group"
	"github.com/LuccaDangelo/RachAi/internal/money"
)

type fakeStore struct {
	created  *ExpenseWithSplits
	expenses map[int64]*Expense
	splits   map[int64][]*ExpenseSplit
	deleted  []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		expenses: make(map[int64]*Expense),
		splits:   make(map[int64][]*ExpenseSplit),
	}
}

func (f *fakeStore) CreateWithSplits(_ context.Context, groupID, paidBy int64, description string, amount decimal.Decimal, method split.Method, shares []split.Share) (*ExpenseWithSplits, error) {
	expense := &Expense{
		ID:          int64(len(f.expenses) + 1),
		GroupID:     groupID,
		Description: description,
		Amount:      amount,
		PaidBy:      paidBy,
		SplitMethod: method,
		CreatedAt:   time.Now(),
	}
	rows := make([]*ExpenseSplit, len(shares))
	for i, s := range shares {
		rows[i] = &ExpenseSplit{
			ID:         int64(i + 1),
			ExpenseID:  expense.ID,
			UserID:     s.UserID,
			AmountOwed: s.AmountOwed,
		}
	}
	f.expenses[expense.ID] = expense
	f.splits[expense.ID] = rows
	f.created = &ExpenseWithSplits{Expense: expense, Splits: rows}
	return f.created, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*Expense, error) {
	return f.expenses[id], nil
}

func (f *fakeStore) GetSplitsByExpenseID(_ context.Context, expenseID int64) ([]*ExpenseSplit, error) {
	return f.splits[expenseID], nil
}

func (f *fakeStore) ListByGroupID(_ context.Context, groupID int64, _, _ int) ([]*Expense, int, error) {
	var out []*Expense
	for _, e := range f.expenses {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	delete(f.expenses, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeGroups struct {
	group        *group.Group
	participants []*group.Participant
	visibleTo    map[int64]bool
}

func (f *fakeGroups) GetByIDForUser(_ context.Context, id, userID int64) (*group.Group, error) {
	if f.group == nil || f.group.ID != id || !f.visibleTo[userID] {
		return nil, nil
	}
	return f.group, nil
}

func (f *fakeGroups) IsParticipant(_ context.Context, groupID, userID int64) (bool, error) {
	if f.group == nil || f.group.ID != groupID {
		return false, nil
	}
	for _, p := range f.participants {
		if p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGroups) GetParticipants(_ context.Context, groupID int64) ([]*group.Participant, error) {
	return f.participants, nil
}

type fakeNotifier struct {
	recipients []int64
	calls      int
}

func (f *fakeNotifier) ExpenseAdded(_ context.Context, _ int64, recipientIDs []int64, _, _ string, _ decimal.Decimal) error {
	f.calls++
	f.recipients = append(f.recipients, recipientIDs...)
	return nil
}

func threeMemberGroup() *fakeGroups {
	return &fakeGroups{
		group: &group.Group{ID: 10, Name: "Trip", CreatorID: 1},
		participants: []*group.Participant{
			{UserID: 1, Username: "ana@x.com"},
			{UserID: 2, Username: "bruno@x.com"},
			{UserID: 3, Username: "carla@x.com"},
		},
		visibleTo: map[int64]bool{1: true, 2: true, 3: true},
	}
}

func TestServiceCreate(t *testing.T) {
	t.Run("equal split persists payer-inclusive shares", func(t *testing.T) {
		store := newFakeStore()
		notifier := &fakeNotifier{}
		svc := NewService(store, threeMemberGroup(), notifier)

		created, err := svc.Create(context.Background(), 1, &CreateExpenseRequest{
			GroupID:     10,
			Description: "Dinner",
			Amount:      "100",
			PaidBy:      1,
			SplitMethod: "EQUAL",
		})
		require.NoError(t, err)
		require.Len(t, created.Splits, 3)

		assert.Equal(t, "33.34", created.Splits[0].AmountOwed.StringFixed(2))
		assert.Equal(t, int64(1), created.Splits[0].UserID)
		assert.Equal(t, "33.33", created.Splits[1].AmountOwed.StringFixed(2))
		assert.Equal(t, "33.33", created.Splits[2].AmountOwed.StringFixed(2))

		// Everyone with a share except the payer gets notified.
		assert.Equal(t, 1, notifier.calls)
		assert.ElementsMatch(t, []int64{2, 3}, notifier.recipients)
	})

	t.Run("locale-formatted amount is accepted", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, threeMemberGroup(), &fakeNotifier{})

		created, err := svc.Create(context.Background(), 1, &CreateExpenseRequest{
			GroupID:     10,
			Description: "Hotel",
			Amount:      "1.234,56",
			PaidBy:      2,
			SplitMethod: "EQUAL",
		})
		require.NoError(t, err)
		assert.Equal(t, "1234.56", created.Expense.Amount.StringFixed(2))
	})

	t.Run("invisible group reads as not found", func(t *testing.T) {
		groups := threeMemberGroup()
		svc := NewService(newFakeStore(), groups, &fakeNotifier{})

		_, err := svc.Create(context.Background(), 99, &CreateExpenseRequest{
			GroupID: 10, Description: "Dinner", Amount: "100", PaidBy: 1, SplitMethod: "EQUAL",
		})
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})

	t.Run("payer must be a participant", func(t *testing.T) {
		svc := NewService(newFakeStore(), threeMemberGroup(), &fakeNotifier{})

		_, err := svc.Create(context.Background(), 1, &CreateExpenseRequest{
			GroupID: 10, Description: "Dinner", Amount: "100", PaidBy: 42, SplitMethod: "EQUAL",
		})
		assert.ErrorIs(t, err, ErrPayerNotMember)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		svc := NewService(newFakeStore(), threeMemberGroup(), &fakeNotifier{})

		_, err := svc.Create(context.Background(), 1, &CreateExpenseRequest{
			GroupID: 10, Description: "Dinner", Amount: "0", PaidBy: 1, SplitMethod: "EQUAL",
		})
		assert.ErrorIs(t, err, ErrNonPositiveAmount)
	})

	t.Run("rejects malformed amount", func(t *testing.T) {
		svc := NewService(newFakeStore(), threeMemberGroup(), &fakeNotifier{})

		_, err := svc.Create(context.Background(), 1, &CreateExpenseRequest{
			GroupID: 10, Description: "Dinner", Amount: "abc", PaidBy: 1, SplitMethod: "EQUAL",
		})
		assert.ErrorIs(t, err, money.ErrInvalidAmount)
	})

	t.Run("exact values must add up", func(t *testing.T) {
		amount80 := "80"
		amount60 := "60"
		store := newFakeStore()
		svc := NewService(store, threeMemberGroup(), &fakeNotifier{})

		_, err := svc.Create(context.Background(), 1, &CreateExpenseRequest{
			GroupID:     10,
			Description: "Market",
			Amount:      "150",
			PaidBy:      1,
			SplitMethod: "EXACT_VALUE",
			Splits: []SplitValue{
				{UserID: 1, Amount: &amount80},
				{UserID: 2, Amount: &amount60},
			},
		})
		assert.ErrorIs(t, err, split.ErrExactSum)
		assert.Empty(t, store.expenses, "nothing may be persisted on a rejected split")
	})

	t.Run("split for a non-participant is rejected", func(t *testing.T) {
		amount := "150"
		svc := NewService(newFakeStore(), threeMemberGroup(), &fakeNotifier{})

		_, err := svc.Create(context.Background(), 1, &CreateExpenseRequest{
			GroupID:     10,
			Description: "Market",
			Amount:      "150",
			PaidBy:      1,
			SplitMethod: "EXACT_VALUE",
			Splits:      []SplitValue{{UserID: 42, Amount: &amount}},
		})
		assert.ErrorIs(t, err, ErrSplitUserNotMember)
	})

	t.Run("percentage split with comma decimals", func(t *testing.T) {
		p1 := "33,33"
		p2 := "33,33"
		p3 := "33,34"
		store := newFakeStore()
		svc := NewService(store, threeMemberGroup(), &fakeNotifier{})

		created, err := svc.Create(context.Background(), 2, &CreateExpenseRequest{
			GroupID:     10,
			Description: "Fuel",
			Amount:      "90",
			PaidBy:      2,
			SplitMethod: "PERCENTAGE",
			Splits: []SplitValue{
				{UserID: 1, Percentage: &p1},
				{UserID: 2, Percentage: &p2},
				{UserID: 3, Percentage: &p3},
			},
		})
		require.NoError(t, err)

		sum := decimal.Zero
		for _, s := range created.Splits {
			sum = sum.Add(s.AmountOwed)
		}
		assert.True(t, sum.Equal(created.Expense.Amount), "splits must sum to the amount")
	})
}

func TestServiceDelete(t *testing.T) {
	seed := func(store *fakeStore, paidBy int64) {
		store.expenses[7] = &Expense{ID: 7, GroupID: 10, PaidBy: paidBy, Amount: decimal.NewFromInt(50)}
	}

	t.Run("payer can delete", func(t *testing.T) {
		store := newFakeStore()
		seed(store, 2)
		svc := NewService(store, threeMemberGroup(), &fakeNotifier{})

		require.NoError(t, svc.Delete(context.Background(), 2, 7))
		assert.Equal(t, []int64{7}, store.deleted)
	})

	t.Run("other members cannot delete", func(t *testing.T) {
		store := newFakeStore()
		seed(store, 2)
		svc := NewService(store, threeMemberGroup(), &fakeNotifier{})

		err := svc.Delete(context.Background(), 1, 7)
		assert.ErrorIs(t, err, ErrNotPayer)
		assert.Empty(t, store.deleted)
	})

	t.Run("missing expense", func(t *testing.T) {
		svc := NewService(newFakeStore(), threeMemberGroup(), &fakeNotifier{})
		err := svc.Delete(context.Background(), 1, 999)
		assert.ErrorIs(t, err, ErrExpenseNotFound)
	})
}
