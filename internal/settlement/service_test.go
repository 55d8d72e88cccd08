package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuccaDangelo/RachAi/internal/expense"
	"github.com/LuccaDangelo/RachAi/internal/group"
)

type fakePayments struct {
	byGroup map[int64][]*Payment
	nextID  int64
}

func newFakePayments() *fakePayments {
	return &fakePayments{byGroup: make(map[int64][]*Payment), nextID: 1}
}

func (f *fakePayments) Create(_ context.Context, groupID, payerID, receiverID int64, amount decimal.Decimal, note *string, createdBy int64) (*Payment, error) {
	payment := &Payment{
		ID:         f.nextID,
		GroupID:    groupID,
		PayerID:    payerID,
		ReceiverID: receiverID,
		Amount:     amount,
		Note:       note,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now(),
		PaidAt:     time.Now(),
	}
	f.nextID++
	f.byGroup[groupID] = append(f.byGroup[groupID], payment)
	return payment, nil
}

func (f *fakePayments) ListByGroupID(_ context.Context, groupID int64) ([]*Payment, error) {
	return f.byGroup[groupID], nil
}

type fakeExpenses struct {
	byGroup map[int64][]*expense.ExpenseWithSplits
}

func (f *fakeExpenses) ListWithSplitsByGroupID(_ context.Context, groupID int64) ([]*expense.ExpenseWithSplits, error) {
	return f.byGroup[groupID], nil
}

type fakeGroups struct {
	groups       map[int64]*group.Group
	participants map[int64][]*group.Participant
	memberships  map[int64][]int64
}

func (f *fakeGroups) GetByIDForUser(_ context.Context, id, userID int64) (*group.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, nil
	}
	for _, p := range f.participants[id] {
		if p.UserID == userID {
			return g, nil
		}
	}
	return nil, nil
}

func (f *fakeGroups) GetParticipants(_ context.Context, groupID int64) ([]*group.Participant, error) {
	return f.participants[groupID], nil
}

func (f *fakeGroups) IsParticipant(_ context.Context, groupID, userID int64) (bool, error) {
	for _, p := range f.participants[groupID] {
		if p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGroups) ListForUser(_ context.Context, userID int64, _, _ int) ([]*group.Group, int, error) {
	var out []*group.Group
	for id, g := range f.groups {
		for _, p := range f.participants[id] {
			if p.UserID == userID {
				out = append(out, g)
				break
			}
		}
	}
	return out, len(out), nil
}

type fakePaymentNotifier struct {
	receiverIDs []int64
}

func (f *fakePaymentNotifier) PaymentReceived(_ context.Context, _, receiverID int64, _ string, _ decimal.Decimal) error {
	f.receiverIDs = append(f.receiverIDs, receiverID)
	return nil
}

func ana() *group.Participant {
	name := "Ana Souza"
	return &group.Participant{UserID: 1, Username: "ana@x.com", FullName: &name}
}

func fixture() (*fakePayments, *fakeExpenses, *fakeGroups) {
	payments := newFakePayments()
	expenses := &fakeExpenses{byGroup: map[int64][]*expense.ExpenseWithSplits{
		10: {expenseFixture(1, "100.00", map[int64]string{1: "50.00", 2: "50.00"})},
	}}
	groups := &fakeGroups{
		groups: map[int64]*group.Group{10: {ID: 10, Name: "Trip", CreatorID: 1}},
		participants: map[int64][]*group.Participant{
			10: {ana(), {UserID: 2, Username: "bruno@x.com"}},
		},
	}
	return payments, expenses, groups
}

func TestGroupSettlements(t *testing.T) {
	t.Run("balances and plan with display names", func(t *testing.T) {
		payments, expenses, groups := fixture()
		svc := NewService(payments, expenses, groups, nil)

		result, err := svc.GroupSettlements(context.Background(), 1, 10)
		require.NoError(t, err)

		require.Len(t, result.Balances, 2)
		assert.Equal(t, "Ana Souza", result.Balances[0].Name)
		assert.Equal(t, "50.00", result.Balances[0].Amount)
		assert.Equal(t, "bruno", result.Balances[1].Name)
		assert.Equal(t, "-50.00", result.Balances[1].Amount)

		require.Len(t, result.Settlements, 1)
		assert.Equal(t, int64(2), result.Settlements[0].FromUserID)
		assert.Equal(t, "bruno", result.Settlements[0].FromName)
		assert.Equal(t, int64(1), result.Settlements[0].ToUserID)
		assert.Equal(t, "50.00", result.Settlements[0].Amount)
	})

	t.Run("expense breakdown omits the payer's own share", func(t *testing.T) {
		payments, expenses, groups := fixture()
		svc := NewService(payments, expenses, groups, nil)

		result, err := svc.GroupSettlements(context.Background(), 1, 10)
		require.NoError(t, err)

		require.Len(t, result.Expenses, 1)
		assert.Equal(t, "Ana Souza", result.Expenses[0].PayerName)
		require.Len(t, result.Expenses[0].Owes, 1)
		assert.Equal(t, int64(2), result.Expenses[0].Owes[0].UserID)
		assert.Equal(t, "50.00", result.Expenses[0].Owes[0].Amount)
	})

	t.Run("non-member gets not found", func(t *testing.T) {
		payments, expenses, groups := fixture()
		svc := NewService(payments, expenses, groups, nil)

		_, err := svc.GroupSettlements(context.Background(), 99, 10)
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})
}

func TestRecordPayment(t *testing.T) {
	t.Run("matching payment settles the group", func(t *testing.T) {
		payments, expenses, groups := fixture()
		notifier := &fakePaymentNotifier{}
		svc := NewService(payments, expenses, groups, notifier)

		payment, err := svc.RecordPayment(context.Background(), 2, &RecordPaymentRequest{
			GroupID: 10, ReceiverID: 1, Amount: "50,00",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), payment.PayerID)
		assert.Equal(t, "50.00", payment.Amount.StringFixed(2))
		assert.Equal(t, []int64{1}, notifier.receiverIDs)

		// The debt is gone afterwards.
		result, err := svc.GroupSettlements(context.Background(), 1, 10)
		require.NoError(t, err)
		assert.Empty(t, result.Settlements)
	})

	t.Run("payment within one cent of the suggestion is accepted", func(t *testing.T) {
		payments, expenses, groups := fixture()
		svc := NewService(payments, expenses, groups, nil)

		_, err := svc.RecordPayment(context.Background(), 2, &RecordPaymentRequest{
			GroupID: 10, ReceiverID: 1, Amount: "49.99",
		})
		assert.NoError(t, err)
	})

	t.Run("wrong amount is rejected with the suggestion", func(t *testing.T) {
		payments, expenses, groups := fixture()
		svc := NewService(payments, expenses, groups, nil)

		_, err := svc.RecordPayment(context.Background(), 2, &RecordPaymentRequest{
			GroupID: 10, ReceiverID: 1, Amount: "30.00",
		})
		require.ErrorIs(t, err, ErrNoMatchingDebt)
		assert.Contains(t, err.Error(), "50.00")
		assert.Empty(t, payments.byGroup[10])
	})

	t.Run("wrong direction is rejected", func(t *testing.T) {
		payments, expenses, groups := fixture()
		svc := NewService(payments, expenses, groups, nil)

		// Ana is the creditor; she has nothing to pay Bruno.
		_, err := svc.RecordPayment(context.Background(), 1, &RecordPaymentRequest{
			GroupID: 10, ReceiverID: 2, Amount: "50.00",
		})
		assert.ErrorIs(t, err, ErrNoMatchingDebt)
	})

	t.Run("self payment is rejected", func(t *testing.T) {
		payments, expenses, groups := fixture()
		svc := NewService(payments, expenses, groups, nil)

		_, err := svc.RecordPayment(context.Background(), 2, &RecordPaymentRequest{
			GroupID: 10, ReceiverID: 2, Amount: "50.00",
		})
		assert.ErrorIs(t, err, ErrSelfPayment)
	})

	t.Run("receiver outside the group is rejected", func(t *testing.T) {
		payments, expenses, groups := fixture()
		svc := NewService(payments, expenses, groups, nil)

		_, err := svc.RecordPayment(context.Background(), 2, &RecordPaymentRequest{
			GroupID: 10, ReceiverID: 42, Amount: "50.00",
		})
		assert.ErrorIs(t, err, ErrReceiverNotMember)
	})
}

func TestMyDebts(t *testing.T) {
	t.Run("aggregates across groups", func(t *testing.T) {
		payments, expenses, groups := fixture()
		groups.groups[20] = &group.Group{ID: 20, Name: "Flat", CreatorID: 2}
		groups.participants[20] = []*group.Participant{
			{UserID: 2, Username: "bruno@x.com"},
			ana(),
		}
		expenses.byGroup[20] = []*expense.ExpenseWithSplits{
			func() *expense.ExpenseWithSplits {
				e := expenseFixture(2, "30.00", map[int64]string{1: "15.00", 2: "15.00"})
				e.Expense.GroupID = 20
				return e
			}(),
		}
		svc := NewService(payments, expenses, groups, nil)

		summary, err := svc.MyDebts(context.Background(), 1)
		require.NoError(t, err)

		require.Len(t, summary.OwedToMe, 1)
		assert.Equal(t, "Trip", summary.OwedToMe[0].GroupName)
		assert.Equal(t, "50.00", summary.OwedToMe[0].Amount)
		assert.Equal(t, "50.00", summary.TotalOwedToMe)

		require.Len(t, summary.IOwe, 1)
		assert.Equal(t, "Flat", summary.IOwe[0].GroupName)
		assert.Equal(t, "15.00", summary.IOwe[0].Amount)
		assert.Equal(t, "15.00", summary.TotalIOwe)
	})

	t.Run("includes payments already made", func(t *testing.T) {
		payments, expenses, groups := fixture()
		svc := NewService(payments, expenses, groups, nil)

		_, err := svc.RecordPayment(context.Background(), 2, &RecordPaymentRequest{
			GroupID: 10, ReceiverID: 1, Amount: "50.00",
		})
		require.NoError(t, err)

		summary, err := svc.MyDebts(context.Background(), 2)
		require.NoError(t, err)
		assert.Empty(t, summary.IOwe)
		require.Len(t, summary.PaymentsMade, 1)
		assert.Equal(t, "50.00", summary.PaymentsMade[0].Amount)
	})

	t.Run("no groups means empty summary", func(t *testing.T) {
		svc := NewService(newFakePayments(), &fakeExpenses{}, &fakeGroups{}, nil)

		summary, err := svc.MyDebts(context.Background(), 7)
		require.NoError(t, err)
		assert.Empty(t, summary.IOwe)
		assert.Empty(t, summary.OwedToMe)
		assert.Equal(t, "0.00", summary.TotalIOwe)
		assert.Equal(t, "0.00", summary.TotalOwedToMe)
	})
}
