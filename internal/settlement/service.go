package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/LuccaDangelo/RachAi/internal/expense"
	"github.com/LuccaDangelo/RachAi/internal/group"
	"github.com/LuccaDangelo/RachAi/internal/money"
	"github.com/LuccaDangelo/RachAi/internal/user"
)

var (
	ErrGroupNotFound     = errors.New("group not found")
	ErrReceiverNotMember = errors.New("receiver is not a participant of the group")
	ErrSelfPayment       = errors.New("cannot record a payment to yourself")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrNoMatchingDebt    = errors.New("payment does not match any suggested settlement")
)

// maxGroupsPerSummary bounds the cross-group debt summary scan.
const maxGroupsPerSummary = 500

// PaymentStore is the persistence surface the settlement service needs.
// *Repository satisfies it.
type PaymentStore interface {
	Create(ctx context.Context, groupID, payerID, receiverID int64, amount decimal.Decimal, note *string, createdBy int64) (*Payment, error)
	ListByGroupID(ctx context.Context, groupID int64) ([]*Payment, error)
}

// ExpenseLister loads a group's full expense history for the balance engine
type ExpenseLister interface {
	ListWithSplitsByGroupID(ctx context.Context, groupID int64) ([]*expense.ExpenseWithSplits, error)
}

// GroupChecker is the slice of the group repository the settlement service
// needs. *group.Repository satisfies it.
type GroupChecker interface {
	GetByIDForUser(ctx context.Context, id, userID int64) (*group.Group, error)
	GetParticipants(ctx context.Context, groupID int64) ([]*group.Participant, error)
	IsParticipant(ctx context.Context, groupID, userID int64) (bool, error)
	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*group.Group, int, error)
}

// Notifier delivers payment notifications. Failures are logged, never
// surfaced.
type Notifier interface {
	PaymentReceived(ctx context.Context, groupID, receiverID int64, payerName string, amount decimal.Decimal) error
}

// Service computes balances and settlement plans and records payments
type Service struct {
	payments PaymentStore
	expenses ExpenseLister
	groups   GroupChecker
	notifier Notifier
}

// NewService creates a new settlement service
func NewService(payments PaymentStore, expenses ExpenseLister, groups GroupChecker, notifier Notifier) *Service {
	return &Service{
		payments: payments,
		expenses: expenses,
		groups:   groups,
		notifier: notifier,
	}
}

// groupState is everything the engine derives for one group
type groupState struct {
	group        *group.Group
	participants []*group.Participant
	names        map[int64]string
	balances     *Balances
	settlements  []Transfer
	expenses     []*expense.ExpenseWithSplits
	payments     []*Payment
}

func (s *Service) loadGroupState(ctx context.Context, actorID, groupID int64) (*groupState, error) {
	g, err := s.groups.GetByIDForUser(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	participants, err := s.groups.GetParticipants(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenses.ListWithSplitsByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.ListByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(participants))
	names := make(map[int64]string, len(participants))
	for i, p := range participants {
		ids[i] = p.UserID
		names[p.UserID] = user.DisplayNameFor(p.Username, p.FullName)
	}

	balances := CalculateBalances(ids, expenses, payments)

	return &groupState{
		group:        g,
		participants: participants,
		names:        names,
		balances:     balances,
		settlements:  CalculateSettlements(balances),
		expenses:     expenses,
		payments:     payments,
	}, nil
}

// GroupSettlements returns a group's balances, suggested settlement plan
// and payment history
func (s *Service) GroupSettlements(ctx context.Context, actorID, groupID int64) (*GroupSettlementsResponse, error) {
	state, err := s.loadGroupState(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}

	balances := make([]*BalanceResponse, 0, len(state.balances.UserIDs()))
	for _, id := range state.balances.UserIDs() {
		balances = append(balances, &BalanceResponse{
			UserID: id,
			Name:   state.names[id],
			Amount: state.balances.Get(id).StringFixed(2),
		})
	}

	settlements := make([]*SettlementResponse, len(state.settlements))
	for i, t := range state.settlements {
		settlements[i] = &SettlementResponse{
			FromUserID: t.FromUserID,
			FromName:   state.names[t.FromUserID],
			ToUserID:   t.ToUserID,
			ToName:     state.names[t.ToUserID],
			Amount:     t.Amount.StringFixed(2),
		}
	}

	expenses := make([]*OverviewExpense, len(state.expenses))
	for i, item := range state.expenses {
		overview := &OverviewExpense{
			ID:          item.Expense.ID,
			Description: item.Expense.Description,
			Amount:      item.Expense.Amount.StringFixed(2),
			PayerID:     item.Expense.PaidBy,
			PayerName:   state.names[item.Expense.PaidBy],
			CreatedAt:   item.Expense.CreatedAt.Format("2006-01-02T15:04:05Z"),
			Owes:        []*OweEntry{},
		}
		// The payer's own share is settled by definition; list only what
		// the others owe them.
		for _, s := range item.Splits {
			if s.UserID == item.Expense.PaidBy {
				continue
			}
			overview.Owes = append(overview.Owes, &OweEntry{
				UserID: s.UserID,
				Name:   state.names[s.UserID],
				Amount: s.AmountOwed.StringFixed(2),
			})
		}
		expenses[i] = overview
	}

	payments := make([]*PaymentResponse, len(state.payments))
	for i, p := range state.payments {
		payments[i] = p.ToResponse()
	}

	return &GroupSettlementsResponse{
		GroupID:     state.group.ID,
		GroupName:   state.group.Name,
		Balances:    balances,
		Settlements: settlements,
		Expenses:    expenses,
		Payments:    payments,
	}, nil
}

// RecordPayment records that the actor paid another participant. The
// payment must match a currently suggested settlement between the two,
// within the one-cent tolerance; anything else is rejected so the history
// stays consistent with actual debt.
func (s *Service) RecordPayment(ctx context.Context, actorID int64, req *RecordPaymentRequest) (*Payment, error) {
	if req.ReceiverID == actorID {
		return nil, ErrSelfPayment
	}

	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	state, err := s.loadGroupState(ctx, actorID, req.GroupID)
	if err != nil {
		return nil, err
	}

	isMember, err := s.groups.IsParticipant(ctx, req.GroupID, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrReceiverNotMember
	}

	matched := false
	for _, t := range state.settlements {
		if t.FromUserID != actorID || t.ToUserID != req.ReceiverID {
			continue
		}
		if money.WithinTolerance(amount, t.Amount) {
			matched = true
			break
		}
		return nil, fmt.Errorf("%w: suggested amount is %s", ErrNoMatchingDebt, t.Amount.StringFixed(2))
	}
	if !matched {
		return nil, ErrNoMatchingDebt
	}

	payment, err := s.payments.Create(ctx, req.GroupID, actorID, req.ReceiverID, amount, req.Note, actorID)
	if err != nil {
		return nil, err
	}
	payment.PayerUsername = usernameOf(state.participants, actorID)
	payment.PayerFullName = fullNameOf(state.participants, actorID)
	payment.ReceiverUsername = usernameOf(state.participants, req.ReceiverID)
	payment.ReceiverFullName = fullNameOf(state.participants, req.ReceiverID)

	if s.notifier != nil {
		err := s.notifier.PaymentReceived(ctx, req.GroupID, req.ReceiverID, payment.PayerDisplayName(), amount)
		if err != nil {
			slog.Error("failed to send payment notification",
				"payment_id", payment.ID, "error", err)
		}
	}

	return payment, nil
}

// MyDebts aggregates the actor's suggested settlements across every group
// they belong to
func (s *Service) MyDebts(ctx context.Context, userID int64) (*DebtsSummaryResponse, error) {
	groups, _, err := s.groups.ListForUser(ctx, userID, maxGroupsPerSummary, 0)
	if err != nil {
		return nil, err
	}

	summary := &DebtsSummaryResponse{
		IOwe:         []*DebtItem{},
		OwedToMe:     []*DebtItem{},
		PaymentsMade: []*PaymentResponse{},
	}
	totalOwe := decimal.Zero
	totalOwed := decimal.Zero

	for _, g := range groups {
		state, err := s.loadGroupState(ctx, userID, g.ID)
		if err != nil {
			return nil, err
		}

		for _, t := range state.settlements {
			switch {
			case t.FromUserID == userID:
				summary.IOwe = append(summary.IOwe, &DebtItem{
					GroupID:          g.ID,
					GroupName:        g.Name,
					CounterpartyID:   t.ToUserID,
					CounterpartyName: state.names[t.ToUserID],
					Amount:           t.Amount.StringFixed(2),
				})
				totalOwe = totalOwe.Add(t.Amount)
			case t.ToUserID == userID:
				summary.OwedToMe = append(summary.OwedToMe, &DebtItem{
					GroupID:          g.ID,
					GroupName:        g.Name,
					CounterpartyID:   t.FromUserID,
					CounterpartyName: state.names[t.FromUserID],
					Amount:           t.Amount.StringFixed(2),
				})
				totalOwed = totalOwed.Add(t.Amount)
			}
		}

		for _, p := range state.payments {
			if p.PayerID == userID {
				summary.PaymentsMade = append(summary.PaymentsMade, p.ToResponse())
			}
		}
	}

	summary.TotalIOwe = totalOwe.StringFixed(2)
	summary.TotalOwedToMe = totalOwed.StringFixed(2)
	return summary, nil
}

func usernameOf(participants []*group.Participant, userID int64) string {
	for _, p := range participants {
		if p.UserID == userID {
			return p.Username
		}
	}
	return ""
}

func fullNameOf(participants []*group.Participant, userID int64) *string {
	for _, p := range participants {
		if p.UserID == userID {
			return p.FullName
		}
	}
	return nil
}
