package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/LuccaDangelo/RachAi/internal/expense/split"
	"github.com/LuccaDangelo/RachAi/internal/group"
	"github.com/LuccaDangelo/RachAi/internal/money"
)

var (
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrNonPositiveAmount  = errors.New("amount must be greater than zero")
	ErrPayerNotMember     = errors.New("payer is not a participant of the group")
	ErrSplitUserNotMember = errors.New("split references a user who is not a participant")
	ErrNotPayer           = errors.New("only the payer can delete an expense")
	ErrDuplicateSplit     = errors.New("duplicate split for user")
)

// GroupChecker is the slice of the group repository the expense service
// needs: visibility, membership and the ordered participant list.
type GroupChecker interface {
	GetByIDForUser(ctx context.Context, id, userID int64) (*group.Group, error)
	IsParticipant(ctx context.Context, groupID, userID int64) (bool, error)
	GetParticipants(ctx context.Context, groupID int64) ([]*group.Participant, error)
}

// Notifier delivers expense notifications. Failures are logged, never
// surfaced; a lost notification must not fail the expense.
type Notifier interface {
	ExpenseAdded(ctx context.Context, groupID int64, recipientIDs []int64, payerName, description string, amount decimal.Decimal) error
}

// Store is the persistence surface the expense service needs. *Repository
// satisfies it.
type Store interface {
	CreateWithSplits(ctx context.Context, groupID, paidBy int64, description string, amount decimal.Decimal, method split.Method, shares []split.Share) (*ExpenseWithSplits, error)
	GetByID(ctx context.Context, id int64) (*Expense, error)
	GetSplitsByExpenseID(ctx context.Context, expenseID int64) ([]*ExpenseSplit, error)
	ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles expense business logic
type Service struct {
	repo     Store
	groups   GroupChecker
	factory  *split.Factory
	notifier Notifier
}

// NewService creates a new expense service
func NewService(repo Store, groups GroupChecker, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		groups:   groups,
		factory:  split.NewFactory(),
		notifier: notifier,
	}
}

// Create registers an expense in a group and persists its calculated splits
func (s *Service) Create(ctx context.Context, actorID int64, req *CreateExpenseRequest) (*ExpenseWithSplits, error) {
	g, err := s.groups.GetByIDForUser(ctx, req.GroupID, actorID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	isMember, err := s.groups.IsParticipant(ctx, req.GroupID, req.PaidBy)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrPayerNotMember
	}

	participants, err := s.groups.GetParticipants(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	inputs, err := buildSplitInputs(participants, req.Splits)
	if err != nil {
		return nil, err
	}

	strategy, err := s.factory.CreateFromString(req.SplitMethod)
	if err != nil {
		return nil, err
	}

	if err := strategy.Validate(amount, inputs); err != nil {
		return nil, err
	}

	shares, err := strategy.Calculate(amount, inputs)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateWithSplits(ctx, req.GroupID, req.PaidBy, req.Description, amount, strategy.Method(), shares)
	if err != nil {
		return nil, err
	}
	created.Expense.PayerUsername = payerUsername(participants, req.PaidBy)
	created.Expense.PayerFullName = payerFullName(participants, req.PaidBy)

	s.notifySplitHolders(ctx, created)

	return created, nil
}

// GetByID retrieves an expense with its splits, enforcing group visibility
func (s *Service) GetByID(ctx context.Context, actorID, id int64) (*ExpenseWithSplits, error) {
	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	// A group the actor cannot see means the expense does not exist for them.
	g, err := s.groups.GetByIDForUser(ctx, expense.GroupID, actorID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrExpenseNotFound
	}

	splits, err := s.repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithSplits{Expense: expense, Splits: splits}, nil
}

// ListByGroup retrieves a page of a group's expenses, newest first
func (s *Service) ListByGroup(ctx context.Context, actorID, groupID int64, limit, offset int) ([]*Expense, int, error) {
	g, err := s.groups.GetByIDForUser(ctx, groupID, actorID)
	if err != nil {
		return nil, 0, err
	}
	if g == nil {
		return nil, 0, ErrGroupNotFound
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListByGroupID(ctx, groupID, limit, offset)
}

// Delete removes an expense. Only the payer may do it.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return ErrExpenseNotFound
	}

	g, err := s.groups.GetByIDForUser(ctx, expense.GroupID, actorID)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrExpenseNotFound
	}

	if actorID != expense.PaidBy {
		return ErrNotPayer
	}

	return s.repo.Delete(ctx, id)
}

// buildSplitInputs assembles strategy inputs in the group's participant
// order, which is what makes remainder assignment deterministic. Submitted
// values for non-participants are rejected outright.
func buildSplitInputs(participants []*group.Participant, values []SplitValue) ([]split.Input, error) {
	byUser := make(map[int64]SplitValue, len(values))
	for _, v := range values {
		if _, ok := byUser[v.UserID]; ok {
			return nil, fmt.Errorf("%w: user %d", ErrDuplicateSplit, v.UserID)
		}
		byUser[v.UserID] = v
	}

	members := make(map[int64]bool, len(participants))
	inputs := make([]split.Input, 0, len(participants))
	for _, p := range participants {
		members[p.UserID] = true
		input := split.Input{UserID: p.UserID}
		if v, ok := byUser[p.UserID]; ok {
			if v.Amount != nil {
				amount, err := money.ParseAmount(*v.Amount)
				if err != nil {
					return nil, fmt.Errorf("split for user %d: %w", p.UserID, err)
				}
				input.Amount = &amount
			}
			if v.Percentage != nil {
				pct, err := money.ParseAmount(*v.Percentage)
				if err != nil {
					return nil, fmt.Errorf("split for user %d: %w", p.UserID, err)
				}
				input.Percentage = &pct
			}
		}
		inputs = append(inputs, input)
	}

	for userID := range byUser {
		if !members[userID] {
			return nil, fmt.Errorf("%w: user %d", ErrSplitUserNotMember, userID)
		}
	}

	return inputs, nil
}

func (s *Service) notifySplitHolders(ctx context.Context, created *ExpenseWithSplits) {
	if s.notifier == nil {
		return
	}

	var recipients []int64
	for _, row := range created.Splits {
		if row.UserID != created.Expense.PaidBy {
			recipients = append(recipients, row.UserID)
		}
	}
	if len(recipients) == 0 {
		return
	}

	err := s.notifier.ExpenseAdded(ctx, created.Expense.GroupID, recipients,
		created.Expense.PayerDisplayName(), created.Expense.Description, created.Expense.Amount)
	if err != nil {
		slog.Error("failed to send expense notifications",
			"expense_id", created.Expense.ID, "error", err)
	}
}

func payerUsername(participants []*group.Participant, paidBy int64) string {
	for _, p := range participants {
		if p.UserID == paidBy {
			return p.Username
		}
	}
	return ""
}

func payerFullName(participants []*group.Participant, paidBy int64) *string {
	for _, p := range participants {
		if p.UserID == paidBy {
			return p.FullName
		}
	}
	return nil
}
