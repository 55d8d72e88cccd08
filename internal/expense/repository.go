package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/LuccaDangelo/RachAi/internal/expense/split"
)

const uniqueViolation = "23505"

// Repository handles expense and split data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithSplits inserts an expense and all of its split rows in a single
// transaction. Either everything commits or nothing does; an expense can
// never exist without its full, amount-reconciled set of splits.
func (r *Repository) CreateWithSplits(ctx context.Context, groupID, paidBy int64, description string, amount decimal.Decimal, method split.Method, shares []split.Share) (*ExpenseWithSplits, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (group_id, description, amount, paid_by, split_method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, group_id, description, amount, paid_by, split_method, created_at
	`

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, query, groupID, description, amount, paidBy, method).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.Description,
		&expense.Amount,
		&expense.PaidBy,
		&expense.SplitMethod,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	splits := make([]*ExpenseSplit, len(shares))
	splitQuery := `
		INSERT INTO expense_splits (expense_id, user_id, amount_owed)
		VALUES ($1, $2, $3)
		RETURNING id, expense_id, user_id, amount_owed
	`
	for i, share := range shares {
		row := &ExpenseSplit{}
		err := tx.QueryRowContext(ctx, splitQuery, expense.ID, share.UserID, share.AmountOwed).Scan(
			&row.ID,
			&row.ExpenseID,
			&row.UserID,
			&row.AmountOwed,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrDuplicateSplit
			}
			return nil, fmt.Errorf("failed to create split: %w", err)
		}
		splits[i] = row
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense creation: %w", err)
	}

	return &ExpenseWithSplits{Expense: expense, Splits: splits}, nil
}

// GetByID retrieves an expense by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.description, e.amount, e.paid_by, e.split_method, e.created_at,
		       u.username, u.full_name
		FROM expenses e
		JOIN users u ON e.paid_by = u.id
		WHERE e.id = $1
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.Description,
		&expense.Amount,
		&expense.PaidBy,
		&expense.SplitMethod,
		&expense.CreatedAt,
		&expense.PayerUsername,
		&expense.PayerFullName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// GetSplitsByExpenseID retrieves all split rows for an expense
func (r *Repository) GetSplitsByExpenseID(ctx context.Context, expenseID int64) ([]*ExpenseSplit, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.amount_owed, u.username, u.full_name
		FROM expense_splits s
		JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = $1
		ORDER BY s.id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []*ExpenseSplit
	for rows.Next() {
		row := &ExpenseSplit{}
		if err := rows.Scan(
			&row.ID,
			&row.ExpenseID,
			&row.UserID,
			&row.AmountOwed,
			&row.Username,
			&row.FullName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, row)
	}

	return splits, nil
}

// ListByGroupID retrieves expenses for a group, newest first
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.description, e.amount, e.paid_by, e.split_method, e.created_at,
		       u.username, u.full_name
		FROM expenses e
		JOIN users u ON e.paid_by = u.id
		WHERE e.group_id = $1
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.Description,
			&expense.Amount,
			&expense.PaidBy,
			&expense.SplitMethod,
			&expense.CreatedAt,
			&expense.PayerUsername,
			&expense.PayerFullName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, total, nil
}

// ListWithSplitsByGroupID loads a group's complete expense history with all
// split rows, oldest first. The balance engine aggregates from this; it is
// recomputed fresh on every call rather than cached.
func (r *Repository) ListWithSplitsByGroupID(ctx context.Context, groupID int64) ([]*ExpenseWithSplits, error) {
	query := `
		SELECT e.id, e.group_id, e.description, e.amount, e.paid_by, e.split_method, e.created_at,
		       u.username, u.full_name
		FROM expenses e
		JOIN users u ON e.paid_by = u.id
		WHERE e.group_id = $1
		ORDER BY e.created_at, e.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var result []*ExpenseWithSplits
	byID := make(map[int64]*ExpenseWithSplits)
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.Description,
			&expense.Amount,
			&expense.PaidBy,
			&expense.SplitMethod,
			&expense.CreatedAt,
			&expense.PayerUsername,
			&expense.PayerFullName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		item := &ExpenseWithSplits{Expense: expense}
		result = append(result, item)
		byID[expense.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if len(result) == 0 {
		return result, nil
	}

	splitQuery := `
		SELECT s.id, s.expense_id, s.user_id, s.amount_owed, u.username, u.full_name
		FROM expense_splits s
		JOIN users u ON s.user_id = u.id
		JOIN expenses e ON s.expense_id = e.id
		WHERE e.group_id = $1
		ORDER BY s.expense_id, s.id
	`

	splitRows, err := r.db.QueryContext(ctx, splitQuery, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		row := &ExpenseSplit{}
		if err := splitRows.Scan(
			&row.ID,
			&row.ExpenseID,
			&row.UserID,
			&row.AmountOwed,
			&row.Username,
			&row.FullName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if item, ok := byID[row.ExpenseID]; ok {
			item.Splits = append(item.Splits, row)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return result, nil
}

// Delete removes an expense and its splits atomically
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete splits: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrExpenseNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense deletion: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
