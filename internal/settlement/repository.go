package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// Repository handles payment data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create records a settlement payment
func (r *Repository) Create(ctx context.Context, groupID, payerID, receiverID int64, amount decimal.Decimal, note *string, createdBy int64) (*Payment, error) {
	query := `
		INSERT INTO payments (group_id, payer_id, receiver_id, amount, note, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, group_id, payer_id, receiver_id, amount, note, created_by, created_at, paid_at
	`

	payment := &Payment{}
	err := r.db.QueryRowContext(ctx, query, groupID, payerID, receiverID, amount, note, createdBy).Scan(
		&payment.ID,
		&payment.GroupID,
		&payment.PayerID,
		&payment.ReceiverID,
		&payment.Amount,
		&payment.Note,
		&payment.CreatedBy,
		&payment.CreatedAt,
		&payment.PaidAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return payment, nil
}

// ListByGroupID retrieves a group's payments, oldest first. The balance
// engine folds them in this order; handlers reuse the same list for the
// payment history.
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64) ([]*Payment, error) {
	query := `
		SELECT p.id, p.group_id, p.payer_id, p.receiver_id, p.amount, p.note,
		       p.created_by, p.created_at, p.paid_at,
		       payer.username, payer.full_name,
		       receiver.username, receiver.full_name
		FROM payments p
		JOIN users payer ON p.payer_id = payer.id
		JOIN users receiver ON p.receiver_id = receiver.id
		WHERE p.group_id = $1
		ORDER BY p.created_at, p.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		payment := &Payment{}
		if err := rows.Scan(
			&payment.ID,
			&payment.GroupID,
			&payment.PayerID,
			&payment.ReceiverID,
			&payment.Amount,
			&payment.Note,
			&payment.CreatedBy,
			&payment.CreatedAt,
			&payment.PaidAt,
			&payment.PayerUsername,
			&payment.PayerFullName,
			&payment.ReceiverUsername,
			&payment.ReceiverFullName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}
