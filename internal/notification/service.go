package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Store is the persistence surface the notification service needs.
// *Repository satisfies it.
type Store interface {
	Create(ctx context.Context, userID int64, kind Kind, message string, groupID *int64) (*Notification, error)
	ListByUserID(ctx context.Context, userID int64, onlyUnread bool, limit, offset int) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
}

// Service creates and manages in-app notifications. It also implements the
// notifier hooks the expense and settlement services call into.
type Service struct {
	repo Store
}

// NewService creates a new notification service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// ExpenseAdded notifies every split holder (except the payer) that an
// expense now involves them
func (s *Service) ExpenseAdded(ctx context.Context, groupID int64, recipientIDs []int64, payerName, description string, amount decimal.Decimal) error {
	message := fmt.Sprintf("%s added %q (%s) splitting it with you", payerName, description, amount.StringFixed(2))

	var firstErr error
	for _, userID := range recipientIDs {
		if _, err := s.repo.Create(ctx, userID, KindExpenseAdded, message, &groupID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// PaymentReceived notifies the receiver that a payment was recorded
func (s *Service) PaymentReceived(ctx context.Context, groupID, receiverID int64, payerName string, amount decimal.Decimal) error {
	message := fmt.Sprintf("%s paid you %s", payerName, amount.StringFixed(2))
	_, err := s.repo.Create(ctx, receiverID, KindPaymentReceived, message, &groupID)
	return err
}

// List retrieves a user's notifications, optionally only unread ones
func (s *Service) List(ctx context.Context, userID int64, onlyUnread bool, limit, offset int) ([]*Notification, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUserID(ctx, userID, onlyUnread, limit, offset)
}

// MarkRead marks one notification as read
func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks all of a user's notifications as read
func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// UnreadCount returns the user's unread notification count
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
