package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Repository handles group and participant data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group and registers the creator as its first
// participant in one transaction.
func (r *Repository) Create(ctx context.Context, creatorID int64, name string) (*Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO groups (name, creator_id)
		VALUES ($1, $2)
		RETURNING id, name, creator_id, created_at, updated_at
	`

	group := &Group{}
	err = tx.QueryRowContext(ctx, query, name, creatorID).Scan(
		&group.ID,
		&group.Name,
		&group.CreatorID,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrGroupNameTaken
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO participants (group_id, user_id) VALUES ($1, $2)`,
		group.ID, creatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add creator as participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit group creation: %w", err)
	}

	return group, nil
}

// GetByIDForUser retrieves a group only if the given user is a participant
// or the creator. Invisible groups come back as nil, exactly like missing
// ones, so callers cannot probe for existence.
func (r *Repository) GetByIDForUser(ctx context.Context, id, userID int64) (*Group, error) {
	query := `
		SELECT DISTINCT g.id, g.name, g.creator_id, g.created_at, g.updated_at
		FROM groups g
		LEFT JOIN participants p ON g.id = p.group_id
		WHERE g.id = $1 AND (g.creator_id = $2 OR p.user_id = $2)
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&group.ID,
		&group.Name,
		&group.CreatorID,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// ListForUser retrieves the groups the user created or participates in
func (r *Repository) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*Group, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(DISTINCT g.id)
		FROM groups g
		LEFT JOIN participants p ON g.id = p.group_id
		WHERE g.creator_id = $1 OR p.user_id = $1
	`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT DISTINCT g.id, g.name, g.creator_id, g.created_at, g.updated_at
		FROM groups g
		LEFT JOIN participants p ON g.id = p.group_id
		WHERE g.creator_id = $1 OR p.user_id = $1
		ORDER BY g.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.CreatorID,
			&group.CreatedAt,
			&group.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, total, nil
}

// Rename updates a group's name
func (r *Repository) Rename(ctx context.Context, id int64, name string) (*Group, error) {
	query := `
		UPDATE groups
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, creator_id, created_at, updated_at
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id, name).Scan(
		&group.ID,
		&group.Name,
		&group.CreatorID,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrGroupNameTaken
		}
		return nil, fmt.Errorf("failed to rename group: %w", err)
	}

	return group, nil
}

// Delete removes a group; participants, expenses, splits and payments
// cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}

// AddParticipant registers a user as a participant of a group
func (r *Repository) AddParticipant(ctx context.Context, groupID, userID int64) (*Participant, error) {
	query := `
		INSERT INTO participants (group_id, user_id)
		VALUES ($1, $2)
		RETURNING id, group_id, user_id, joined_at
	`

	participant := &Participant{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(
		&participant.ID,
		&participant.GroupID,
		&participant.UserID,
		&participant.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyParticipant
		}
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}

	return participant, nil
}

// GetParticipants retrieves all participants of a group in join order
func (r *Repository) GetParticipants(ctx context.Context, groupID int64) ([]*Participant, error) {
	query := `
		SELECT p.id, p.group_id, p.user_id, p.joined_at, u.username, u.email, u.full_name
		FROM participants p
		JOIN users u ON p.user_id = u.id
		WHERE p.group_id = $1
		ORDER BY p.joined_at, p.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		participant := &Participant{}
		if err := rows.Scan(
			&participant.ID,
			&participant.GroupID,
			&participant.UserID,
			&participant.JoinedAt,
			&participant.Username,
			&participant.Email,
			&participant.FullName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, participant)
	}

	return participants, nil
}

// IsParticipant reports whether the user is a participant of the group
func (r *Repository) IsParticipant(ctx context.Context, groupID, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM participants WHERE group_id = $1 AND user_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return exists, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
