package group

import (
	"context"
	"errors"
	"strings"

	"github.com/LuccaDangelo/RachAi/internal/user"
)

// Common errors
var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrGroupNameTaken     = errors.New("you already have a group with this name")
	ErrNotCreator         = errors.New("only the group creator can do this")
	ErrAlreadyParticipant = errors.New("user is already in this group")
)

// Service handles group business logic
type Service struct {
	repo     *Repository
	userRepo *user.Repository
}

// NewService creates a new group service
func NewService(repo *Repository, userRepo *user.Repository) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
	}
}

// Create creates a group and registers the creator as its first participant.
// Group names are unique per creator, case-insensitively; the database
// enforces the constraint so concurrent duplicates cannot slip through.
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	return s.repo.Create(ctx, creatorID, strings.TrimSpace(req.Name))
}

// GetByID retrieves a group visible to the requesting user, with its
// participants. Membership failures read as not-found.
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*Group, []*Participant, error) {
	group, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}
	if group == nil {
		return nil, nil, ErrGroupNotFound
	}

	participants, err := s.repo.GetParticipants(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, participants, nil
}

// ListForUser retrieves the groups the user created or joined
func (s *Service) ListForUser(ctx context.Context, userID int64, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListForUser(ctx, userID, perPage, offset)
}

// Rename renames a group; only the creator may do so
func (s *Service) Rename(ctx context.Context, id, userID int64, req *UpdateGroupRequest) (*Group, error) {
	group, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	if group.CreatorID != userID {
		return nil, ErrNotCreator
	}

	renamed, err := s.repo.Rename(ctx, id, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, err
	}
	if renamed == nil {
		return nil, ErrGroupNotFound
	}
	return renamed, nil
}

// Delete removes a group and everything in it; only the creator may do so
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	group, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}
	if group.CreatorID != userID {
		return ErrNotCreator
	}

	return s.repo.Delete(ctx, id)
}

// AddParticipant adds a user, found by username or email, to the group.
// Only the group creator may add participants.
func (s *Service) AddParticipant(ctx context.Context, groupID, actorID int64, req *AddParticipantRequest) (*Participant, error) {
	group, err := s.repo.GetByIDForUser(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	if group.CreatorID != actorID {
		return nil, ErrNotCreator
	}

	target, err := s.userRepo.GetByIdentifier(ctx, strings.TrimSpace(req.Identifier))
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, user.ErrUserNotFound
	}

	participant, err := s.repo.AddParticipant(ctx, groupID, target.ID)
	if err != nil {
		return nil, err
	}

	participant.Username = target.Username
	participant.Email = target.Email
	participant.FullName = target.FullName
	return participant, nil
}

// GetParticipants retrieves the participants of a group visible to the user
func (s *Service) GetParticipants(ctx context.Context, groupID, userID int64) ([]*Participant, error) {
	group, err := s.repo.GetByIDForUser(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	return s.repo.GetParticipants(ctx, groupID)
}
