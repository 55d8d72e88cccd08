package group

import (
	"time"

	"github.com/LuccaDangelo/RachAi/internal/user"
)

// Group represents a group of people sharing expenses
type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatorID int64     `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Participant represents a user's membership in a group
type Participant struct {
	ID       int64     `json:"id"`
	GroupID  int64     `json:"group_id"`
	UserID   int64     `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`

	// Populated via JOIN
	Username string  `json:"username,omitempty"`
	Email    string  `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// DisplayName applies the user display rule to the joined columns
func (p *Participant) DisplayName() string {
	return user.DisplayNameFor(p.Username, p.FullName)
}
