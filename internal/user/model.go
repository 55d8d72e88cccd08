package user

import (
	"strings"
	"time"
)

// User represents a user in the system
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the name shown next to balances and settlements
func (u *User) DisplayName() string {
	return DisplayNameFor(u.Username, u.FullName)
}

// DisplayNameFor derives a presentable name from raw user columns: the full
// name when one is set, otherwise the username up to any "@" (some accounts
// use their email address as username). Other packages call this for rows
// they fetched with a users JOIN.
func DisplayNameFor(username string, fullName *string) string {
	if fullName != nil {
		if name := strings.TrimSpace(*fullName); name != "" {
			return name
		}
	}
	if at := strings.Index(username, "@"); at > 0 {
		return username[:at]
	}
	return username
}
