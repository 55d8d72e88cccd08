package user

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=150"`
	Email    string  `json:"email" validate:"required,email"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=150"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
}

// UserResponse represents the response for a single user
type UserResponse struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FullName    *string `json:"full_name,omitempty"`
	DisplayName string  `json:"display_name"`
	CreatedAt   string  `json:"created_at"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		DisplayName: u.DisplayName(),
		CreatedAt:   u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
