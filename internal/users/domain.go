package users

import (
	"time"

	"github.com/atelier-lms/atelier/internal/shared"
)

// User represents a platform account.
type User struct {
	ID        int64         `json:"id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Roles     []shared.Role `json:"roles"`
	Active    bool          `json:"active"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// CreateUserInput carries the fields for account creation. Roles defaults to
// {user} when empty.
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Roles    []shared.Role
}

// UpdateUserInput carries partial account updates. Nil fields are unchanged.
// Roles may only be changed by an admin.
type UpdateUserInput struct {
	Name   *string
	Active *bool
	Roles  []shared.Role
}
