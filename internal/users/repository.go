package users

import (
	"context"

	"github.com/atelier-lms/atelier/internal/shared"
)

// RepositoryPort defines data access methods for users. Implementations
// return shared.ErrNotFound for absent rows and shared.ErrConflict for
// uniqueness violations.
type RepositoryPort interface {
	ListPage(ctx context.Context, req shared.PageRequest) ([]User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, in CreateUserInput, passwordHash string) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	Delete(ctx context.Context, id int64) error
}
