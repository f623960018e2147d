package courses

import (
	"context"

	"github.com/atelier-lms/atelier/internal/shared"
)

// RepositoryPort defines data access methods for courses. Implementations
// return shared.ErrNotFound for absent rows and shared.ErrConflict for slug
// collisions.
type RepositoryPort interface {
	ListPage(ctx context.Context, req shared.PageRequest, vis Visibility) ([]Course, error)
	FindByID(ctx context.Context, id int64) (*Course, error)
	Create(ctx context.Context, course *Course) (*Course, error)
	Update(ctx context.Context, course *Course) (*Course, error)
	Delete(ctx context.Context, id int64) error
}
