package topics

import (
	"context"

	"github.com/atelier-lms/atelier/internal/shared"
)

// RepositoryPort defines data access methods for topics. Implementations
// return shared.ErrNotFound for absent rows.
type RepositoryPort interface {
	ListPageByCourse(ctx context.Context, req shared.PageRequest, courseID int64) ([]Topic, error)
	FindByID(ctx context.Context, id int64) (*Topic, error)
	CourseExists(ctx context.Context, courseID int64) (bool, error)
	Create(ctx context.Context, topic *Topic) (*Topic, error)
	Update(ctx context.Context, topic *Topic) (*Topic, error)
	Delete(ctx context.Context, id int64) error
}
