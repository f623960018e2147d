package projects

import (
	"context"

	"github.com/atelier-lms/atelier/internal/shared"
)

// RepositoryPort defines data access methods for projects. ListPage scoped
// to ownerID zero lists every project. Create returns shared.ErrNotFound
// when the referenced course is absent.
type RepositoryPort interface {
	ListPage(ctx context.Context, req shared.PageRequest, ownerID int64) ([]Project, error)
	FindByID(ctx context.Context, id int64) (*Project, error)
	Create(ctx context.Context, project *Project) (*Project, error)
	Update(ctx context.Context, project *Project) (*Project, error)
	Delete(ctx context.Context, id int64) error
}
