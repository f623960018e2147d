package projects

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelier-lms/atelier/internal/platform/db"
	"github.com/atelier-lms/atelier/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const projectColumns = `id, name, summary, owner_id, course_id, created_at, updated_at`

func scanProjectRow(row pgx.Row) (*Project, error) {
	var p Project
	if err := row.Scan(&p.ID, &p.Name, &p.Summary, &p.OwnerID, &p.CourseID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListPage returns one keyset page of projects ordered by id, optionally
// scoped to an owner.
func (r *Repository) ListPage(ctx context.Context, req shared.PageRequest, ownerID int64) ([]Project, error) {
	scope := `(owner_id = $1 OR $1 = 0)`
	args := []any{ownerID}

	var query string
	boundary, bounded := req.Boundary()
	switch {
	case req.Backward():
		query = `SELECT ` + projectColumns + ` FROM projects WHERE ` + scope + ` AND id < $2 ORDER BY id DESC LIMIT $3`
		args = append(args, boundary, req.FetchLimit())
	case bounded:
		query = `SELECT ` + projectColumns + ` FROM projects WHERE ` + scope + ` AND id > $2 ORDER BY id ASC LIMIT $3`
		args = append(args, boundary, req.FetchLimit())
	default:
		query = `SELECT ` + projectColumns + ` FROM projects WHERE ` + scope + ` ORDER BY id ASC LIMIT $2`
		args = append(args, req.FetchLimit())
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		project, err := scanProjectRow(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

// FindByID fetches a project by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProjectRow(row)
}

// Create inserts a new project. The referenced course is checked inside the
// same transaction so a concurrent course deletion cannot slip between
// check and insert.
func (r *Repository) Create(ctx context.Context, project *Project) (*Project, error) {
	var created *Project
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if project.CourseID != nil {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`, *project.CourseID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return shared.ErrNotFound
			}
		}
		row := tx.QueryRow(ctx,
			`INSERT INTO projects (name, summary, owner_id, course_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, now(), now())
			 RETURNING `+projectColumns,
			project.Name, project.Summary, project.OwnerID, project.CourseID)
		p, err := scanProjectRow(row)
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update persists mutable project fields.
func (r *Repository) Update(ctx context.Context, project *Project) (*Project, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE projects SET name = $2, summary = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING `+projectColumns,
		project.ID, project.Name, project.Summary)
	return scanProjectRow(row)
}

// Delete removes a project.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
