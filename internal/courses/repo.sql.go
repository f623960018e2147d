package courses

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

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

const courseColumns = `id, slug, title, description, author_id, is_published, created_at, updated_at`

const uniqueViolation = "23505"

func scanCourseRow(row pgx.Row) (*Course, error) {
	var c Course
	if err := row.Scan(&c.ID, &c.Slug, &c.Title, &c.Description, &c.AuthorID, &c.Published, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListPage returns one keyset page of courses the viewer may see, ordered by
// id in query order.
func (r *Repository) ListPage(ctx context.Context, req shared.PageRequest, vis Visibility) ([]Course, error) {
	// The visibility predicate composes with the keyset bound; the id
	// ordering stays unique and total regardless of the filter.
	visible := `(is_published OR author_id = $1 OR $2)`
	args := []any{vis.DraftAuthorID, vis.IncludeAll}

	var query string
	boundary, bounded := req.Boundary()
	switch {
	case req.Backward():
		query = `SELECT ` + courseColumns + ` FROM courses WHERE ` + visible + ` AND id < $3 ORDER BY id DESC LIMIT $4`
		args = append(args, boundary, req.FetchLimit())
	case bounded:
		query = `SELECT ` + courseColumns + ` FROM courses WHERE ` + visible + ` AND id > $3 ORDER BY id ASC LIMIT $4`
		args = append(args, boundary, req.FetchLimit())
	default:
		query = `SELECT ` + courseColumns + ` FROM courses WHERE ` + visible + ` ORDER BY id ASC LIMIT $3`
		args = append(args, req.FetchLimit())
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []Course
	for rows.Next() {
		course, err := scanCourseRow(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}
	return courses, rows.Err()
}

// FindByID fetches a course by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Course, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	return scanCourseRow(row)
}

// Create inserts a new course. A duplicate slug yields shared.ErrConflict.
func (r *Repository) Create(ctx context.Context, course *Course) (*Course, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO courses (slug, title, description, author_id, is_published, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, FALSE, now(), now())
		 RETURNING `+courseColumns,
		course.Slug, course.Title, course.Description, course.AuthorID)
	created, err := scanCourseRow(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, shared.ErrConflict
		}
		return nil, err
	}
	return created, nil
}

// Update persists mutable course fields.
func (r *Repository) Update(ctx context.Context, course *Course) (*Course, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE courses SET title = $2, description = $3, is_published = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+courseColumns,
		course.ID, course.Title, course.Description, course.Published)
	return scanCourseRow(row)
}

// Delete removes a course.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
