package topics

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
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

const topicColumns = `id, course_id, author_id, title, body, is_pinned, created_at, updated_at`

func scanTopicRow(row pgx.Row) (*Topic, error) {
	var t Topic
	if err := row.Scan(&t.ID, &t.CourseID, &t.AuthorID, &t.Title, &t.Body, &t.Pinned, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListPageByCourse returns one keyset page of a course's topics ordered by
// id in query order.
func (r *Repository) ListPageByCourse(ctx context.Context, req shared.PageRequest, courseID int64) ([]Topic, error) {
	args := []any{courseID}

	var query string
	boundary, bounded := req.Boundary()
	switch {
	case req.Backward():
		query = `SELECT ` + topicColumns + ` FROM topics WHERE course_id = $1 AND id < $2 ORDER BY id DESC LIMIT $3`
		args = append(args, boundary, req.FetchLimit())
	case bounded:
		query = `SELECT ` + topicColumns + ` FROM topics WHERE course_id = $1 AND id > $2 ORDER BY id ASC LIMIT $3`
		args = append(args, boundary, req.FetchLimit())
	default:
		query = `SELECT ` + topicColumns + ` FROM topics WHERE course_id = $1 ORDER BY id ASC LIMIT $2`
		args = append(args, req.FetchLimit())
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []Topic
	for rows.Next() {
		topic, err := scanTopicRow(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, *topic)
	}
	return topics, rows.Err()
}

// FindByID fetches a topic by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Topic, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+topicColumns+` FROM topics WHERE id = $1`, id)
	return scanTopicRow(row)
}

// CourseExists reports whether a course row exists.
func (r *Repository) CourseExists(ctx context.Context, courseID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`, courseID).Scan(&exists)
	return exists, err
}

// Create inserts a new topic.
func (r *Repository) Create(ctx context.Context, topic *Topic) (*Topic, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO topics (course_id, author_id, title, body, is_pinned, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, FALSE, now(), now())
		 RETURNING `+topicColumns,
		topic.CourseID, topic.AuthorID, topic.Title, topic.Body)
	return scanTopicRow(row)
}

// Update persists mutable topic fields.
func (r *Repository) Update(ctx context.Context, topic *Topic) (*Topic, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE topics SET title = $2, body = $3, is_pinned = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+topicColumns,
		topic.ID, topic.Title, topic.Body, topic.Pinned)
	return scanTopicRow(row)
}

// Delete removes a topic.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
