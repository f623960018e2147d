package users

import (
	"context"
	"errors"
	"fmt"

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

const userColumns = `id, email, name, roles, is_active, created_at, updated_at`

const uniqueViolation = "23505"

func scanUserRow(row pgx.Row) (*User, error) {
	var user User
	var roles []string
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &roles, &user.Active, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	for _, name := range roles {
		role, err := shared.ParseRole(name)
		if err != nil {
			return nil, fmt.Errorf("users: user %d: %w", user.ID, err)
		}
		user.Roles = append(user.Roles, role)
	}
	return &user, nil
}

// ListPage returns one keyset page of users ordered by id. Rows come back in
// query order; shared.BuildPage restores ascending order for backward pages.
func (r *Repository) ListPage(ctx context.Context, req shared.PageRequest) ([]User, error) {
	var (
		rows pgx.Rows
		err  error
	)
	boundary, bounded := req.Boundary()
	switch {
	case req.Backward():
		rows, err = r.pool.Query(ctx,
			`SELECT `+userColumns+` FROM users WHERE id < $1 ORDER BY id DESC LIMIT $2`,
			boundary, req.FetchLimit())
	case bounded:
		rows, err = r.pool.Query(ctx,
			`SELECT `+userColumns+` FROM users WHERE id > $1 ORDER BY id ASC LIMIT $2`,
			boundary, req.FetchLimit())
	default:
		rows, err = r.pool.Query(ctx,
			`SELECT `+userColumns+` FROM users ORDER BY id ASC LIMIT $1`,
			req.FetchLimit())
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// FindByID fetches a user by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUserRow(row)
}

// Create inserts a new account. A duplicate email yields shared.ErrConflict.
func (r *Repository) Create(ctx context.Context, in CreateUserInput, passwordHash string) (*User, error) {
	roles := make([]string, 0, len(in.Roles))
	for _, role := range in.Roles {
		roles = append(roles, role.String())
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, roles, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, TRUE, now(), now())
		 RETURNING `+userColumns,
		in.Email, in.Name, passwordHash, roles)
	user, err := scanUserRow(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, shared.ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// Update persists mutable account fields.
func (r *Repository) Update(ctx context.Context, user *User) (*User, error) {
	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, role.String())
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET name = $2, roles = $3, is_active = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		user.ID, user.Name, roles, user.Active)
	return scanUserRow(row)
}

// Delete removes an account.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
