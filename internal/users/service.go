package users

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/atelier-lms/atelier/internal/shared"
)

// Service handles user business logic. Every use-case takes the resolved
// principal, performs its own gates beyond the route policy, and returns a
// Result; the trailing error is for infrastructure faults only.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns one page of accounts.
func (s *Service) List(ctx context.Context, principal shared.Principal, req shared.PageRequest) (shared.Result[*shared.Error, shared.Page[User]], error) {
	rows, err := s.repo.ListPage(ctx, req)
	if err != nil {
		return shared.Result[*shared.Error, shared.Page[User]]{}, err
	}
	page := shared.BuildPage(rows, req, func(u User) int64 { return u.ID })
	return shared.Right[*shared.Error](page), nil
}

// Get returns a single account. Admins may read any account; everyone else
// only their own.
func (s *Service) Get(ctx context.Context, principal shared.Principal, id int64) (shared.Result[*shared.Error, *User], error) {
	if !principal.HasRole(shared.RoleAdmin) && principal.ID != id {
		return shared.Left[*shared.Error, *User](shared.ForbiddenError("cannot read another user's account")), nil
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Left[*shared.Error, *User](shared.NotFoundError("user %d not found", id)), nil
		}
		return shared.Result[*shared.Error, *User]{}, err
	}
	return shared.Right[*shared.Error](user), nil
}

// Create registers a new account.
func (s *Service) Create(ctx context.Context, principal shared.Principal, in CreateUserInput) (shared.Result[*shared.Error, *User], error) {
	if len(in.Roles) == 0 {
		in.Roles = []shared.Role{shared.RoleUser}
	}
	for _, role := range in.Roles {
		if !role.Valid() || role == shared.RoleGuest {
			return shared.Left[*shared.Error, *User](shared.BadRequestError("role %q cannot be assigned", role)), nil
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return shared.Result[*shared.Error, *User]{}, err
	}
	user, err := s.repo.Create(ctx, in, string(hash))
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return shared.Left[*shared.Error, *User](shared.ConflictError("email %s already registered", in.Email)), nil
		}
		return shared.Result[*shared.Error, *User]{}, err
	}
	return shared.Right[*shared.Error](user), nil
}

// Update mutates an account. Admins may update anyone; users only
// themselves, and never their own role set.
func (s *Service) Update(ctx context.Context, principal shared.Principal, id int64, in UpdateUserInput) (shared.Result[*shared.Error, *User], error) {
	isAdmin := principal.HasRole(shared.RoleAdmin)
	if !isAdmin && principal.ID != id {
		return shared.Left[*shared.Error, *User](shared.ForbiddenError("cannot update another user's account")), nil
	}
	if in.Roles != nil && !isAdmin {
		return shared.Left[*shared.Error, *User](shared.ForbiddenError("only admins may change roles")), nil
	}
	if in.Roles != nil {
		if len(in.Roles) == 0 {
			return shared.Left[*shared.Error, *User](shared.BadRequestError("roles cannot be empty")), nil
		}
		for _, role := range in.Roles {
			if !role.Valid() || role == shared.RoleGuest {
				return shared.Left[*shared.Error, *User](shared.BadRequestError("role %q cannot be assigned", role)), nil
			}
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Left[*shared.Error, *User](shared.NotFoundError("user %d not found", id)), nil
		}
		return shared.Result[*shared.Error, *User]{}, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Active != nil {
		user.Active = *in.Active
	}
	if in.Roles != nil {
		user.Roles = in.Roles
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Left[*shared.Error, *User](shared.NotFoundError("user %d not found", id)), nil
		}
		return shared.Result[*shared.Error, *User]{}, err
	}
	return shared.Right[*shared.Error](updated), nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, principal shared.Principal, id int64) (shared.Result[*shared.Error, struct{}], error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Left[*shared.Error, struct{}](shared.NotFoundError("user %d not found", id)), nil
		}
		return shared.Result[*shared.Error, struct{}]{}, err
	}
	return shared.Right[*shared.Error](struct{}{}), nil
}
