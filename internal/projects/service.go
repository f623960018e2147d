package projects

import (
	"context"
	"errors"

	"github.com/atelier-lms/atelier/internal/shared"
)

// Service handles project business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns one page of projects: admins see every project, everyone
// else only their own.
func (s *Service) List(ctx context.Context, principal shared.Principal, req shared.PageRequest) (shared.Result[*shared.Error, shared.Page[Project]], error) {
	ownerID := principal.ID
	if principal.HasRole(shared.RoleAdmin) {
		ownerID = 0
	}
	rows, err := s.repo.ListPage(ctx, req, ownerID)
	if err != nil {
		return shared.Result[*shared.Error, shared.Page[Project]]{}, err
	}
	page := shared.BuildPage(rows, req, func(p Project) int64 { return p.ID })
	return shared.Right[*shared.Error](page), nil
}

// Get returns a single project for its owner or an admin.
func (s *Service) Get(ctx context.Context, principal shared.Principal, id int64) (shared.Result[*shared.Error, *Project], error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound(id), nil
		}
		return shared.Result[*shared.Error, *Project]{}, err
	}
	if !s.canAccess(principal, project) {
		return shared.Left[*shared.Error, *Project](shared.ForbiddenError("project %d belongs to another user", id)), nil
	}
	return shared.Right[*shared.Error](project), nil
}

// Create registers a new project owned by the calling principal. A missing
// referenced course is an expected failure, not an infrastructure fault.
func (s *Service) Create(ctx context.Context, principal shared.Principal, in CreateProjectInput) (shared.Result[*shared.Error, *Project], error) {
	project := &Project{
		Name:     in.Name,
		Summary:  in.Summary,
		OwnerID:  principal.ID,
		CourseID: in.CourseID,
	}
	created, err := s.repo.Create(ctx, project)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Left[*shared.Error, *Project](shared.NotFoundError("course %d not found", deref(in.CourseID))), nil
		}
		return shared.Result[*shared.Error, *Project]{}, err
	}
	return shared.Right[*shared.Error](created), nil
}

// Update mutates a project for its owner or an admin.
func (s *Service) Update(ctx context.Context, principal shared.Principal, id int64, in UpdateProjectInput) (shared.Result[*shared.Error, *Project], error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound(id), nil
		}
		return shared.Result[*shared.Error, *Project]{}, err
	}
	if !s.canAccess(principal, project) {
		return shared.Left[*shared.Error, *Project](shared.ForbiddenError("project %d belongs to another user", id)), nil
	}
	if in.Name != nil {
		project.Name = *in.Name
	}
	if in.Summary != nil {
		project.Summary = *in.Summary
	}
	updated, err := s.repo.Update(ctx, project)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound(id), nil
		}
		return shared.Result[*shared.Error, *Project]{}, err
	}
	return shared.Right[*shared.Error](updated), nil
}

// Delete removes a project for its owner or an admin.
func (s *Service) Delete(ctx context.Context, principal shared.Principal, id int64) (shared.Result[*shared.Error, struct{}], error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Left[*shared.Error, struct{}](shared.NotFoundError("project %d not found", id)), nil
		}
		return shared.Result[*shared.Error, struct{}]{}, err
	}
	if !s.canAccess(principal, project) {
		return shared.Left[*shared.Error, struct{}](shared.ForbiddenError("project %d belongs to another user", id)), nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Left[*shared.Error, struct{}](shared.NotFoundError("project %d not found", id)), nil
		}
		return shared.Result[*shared.Error, struct{}]{}, err
	}
	return shared.Right[*shared.Error](struct{}{}), nil
}

func (s *Service) canAccess(principal shared.Principal, project *Project) bool {
	return principal.HasRole(shared.RoleAdmin) || principal.ID == project.OwnerID
}

func notFound(id int64) shared.Result[*shared.Error, *Project] {
	return shared.Left[*shared.Error, *Project](shared.NotFoundError("project %d not found", id))
}

func deref(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
