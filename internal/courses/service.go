package courses

import (
	"context"
	"errors"

	"github.com/atelier-lms/atelier/internal/shared"
)

// Service handles course business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func visibilityFor(principal shared.Principal) Visibility {
	if principal.HasRole(shared.RoleAdmin) {
		return Visibility{IncludeAll: true}
	}
	if principal.HasRole(shared.RoleAuthor) {
		return Visibility{DraftAuthorID: principal.ID}
	}
	return Visibility{}
}

// List returns one page of courses visible to the principal. Guests and
// regular users see published courses; authors additionally their own
// drafts; admins everything.
func (s *Service) List(ctx context.Context, principal shared.Principal, req shared.PageRequest) (shared.Result[*shared.Error, shared.Page[Course]], error) {
	rows, err := s.repo.ListPage(ctx, req, visibilityFor(principal))
	if err != nil {
		return shared.Result[*shared.Error, shared.Page[Course]]{}, err
	}
	page := shared.BuildPage(rows, req, func(c Course) int64 { return c.ID })
	return shared.Right[*shared.Error](page), nil
}

// Get returns a single course. Drafts are indistinguishable from absent
// courses for everyone but their author and admins.
func (s *Service) Get(ctx context.Context, principal shared.Principal, id int64) (shared.Result[*shared.Error, *Course], error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound(id), nil
		}
		return shared.Result[*shared.Error, *Course]{}, err
	}
	if !course.Published && !s.canManage(principal, course) {
		return notFound(id), nil
	}
	return shared.Right[*shared.Error](course), nil
}

// Create registers a new draft course owned by the calling author.
func (s *Service) Create(ctx context.Context, principal shared.Principal, in CreateCourseInput) (shared.Result[*shared.Error, *Course], error) {
	course := &Course{
		Slug:        in.Slug,
		Title:       in.Title,
		Description: in.Description,
		AuthorID:    principal.ID,
	}
	created, err := s.repo.Create(ctx, course)
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return shared.Left[*shared.Error, *Course](shared.ConflictError("slug %s already taken", in.Slug)), nil
		}
		return shared.Result[*shared.Error, *Course]{}, err
	}
	return shared.Right[*shared.Error](created), nil
}

// Update mutates a course. Only the owning author or an admin may update;
// ownership is only known once the course is loaded, so the gate lives here
// rather than in the route policy.
func (s *Service) Update(ctx context.Context, principal shared.Principal, id int64, in UpdateCourseInput) (shared.Result[*shared.Error, *Course], error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound(id), nil
		}
		return shared.Result[*shared.Error, *Course]{}, err
	}
	if !s.canManage(principal, course) {
		return shared.Left[*shared.Error, *Course](shared.ForbiddenError("only the course author or an admin may update course %d", id)), nil
	}
	if in.Title != nil {
		course.Title = *in.Title
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	updated, err := s.repo.Update(ctx, course)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound(id), nil
		}
		return shared.Result[*shared.Error, *Course]{}, err
	}
	return shared.Right[*shared.Error](updated), nil
}

// Publish makes a course visible to everyone.
func (s *Service) Publish(ctx context.Context, principal shared.Principal, id int64) (shared.Result[*shared.Error, *Course], error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound(id), nil
		}
		return shared.Result[*shared.Error, *Course]{}, err
	}
	if !s.canManage(principal, course) {
		return shared.Left[*shared.Error, *Course](shared.ForbiddenError("only the course author or an admin may publish course %d", id)), nil
	}
	if course.Published {
		return shared.Right[*shared.Error](course), nil
	}
	course.Published = true
	updated, err := s.repo.Update(ctx, course)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound(id), nil
		}
		return shared.Result[*shared.Error, *Course]{}, err
	}
	return shared.Right[*shared.Error](updated), nil
}

// Delete removes a course.
func (s *Service) Delete(ctx context.Context, principal shared.Principal, id int64) (shared.Result[*shared.Error, struct{}], error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Left[*shared.Error, struct{}](shared.NotFoundError("course %d not found", id)), nil
		}
		return shared.Result[*shared.Error, struct{}]{}, err
	}
	return shared.Right[*shared.Error](struct{}{}), nil
}

func (s *Service) canManage(principal shared.Principal, course *Course) bool {
	if principal.HasRole(shared.RoleAdmin) {
		return true
	}
	return principal.HasRole(shared.RoleAuthor) && principal.ID == course.AuthorID
}

func notFound(id int64) shared.Result[*shared.Error, *Course] {
	return shared.Left[*shared.Error, *Course](shared.NotFoundError("course %d not found", id))
}
