package topics

import (
	"context"
	"errors"

	"github.com/atelier-lms/atelier/internal/shared"
)

// Service handles topic business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListByCourse returns one page of a course's topics.
func (s *Service) ListByCourse(ctx context.Context, principal shared.Principal, courseID int64, req shared.PageRequest) (shared.Result[*shared.Error, shared.Page[Topic]], error) {
	exists, err := s.repo.CourseExists(ctx, courseID)
	if err != nil {
		return shared.Result[*shared.Error, shared.Page[Topic]]{}, err
	}
	if !exists {
		return shared.Left[*shared.Error, shared.Page[Topic]](shared.NotFoundError("course %d not found", courseID)), nil
	}
	rows, err := s.repo.ListPageByCourse(ctx, req, courseID)
	if err != nil {
		return shared.Result[*shared.Error, shared.Page[Topic]]{}, err
	}
	page := shared.BuildPage(rows, req, func(t Topic) int64 { return t.ID })
	return shared.Right[*shared.Error](page), nil
}

// Get returns a single topic.
func (s *Service) Get(ctx context.Context, principal shared.Principal, id int64) (shared.Result[*shared.Error, *Topic], error) {
	topic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound(id), nil
		}
		return shared.Result[*shared.Error, *Topic]{}, err
	}
	return shared.Right[*shared.Error](topic), nil
}

// Create registers a new topic authored by the calling principal.
func (s *Service) Create(ctx context.Context, principal shared.Principal, in CreateTopicInput) (shared.Result[*shared.Error, *Topic], error) {
	exists, err := s.repo.CourseExists(ctx, in.CourseID)
	if err != nil {
		return shared.Result[*shared.Error, *Topic]{}, err
	}
	if !exists {
		return shared.Left[*shared.Error, *Topic](shared.NotFoundError("course %d not found", in.CourseID)), nil
	}
	topic := &Topic{
		CourseID: in.CourseID,
		AuthorID: principal.ID,
		Title:    in.Title,
		Body:     in.Body,
	}
	created, err := s.repo.Create(ctx, topic)
	if err != nil {
		return shared.Result[*shared.Error, *Topic]{}, err
	}
	return shared.Right[*shared.Error](created), nil
}

// Update mutates a topic for its author or an admin.
func (s *Service) Update(ctx context.Context, principal shared.Principal, id int64, in UpdateTopicInput) (shared.Result[*shared.Error, *Topic], error) {
	topic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound(id), nil
		}
		return shared.Result[*shared.Error, *Topic]{}, err
	}
	if !s.canManage(principal, topic) {
		return shared.Left[*shared.Error, *Topic](shared.ForbiddenError("only the topic author or an admin may update topic %d", id)), nil
	}
	if in.Title != nil {
		topic.Title = *in.Title
	}
	if in.Body != nil {
		topic.Body = *in.Body
	}
	updated, err := s.repo.Update(ctx, topic)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound(id), nil
		}
		return shared.Result[*shared.Error, *Topic]{}, err
	}
	return shared.Right[*shared.Error](updated), nil
}

// Pin marks a topic as pinned. The route policy restricts this to admins.
func (s *Service) Pin(ctx context.Context, principal shared.Principal, id int64, pinned bool) (shared.Result[*shared.Error, *Topic], error) {
	topic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound(id), nil
		}
		return shared.Result[*shared.Error, *Topic]{}, err
	}
	topic.Pinned = pinned
	updated, err := s.repo.Update(ctx, topic)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound(id), nil
		}
		return shared.Result[*shared.Error, *Topic]{}, err
	}
	return shared.Right[*shared.Error](updated), nil
}

// Delete removes a topic for its author or an admin.
func (s *Service) Delete(ctx context.Context, principal shared.Principal, id int64) (shared.Result[*shared.Error, struct{}], error) {
	topic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Left[*shared.Error, struct{}](shared.NotFoundError("topic %d not found", id)), nil
		}
		return shared.Result[*shared.Error, struct{}]{}, err
	}
	if !s.canManage(principal, topic) {
		return shared.Left[*shared.Error, struct{}](shared.ForbiddenError("only the topic author or an admin may delete topic %d", id)), nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Left[*shared.Error, struct{}](shared.NotFoundError("topic %d not found", id)), nil
		}
		return shared.Result[*shared.Error, struct{}]{}, err
	}
	return shared.Right[*shared.Error](struct{}{}), nil
}

func (s *Service) canManage(principal shared.Principal, topic *Topic) bool {
	return principal.HasRole(shared.RoleAdmin) || principal.ID == topic.AuthorID
}

func notFound(id int64) shared.Result[*shared.Error, *Topic] {
	return shared.Left[*shared.Error, *Topic](shared.NotFoundError("topic %d not found", id))
}
