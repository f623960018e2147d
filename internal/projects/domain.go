package projects

import "time"

// Project is a learner's workspace, optionally attached to a course.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary"`
	OwnerID   int64     `json:"ownerId"`
	CourseID  *int64    `json:"courseId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateProjectInput carries the fields for project creation. The owner is
// always the calling principal.
type CreateProjectInput struct {
	Name     string
	Summary  string
	CourseID *int64
}

// UpdateProjectInput carries partial project updates. Nil fields are
// unchanged.
type UpdateProjectInput struct {
	Name    *string
	Summary *string
}
