package courses

import "time"

// Course is a published or draft unit of teaching material.
type Course struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AuthorID    int64     `json:"authorId"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateCourseInput carries the fields for course creation. The author is
// always the calling principal.
type CreateCourseInput struct {
	Slug        string
	Title       string
	Description string
}

// UpdateCourseInput carries partial course updates. Nil fields are
// unchanged.
type UpdateCourseInput struct {
	Title       *string
	Description *string
}

// Visibility narrows a listing to what the viewer may see. The zero value
// shows published courses only.
type Visibility struct {
	// IncludeAll lifts the published filter entirely (admins).
	IncludeAll bool
	// DraftAuthorID additionally admits drafts owned by this author.
	DraftAuthorID int64
}
