package topics

import "time"

// Topic is a discussion thread attached to a course.
type Topic struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"courseId"`
	AuthorID  int64     `json:"authorId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateTopicInput carries the fields for topic creation. The author is
// always the calling principal.
type CreateTopicInput struct {
	CourseID int64
	Title    string
	Body     string
}

// UpdateTopicInput carries partial topic updates. Nil fields are unchanged.
type UpdateTopicInput struct {
	Title *string
	Body  *string
}
