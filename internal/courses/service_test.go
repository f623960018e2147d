package courses

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-lms/atelier/internal/shared"
)

type mockRepository struct {
	courses map[int64]*Course
	slugs   map[string]int64
	nextID  int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		courses: make(map[int64]*Course),
		slugs:   make(map[string]int64),
		nextID:  1,
	}
}

func (m *mockRepository) visible(c *Course, vis Visibility) bool {
	if vis.IncludeAll || c.Published {
		return true
	}
	return vis.DraftAuthorID != 0 && c.AuthorID == vis.DraftAuthorID
}

func (m *mockRepository) ListPage(ctx context.Context, req shared.PageRequest, vis Visibility) ([]Course, error) {
	ids := make([]int64, 0, len(m.courses))
	for id, c := range m.courses {
		if m.visible(c, vis) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if req.Backward() {
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}
	}
	bound, hasBound := req.Boundary()
	var out []Course
	for _, id := range ids {
		if hasBound {
			if req.Backward() && id >= bound {
				continue
			}
			if !req.Backward() && id <= bound {
				continue
			}
		}
		out = append(out, *m.courses[id])
		if len(out) == req.FetchLimit() {
			break
		}
	}
	return out, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockRepository) Create(ctx context.Context, course *Course) (*Course, error) {
	if _, exists := m.slugs[course.Slug]; exists {
		return nil, shared.ErrConflict
	}
	copied := *course
	copied.ID = m.nextID
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = time.Now()
	m.courses[copied.ID] = &copied
	m.slugs[copied.Slug] = copied.ID
	m.nextID++
	out := copied
	return &out, nil
}

func (m *mockRepository) Update(ctx context.Context, course *Course) (*Course, error) {
	if _, ok := m.courses[course.ID]; !ok {
		return nil, shared.ErrNotFound
	}
	copied := *course
	copied.UpdatedAt = time.Now()
	m.courses[course.ID] = &copied
	out := copied
	return &out, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	c, ok := m.courses[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(m.slugs, c.Slug)
	delete(m.courses, id)
	return nil
}

func principalWith(t *testing.T, id int64, roles ...shared.Role) shared.Principal {
	t.Helper()
	p, err := shared.NewPrincipal(id, roles)
	require.NoError(t, err)
	return p
}

func seedCourse(t *testing.T, repo *mockRepository, authorID int64, published bool) *Course {
	t.Helper()
	c, err := repo.Create(context.Background(), &Course{
		Slug:     fmt.Sprintf("course-%d", repo.nextID),
		Title:    "Course",
		AuthorID: authorID,
	})
	require.NoError(t, err)
	if published {
		c.Published = true
		c, err = repo.Update(context.Background(), c)
		require.NoError(t, err)
	}
	return c
}

func TestListVisibility(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	seedCourse(t, repo, 10, true)  // id 1, published
	seedCourse(t, repo, 10, false) // id 2, author 10's draft
	seedCourse(t, repo, 11, false) // id 3, author 11's draft

	req, rerr := shared.NewPageRequest(10, "", "")
	require.Nil(t, rerr)

	collect := func(p shared.Principal) []int64 {
		res, err := svc.List(context.Background(), p, req)
		require.NoError(t, err)
		require.True(t, res.IsRight())
		var ids []int64
		for _, c := range res.Value().Items {
			ids = append(ids, c.ID)
		}
		return ids
	}

	assert.Equal(t, []int64{1}, collect(shared.GuestPrincipal()))
	assert.Equal(t, []int64{1}, collect(principalWith(t, 20, shared.RoleUser)))
	assert.Equal(t, []int64{1, 2}, collect(principalWith(t, 10, shared.RoleAuthor)))
	assert.Equal(t, []int64{1, 2, 3}, collect(principalWith(t, 99, shared.RoleAdmin)))
}

func TestGetHidesDrafts(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	draft := seedCourse(t, repo, 10, false)

	// A draft reads as absent, not as forbidden.
	res, err := svc.Get(context.Background(), principalWith(t, 20, shared.RoleUser), draft.ID)
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrNotFound)

	res, err = svc.Get(context.Background(), principalWith(t, 10, shared.RoleAuthor), draft.ID)
	require.NoError(t, err)
	assert.True(t, res.IsRight())

	res, err = svc.Get(context.Background(), principalWith(t, 99, shared.RoleAdmin), draft.ID)
	require.NoError(t, err)
	assert.True(t, res.IsRight())
}

func TestCreateAssignsAuthor(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	res, err := svc.Create(context.Background(), principalWith(t, 10, shared.RoleAuthor), CreateCourseInput{
		Slug:  "go-basics",
		Title: "Go Basics",
	})
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.Equal(t, int64(10), res.Value().AuthorID)
	assert.False(t, res.Value().Published)
}

func TestCreateDuplicateSlug(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	in := CreateCourseInput{Slug: "go-basics", Title: "Go Basics"}
	res, err := svc.Create(context.Background(), principalWith(t, 10, shared.RoleAuthor), in)
	require.NoError(t, err)
	require.True(t, res.IsRight())

	res, err = svc.Create(context.Background(), principalWith(t, 11, shared.RoleAuthor), in)
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrConflict)
	assert.Equal(t, "slug go-basics already taken", res.Err().Error())
}

func TestUpdateOwnershipGate(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	course := seedCourse(t, repo, 10, true)

	title := "Retitled"
	res, err := svc.Update(context.Background(), principalWith(t, 11, shared.RoleAuthor), course.ID, UpdateCourseInput{Title: &title})
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrForbidden)

	res, err = svc.Update(context.Background(), principalWith(t, 10, shared.RoleAuthor), course.ID, UpdateCourseInput{Title: &title})
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.Equal(t, "Retitled", res.Value().Title)
}

func TestPublish(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	draft := seedCourse(t, repo, 10, false)

	res, err := svc.Publish(context.Background(), principalWith(t, 10, shared.RoleAuthor), draft.ID)
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.True(t, res.Value().Published)

	// Publishing an already published course is a no-op, not an error.
	res, err = svc.Publish(context.Background(), principalWith(t, 10, shared.RoleAuthor), draft.ID)
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.True(t, res.Value().Published)
}

func TestPublishForbiddenForOtherAuthor(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	draft := seedCourse(t, repo, 10, false)

	res, err := svc.Publish(context.Background(), principalWith(t, 11, shared.RoleAuthor), draft.ID)
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrForbidden)
}

func TestDeleteMissingCourse(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	res, err := svc.Delete(context.Background(), principalWith(t, 99, shared.RoleAdmin), 404)
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrNotFound)
}
