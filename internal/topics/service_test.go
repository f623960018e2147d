package topics

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-lms/atelier/internal/shared"
)

type mockRepository struct {
	topics  map[int64]*Topic
	courses map[int64]bool
	nextID  int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		topics:  make(map[int64]*Topic),
		courses: make(map[int64]bool),
		nextID:  1,
	}
}

func (m *mockRepository) ListPageByCourse(ctx context.Context, req shared.PageRequest, courseID int64) ([]Topic, error) {
	ids := make([]int64, 0, len(m.topics))
	for id, topic := range m.topics {
		if topic.CourseID == courseID {
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
	var out []Topic
	for _, id := range ids {
		if hasBound {
			if req.Backward() && id >= bound {
				continue
			}
			if !req.Backward() && id <= bound {
				continue
			}
		}
		out = append(out, *m.topics[id])
		if len(out) == req.FetchLimit() {
			break
		}
	}
	return out, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*Topic, error) {
	topic, ok := m.topics[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *topic
	return &copied, nil
}

func (m *mockRepository) CourseExists(ctx context.Context, courseID int64) (bool, error) {
	return m.courses[courseID], nil
}

func (m *mockRepository) Create(ctx context.Context, topic *Topic) (*Topic, error) {
	copied := *topic
	copied.ID = m.nextID
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = time.Now()
	m.topics[copied.ID] = &copied
	m.nextID++
	out := copied
	return &out, nil
}

func (m *mockRepository) Update(ctx context.Context, topic *Topic) (*Topic, error) {
	if _, ok := m.topics[topic.ID]; !ok {
		return nil, shared.ErrNotFound
	}
	copied := *topic
	copied.UpdatedAt = time.Now()
	m.topics[topic.ID] = &copied
	out := copied
	return &out, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.topics[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.topics, id)
	return nil
}

func principalWith(t *testing.T, id int64, roles ...shared.Role) shared.Principal {
	t.Helper()
	p, err := shared.NewPrincipal(id, roles)
	require.NoError(t, err)
	return p
}

func seedTopic(t *testing.T, repo *mockRepository, courseID, authorID int64) *Topic {
	t.Helper()
	repo.courses[courseID] = true
	topic, err := repo.Create(context.Background(), &Topic{
		CourseID: courseID,
		AuthorID: authorID,
		Title:    "Thread",
	})
	require.NoError(t, err)
	return topic
}

func TestListByCourse(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	seedTopic(t, repo, 5, 10)
	seedTopic(t, repo, 5, 11)
	seedTopic(t, repo, 6, 10)

	req, rerr := shared.NewPageRequest(10, "", "")
	require.Nil(t, rerr)

	res, err := svc.ListByCourse(context.Background(), shared.GuestPrincipal(), 5, req)
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.Len(t, res.Value().Items, 2)
}

func TestListByMissingCourse(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	req, rerr := shared.NewPageRequest(10, "", "")
	require.Nil(t, rerr)

	res, err := svc.ListByCourse(context.Background(), shared.GuestPrincipal(), 404, req)
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrNotFound)
}

func TestGet(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	topic := seedTopic(t, repo, 5, 10)

	res, err := svc.Get(context.Background(), shared.GuestPrincipal(), topic.ID)
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.Equal(t, "Thread", res.Value().Title)

	res, err = svc.Get(context.Background(), shared.GuestPrincipal(), 404)
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrNotFound)
}

func TestCreateAssignsAuthor(t *testing.T) {
	repo := newMockRepository()
	repo.courses[5] = true
	svc := NewService(repo)

	res, err := svc.Create(context.Background(), principalWith(t, 10, shared.RoleUser), CreateTopicInput{
		CourseID: 5,
		Title:    "Question",
		Body:     "How do channels work?",
	})
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.Equal(t, int64(10), res.Value().AuthorID)
	assert.False(t, res.Value().Pinned)
}

func TestCreateAgainstMissingCourse(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	res, err := svc.Create(context.Background(), principalWith(t, 10, shared.RoleUser), CreateTopicInput{
		CourseID: 404,
		Title:    "Question",
	})
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrNotFound)
	assert.Equal(t, "course 404 not found", res.Err().Error())
}

func TestUpdateAuthorGate(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	topic := seedTopic(t, repo, 5, 10)

	title := "Edited"
	res, err := svc.Update(context.Background(), principalWith(t, 11, shared.RoleUser), topic.ID, UpdateTopicInput{Title: &title})
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrForbidden)

	res, err = svc.Update(context.Background(), principalWith(t, 10, shared.RoleUser), topic.ID, UpdateTopicInput{Title: &title})
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.Equal(t, "Edited", res.Value().Title)

	res, err = svc.Update(context.Background(), principalWith(t, 99, shared.RoleAdmin), topic.ID, UpdateTopicInput{Title: &title})
	require.NoError(t, err)
	assert.True(t, res.IsRight())
}

func TestPin(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	topic := seedTopic(t, repo, 5, 10)

	res, err := svc.Pin(context.Background(), principalWith(t, 99, shared.RoleAdmin), topic.ID, true)
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.True(t, res.Value().Pinned)

	res, err = svc.Pin(context.Background(), principalWith(t, 99, shared.RoleAdmin), topic.ID, false)
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.False(t, res.Value().Pinned)
}

func TestDeleteAuthorGate(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	topic := seedTopic(t, repo, 5, 10)

	res, err := svc.Delete(context.Background(), principalWith(t, 11, shared.RoleUser), topic.ID)
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrForbidden)

	res, err = svc.Delete(context.Background(), principalWith(t, 10, shared.RoleUser), topic.ID)
	require.NoError(t, err)
	assert.True(t, res.IsRight())
	assert.Empty(t, repo.topics)
}
