package users

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
	users  map[int64]*User
	emails map[string]int64
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:  make(map[int64]*User),
		emails: make(map[string]int64),
		nextID: 1,
	}
}

func (m *mockRepository) ListPage(ctx context.Context, req shared.PageRequest) ([]User, error) {
	ids := make([]int64, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if req.Backward() {
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}
	}
	bound, hasBound := req.Boundary()
	var out []User
	for _, id := range ids {
		if hasBound {
			if req.Backward() && id >= bound {
				continue
			}
			if !req.Backward() && id <= bound {
				continue
			}
		}
		out = append(out, *m.users[id])
		if len(out) == req.FetchLimit() {
			break
		}
	}
	return out, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockRepository) Create(ctx context.Context, in CreateUserInput, passwordHash string) (*User, error) {
	if _, exists := m.emails[in.Email]; exists {
		return nil, shared.ErrConflict
	}
	u := &User{
		ID:        m.nextID,
		Email:     in.Email,
		Name:      in.Name,
		Roles:     in.Roles,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.users[u.ID] = u
	m.emails[u.Email] = u.ID
	m.nextID++
	copied := *u
	return &copied, nil
}

func (m *mockRepository) Update(ctx context.Context, user *User) (*User, error) {
	if _, ok := m.users[user.ID]; !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	copied.UpdatedAt = time.Now()
	m.users[user.ID] = &copied
	out := copied
	return &out, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(m.emails, u.Email)
	delete(m.users, id)
	return nil
}

func adminPrincipal(t *testing.T) shared.Principal {
	t.Helper()
	p, err := shared.NewPrincipal(99, []shared.Role{shared.RoleAdmin})
	require.NoError(t, err)
	return p
}

func userPrincipal(t *testing.T, id int64) shared.Principal {
	t.Helper()
	p, err := shared.NewPrincipal(id, []shared.Role{shared.RoleUser})
	require.NoError(t, err)
	return p
}

func seedAccounts(t *testing.T, repo *mockRepository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := repo.Create(context.Background(), CreateUserInput{
			Email: string(rune('a'+i)) + "@example.com",
			Name:  "Account",
			Roles: []shared.Role{shared.RoleUser},
		}, "hash")
		require.NoError(t, err)
	}
}

func TestListPaginates(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	seedAccounts(t, repo, 5)

	req, rerr := shared.NewPageRequest(2, "", "")
	require.Nil(t, rerr)
	res, err := svc.List(context.Background(), adminPrincipal(t), req)
	require.NoError(t, err)
	require.True(t, res.IsRight())

	page := res.Value()
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(1), page.Items[0].ID)
	assert.Equal(t, int64(2), page.Items[1].ID)
	require.NotNil(t, page.Cursors.After)
	assert.Nil(t, page.Cursors.Before)

	req, rerr = shared.NewPageRequest(2, *page.Cursors.After, "")
	require.Nil(t, rerr)
	res, err = svc.List(context.Background(), adminPrincipal(t), req)
	require.NoError(t, err)
	page = res.Value()
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Items[0].ID)
	assert.Equal(t, int64(4), page.Items[1].ID)
}

func TestGetOwnAccount(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	seedAccounts(t, repo, 1)

	res, err := svc.Get(context.Background(), userPrincipal(t, 1), 1)
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.Equal(t, int64(1), res.Value().ID)
}

func TestGetOtherAccountForbidden(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	seedAccounts(t, repo, 2)

	res, err := svc.Get(context.Background(), userPrincipal(t, 1), 2)
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrForbidden)

	// An admin is not subject to the ownership gate.
	res, err = svc.Get(context.Background(), adminPrincipal(t), 2)
	require.NoError(t, err)
	assert.True(t, res.IsRight())
}

func TestGetMissingAccount(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	res, err := svc.Get(context.Background(), adminPrincipal(t), 404)
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrNotFound)
}

func TestCreateDefaultsRoles(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	res, err := svc.Create(context.Background(), adminPrincipal(t), CreateUserInput{
		Email:    "new@example.com",
		Name:     "New",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.Equal(t, []shared.Role{shared.RoleUser}, res.Value().Roles)
}

func TestCreateRejectsGuestRole(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	res, err := svc.Create(context.Background(), adminPrincipal(t), CreateUserInput{
		Email:    "new@example.com",
		Name:     "New",
		Password: "secret123",
		Roles:    []shared.Role{shared.RoleGuest},
	})
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrBadRequest)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	in := CreateUserInput{Email: "dup@example.com", Name: "Dup", Password: "secret123"}
	res, err := svc.Create(context.Background(), adminPrincipal(t), in)
	require.NoError(t, err)
	require.True(t, res.IsRight())

	res, err = svc.Create(context.Background(), adminPrincipal(t), in)
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrConflict)
	assert.Equal(t, "email dup@example.com already registered", res.Err().Error())
}

func TestUpdateOwnName(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	seedAccounts(t, repo, 1)

	name := "Renamed"
	res, err := svc.Update(context.Background(), userPrincipal(t, 1), 1, UpdateUserInput{Name: &name})
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.Equal(t, "Renamed", res.Value().Name)
}

func TestUpdateRolesRequiresAdmin(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	seedAccounts(t, repo, 1)

	res, err := svc.Update(context.Background(), userPrincipal(t, 1), 1, UpdateUserInput{
		Roles: []shared.Role{shared.RoleAdmin},
	})
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrForbidden)

	res, err = svc.Update(context.Background(), adminPrincipal(t), 1, UpdateUserInput{
		Roles: []shared.Role{shared.RoleAuthor},
	})
	require.NoError(t, err)
	require.True(t, res.IsRight())
	assert.Equal(t, []shared.Role{shared.RoleAuthor}, res.Value().Roles)
}

func TestUpdateRejectsEmptyRoles(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	seedAccounts(t, repo, 1)

	res, err := svc.Update(context.Background(), adminPrincipal(t), 1, UpdateUserInput{
		Roles: []shared.Role{},
	})
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrBadRequest)
}

func TestUpdateOtherAccountForbidden(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	seedAccounts(t, repo, 2)

	name := "Hijack"
	res, err := svc.Update(context.Background(), userPrincipal(t, 1), 2, UpdateUserInput{Name: &name})
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrForbidden)
}

func TestDelete(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	seedAccounts(t, repo, 1)

	res, err := svc.Delete(context.Background(), adminPrincipal(t), 1)
	require.NoError(t, err)
	assert.True(t, res.IsRight())

	res, err = svc.Delete(context.Background(), adminPrincipal(t), 1)
	require.NoError(t, err)
	require.True(t, res.IsLeft())
	assert.ErrorIs(t, res.Err(), shared.ErrNotFound)
}
