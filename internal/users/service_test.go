package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressdesk/pressdesk/internal/auth"
	"github.com/pressdesk/pressdesk/internal/shared"
)

type mockUserRepo struct {
	users  map[int64]*User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*User), nextID: 1}
}

func (m *mockUserRepo) ListUsers(ctx context.Context, window shared.ListRange) ([]User, error) {
	result := []User{}
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUserRepo) FindUser(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user User) (*User, error) {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return nil, shared.ErrDuplicate
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = &user
	copied := user
	return &copied, nil
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, user User) (*User, error) {
	if _, ok := m.users[user.ID]; !ok {
		return nil, shared.ErrNotFound
	}
	m.users[user.ID] = &user
	copied := user
	return &copied, nil
}

func (m *mockUserRepo) DeleteUser(ctx context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (m *mockUserRepo) AssignRole(ctx context.Context, id int64, roleID *int64) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.RoleID = roleID
	return nil
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	user, err := svc.CreateUser(context.Background(), CreateInput{
		Name:     "Edna Editor",
		Email:    "Edna@Pressdesk.Local",
		Password: "plain-text",
		IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "edna@pressdesk.local", user.Email)
	assert.NotEqual(t, "plain-text", user.PasswordHash)
	assert.True(t, auth.VerifyPassword("plain-text", user.PasswordHash))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	_, err := svc.CreateUser(context.Background(), CreateInput{Email: "dup@pressdesk.local", Password: "x"})
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), CreateInput{Email: "dup@pressdesk.local", Password: "y"})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateUserKeepsHashWithoutPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	created, err := svc.CreateUser(context.Background(), CreateInput{Email: "edna@pressdesk.local", Password: "original"})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(context.Background(), created.ID, UpdateInput{
		Name:  "Edna",
		Email: "edna@pressdesk.local",
	})
	require.NoError(t, err)
	assert.Equal(t, created.PasswordHash, updated.PasswordHash)
	assert.True(t, auth.VerifyPassword("original", updated.PasswordHash))
}

func TestUpdateUserRehashesNewPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	created, err := svc.CreateUser(context.Background(), CreateInput{Email: "edna@pressdesk.local", Password: "original"})
	require.NoError(t, err)

	next := "replacement"
	updated, err := svc.UpdateUser(context.Background(), created.ID, UpdateInput{
		Email:    "edna@pressdesk.local",
		Password: &next,
	})
	require.NoError(t, err)
	assert.NotEqual(t, created.PasswordHash, updated.PasswordHash)
	assert.True(t, auth.VerifyPassword("replacement", updated.PasswordHash))
	assert.False(t, auth.VerifyPassword("original", updated.PasswordHash))
}

func TestDeactivateAndActivate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	created, err := svc.CreateUser(context.Background(), CreateInput{Email: "edna@pressdesk.local", Password: "x", IsActive: true})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), created.ID))
	user, err := svc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	require.NoError(t, svc.Activate(context.Background(), created.ID))
	user, err = svc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, user.IsActive)
}

func TestAssignAndClearRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	created, err := svc.CreateUser(context.Background(), CreateInput{Email: "edna@pressdesk.local", Password: "x"})
	require.NoError(t, err)

	roleID := int64(7)
	require.NoError(t, svc.AssignRole(context.Background(), created.ID, &roleID))
	user, err := svc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, user.RoleID)
	assert.Equal(t, roleID, *user.RoleID)

	require.NoError(t, svc.AssignRole(context.Background(), created.ID, nil))
	user, err = svc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, user.RoleID)
}
