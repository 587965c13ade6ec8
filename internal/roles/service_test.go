package roles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressdesk/pressdesk/internal/shared"
)

type mockRoleRepo struct {
	roles      map[int64]*Role
	nextID     int64
	userCounts map[int64]int64
}

func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{
		roles:      make(map[int64]*Role),
		nextID:     1,
		userCounts: make(map[int64]int64),
	}
}

func (m *mockRoleRepo) FindRole(ctx context.Context, id int64) (*Role, error) {
	role, ok := m.roles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *role
	return &copied, nil
}

func (m *mockRoleRepo) FindRoleByName(ctx context.Context, name string) (*Role, error) {
	for _, role := range m.roles {
		if role.Name == name {
			copied := *role
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRoleRepo) ListRoles(ctx context.Context, window shared.ListRange) ([]Role, error) {
	result := []Role{}
	for _, role := range m.roles {
		result = append(result, *role)
	}
	return result, nil
}

func (m *mockRoleRepo) ListChildren(ctx context.Context, id int64) ([]Role, error) {
	result := []Role{}
	for _, role := range m.roles {
		if role.ParentID != nil && *role.ParentID == id {
			result = append(result, *role)
		}
	}
	return result, nil
}

func (m *mockRoleRepo) CreateRole(ctx context.Context, role Role) (*Role, error) {
	for _, existing := range m.roles {
		if existing.Name == role.Name {
			return nil, shared.ErrDuplicate
		}
	}
	role.ID = m.nextID
	m.nextID++
	role.CreatedAt = time.Now()
	role.UpdatedAt = role.CreatedAt
	m.roles[role.ID] = &role
	copied := role
	return &copied, nil
}

func (m *mockRoleRepo) UpdateRole(ctx context.Context, role Role) (*Role, error) {
	existing, ok := m.roles[role.ID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	role.CreatedAt = existing.CreatedAt
	role.UpdatedAt = time.Now()
	m.roles[role.ID] = &role
	copied := role
	return &copied, nil
}

func (m *mockRoleRepo) DeleteRole(ctx context.Context, id int64) error {
	if _, ok := m.roles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.roles, id)
	return nil
}

func (m *mockRoleRepo) CountUsersWithRole(ctx context.Context, id int64) (int64, error) {
	return m.userCounts[id], nil
}

func (m *mockRoleRepo) CountChildren(ctx context.Context, id int64) (int64, error) {
	var count int64
	for _, role := range m.roles {
		if role.ParentID != nil && *role.ParentID == id {
			count++
		}
	}
	return count, nil
}

func (m *mockRoleRepo) seed(t *testing.T, name string, perms PermissionSet, parentID *int64) *Role {
	t.Helper()
	role, err := m.CreateRole(context.Background(), Role{Name: name, Permissions: perms, ParentID: parentID})
	require.NoError(t, err)
	return role
}

func TestPermissionsDirectOnly(t *testing.T) {
	repo := newMockRoleRepo()
	parent := repo.seed(t, "Admin", PermissionSet{"users": {"read", "create"}}, nil)
	child := repo.seed(t, "Editor", PermissionSet{"content": {"read", "update"}}, &parent.ID)

	svc := NewService(repo)

	perms, err := svc.PermissionsFor(context.Background(), child)
	require.NoError(t, err)
	assert.True(t, perms.Allows("content", "read"))
	assert.False(t, perms.Allows("users", "read"))
}

func TestPermissionsInherited(t *testing.T) {
	repo := newMockRoleRepo()
	root := repo.seed(t, "Admin", PermissionSet{"users": {"read"}}, nil)
	mid := repo.seed(t, "Editor", PermissionSet{"content": {"read", "update"}}, &root.ID)
	leaf := repo.seed(t, "Contributor", PermissionSet{"posts": {"create"}}, &mid.ID)

	svc := NewService(repo, WithInheritedPermissions())

	perms, err := svc.PermissionsFor(context.Background(), leaf)
	require.NoError(t, err)
	assert.True(t, perms.Allows("posts", "create"))
	assert.True(t, perms.Allows("content", "update"))
	assert.True(t, perms.Allows("users", "read"))
	assert.False(t, perms.Allows("users", "delete"))
}

func TestAllowedUnknownRoleDenies(t *testing.T) {
	svc := NewService(newMockRoleRepo())

	allowed, err := svc.Allowed(context.Background(), 42, "content", "read")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestAllowedChecksCurrentPermissions(t *testing.T) {
	repo := newMockRoleRepo()
	role := repo.seed(t, "Editor", PermissionSet{"content": {"read", "update"}}, nil)
	svc := NewService(repo)

	allowed, err := svc.Allowed(context.Background(), role.ID, "content", "update")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = svc.Allowed(context.Background(), role.ID, "content", "delete")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Revoking the permission takes effect on the next check.
	repo.roles[role.ID].Permissions = PermissionSet{"content": {"read"}}
	allowed, err = svc.Allowed(context.Background(), role.ID, "content", "update")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestCreateRoleRejectsUnknownParent(t *testing.T) {
	svc := NewService(newMockRoleRepo())

	missing := int64(99)
	_, err := svc.CreateRole(context.Background(), RoleInput{Name: "Orphan", ParentID: &missing})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateRoleRejectsSelfParent(t *testing.T) {
	repo := newMockRoleRepo()
	role := repo.seed(t, "Editor", PermissionSet{}, nil)
	svc := NewService(repo)

	_, err := svc.UpdateRole(context.Background(), role.ID, RoleInput{Name: "Editor", ParentID: &role.ID})
	assert.ErrorIs(t, err, shared.ErrInvalidRoleHierarchy)
}

func TestUpdateRoleRejectsCycle(t *testing.T) {
	repo := newMockRoleRepo()
	a := repo.seed(t, "A", PermissionSet{}, nil)
	b := repo.seed(t, "B", PermissionSet{}, &a.ID)
	c := repo.seed(t, "C", PermissionSet{}, &b.ID)

	svc := NewService(repo)

	// Re-parenting A under C would close the loop A -> B -> C -> A.
	_, err := svc.UpdateRole(context.Background(), a.ID, RoleInput{Name: "A", ParentID: &c.ID})
	assert.ErrorIs(t, err, shared.ErrInvalidRoleHierarchy)
}

func TestDeleteRoleWithUsers(t *testing.T) {
	repo := newMockRoleRepo()
	role := repo.seed(t, "Editor", PermissionSet{}, nil)
	repo.userCounts[role.ID] = 3

	svc := NewService(repo)

	err := svc.DeleteRole(context.Background(), role.ID)
	assert.ErrorIs(t, err, shared.ErrRoleInUse)
}

func TestDeleteRoleWithChildren(t *testing.T) {
	repo := newMockRoleRepo()
	parent := repo.seed(t, "Admin", PermissionSet{}, nil)
	repo.seed(t, "Editor", PermissionSet{}, &parent.ID)

	svc := NewService(repo)

	err := svc.DeleteRole(context.Background(), parent.ID)
	assert.ErrorIs(t, err, shared.ErrRoleInUse)
}

func TestDeleteUnreferencedRole(t *testing.T) {
	repo := newMockRoleRepo()
	role := repo.seed(t, "Viewer", PermissionSet{}, nil)

	svc := NewService(repo)

	require.NoError(t, svc.DeleteRole(context.Background(), role.ID))
	_, err := repo.FindRole(context.Background(), role.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInheritanceHandlesCorruptCycle(t *testing.T) {
	// A cycle that slipped into storage must not hang resolution.
	repo := newMockRoleRepo()
	a := repo.seed(t, "A", PermissionSet{"content": {"read"}}, nil)
	b := repo.seed(t, "B", PermissionSet{"posts": {"read"}}, &a.ID)
	repo.roles[a.ID].ParentID = &b.ID

	svc := NewService(repo, WithInheritedPermissions())

	role, err := repo.FindRole(context.Background(), b.ID)
	require.NoError(t, err)
	perms, err := svc.PermissionsFor(context.Background(), role)
	require.NoError(t, err)
	assert.True(t, perms.Allows("content", "read"))
	assert.True(t, perms.Allows("posts", "read"))
}
