package roles

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/pressdesk/pressdesk/internal/shared"
)

// Service owns role lifecycle and permission resolution for the hierarchy.
type Service struct {
	repo    RepositoryPort
	inherit bool
	lookups singleflight.Group
}

// Option customizes a Service.
type Option func(*Service)

// WithInheritedPermissions switches permission resolution from direct-only to
// the union of a role's own set and all of its ancestors' sets.
func WithInheritedPermissions() Option {
	return func(s *Service) { s.inherit = true }
}

// NewService builds a Service instance. Resolution is direct-only unless
// WithInheritedPermissions is given.
func NewService(repo RepositoryPort, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetRole fetches a role by ID.
func (s *Service) GetRole(ctx context.Context, id int64) (*Role, error) {
	return s.repo.FindRole(ctx, id)
}

// GetRoleByName fetches a role by its unique name.
func (s *Service) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	return s.repo.FindRoleByName(ctx, name)
}

// ListRoles returns roles within the pagination window.
func (s *Service) ListRoles(ctx context.Context, window shared.ListRange) ([]Role, error) {
	return s.repo.ListRoles(ctx, window)
}

// ListChildren returns the direct children of a role.
func (s *Service) ListChildren(ctx context.Context, id int64) ([]Role, error) {
	return s.repo.ListChildren(ctx, id)
}

// PermissionsFor resolves the effective permission set of a role. All
// callers go through here so the resolution policy lives in one place.
func (s *Service) PermissionsFor(ctx context.Context, role *Role) (PermissionSet, error) {
	if role == nil {
		return PermissionSet{}, nil
	}
	if !s.inherit {
		if role.Permissions == nil {
			return PermissionSet{}, nil
		}
		return role.Permissions, nil
	}

	effective := PermissionSet{}.Union(role.Permissions)
	seen := map[int64]struct{}{role.ID: {}}
	parentID := role.ParentID
	for parentID != nil {
		if _, ok := seen[*parentID]; ok {
			break
		}
		parent, err := s.repo.FindRole(ctx, *parentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				break
			}
			return nil, err
		}
		effective = effective.Union(parent.Permissions)
		seen[parent.ID] = struct{}{}
		parentID = parent.ParentID
	}
	return effective, nil
}

// HasPermission reports whether the role grants action on resource. A nil
// role or absent resource key denies rather than erroring.
func (s *Service) HasPermission(ctx context.Context, role *Role, resource, action string) (bool, error) {
	if role == nil {
		return false, nil
	}
	perms, err := s.PermissionsFor(ctx, role)
	if err != nil {
		return false, err
	}
	return perms.Allows(resource, action), nil
}

// Allowed re-fetches the role and checks the permission. The access guard
// calls this per request so role edits take effect immediately.
func (s *Service) Allowed(ctx context.Context, roleID int64, resource, action string) (bool, error) {
	role, err := s.fetchRole(ctx, roleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.HasPermission(ctx, role, resource, action)
}

// RoleName re-fetches the role and returns its name. An unknown role
// resolves to the empty name.
func (s *Service) RoleName(ctx context.Context, roleID int64) (string, error) {
	role, err := s.fetchRole(ctx, roleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return role.Name, nil
}

// fetchRole collapses concurrent lookups of the same role into a single
// repository query. Guard checks run on every request, so bursts against one
// role would otherwise fan out into identical queries.
func (s *Service) fetchRole(ctx context.Context, roleID int64) (*Role, error) {
	resultChan := s.lookups.DoChan(strconv.FormatInt(roleID, 10), func() (interface{}, error) {
		return s.repo.FindRole(context.WithoutCancel(ctx), roleID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Role), nil
	}
}

// RoleInput carries the writable fields of a role.
type RoleInput struct {
	Name        string
	Description string
	Permissions PermissionSet
	ParentID    *int64
}

// CreateRole inserts a new role after validating its parent reference.
func (s *Service) CreateRole(ctx context.Context, input RoleInput) (*Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("roles: name required")
	}
	if err := s.ensureValidParent(ctx, 0, input.ParentID); err != nil {
		return nil, err
	}
	return s.repo.CreateRole(ctx, Role{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Permissions: input.Permissions,
		ParentID:    input.ParentID,
	})
}

// UpdateRole updates an existing role. Re-parenting walks the proposed
// ancestor chain before commit and rejects any cycle.
func (s *Service) UpdateRole(ctx context.Context, id int64, input RoleInput) (*Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("roles: name required")
	}
	if _, err := s.repo.FindRole(ctx, id); err != nil {
		return nil, err
	}
	if err := s.ensureValidParent(ctx, id, input.ParentID); err != nil {
		return nil, err
	}
	return s.repo.UpdateRole(ctx, Role{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Permissions: input.Permissions,
		ParentID:    input.ParentID,
	})
}

// DeleteRole removes a role unless users or child roles still depend on it.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	users, err := s.repo.CountUsersWithRole(ctx, id)
	if err != nil {
		return err
	}
	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if users > 0 || children > 0 {
		return shared.ErrRoleInUse
	}
	return s.repo.DeleteRole(ctx, id)
}

// ensureValidParent verifies the parent exists and that adopting it would not
// make the role its own ancestor. roleID 0 means the role is being created
// and cannot appear in any existing chain.
func (s *Service) ensureValidParent(ctx context.Context, roleID int64, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	if roleID != 0 && *parentID == roleID {
		return shared.ErrInvalidRoleHierarchy
	}
	seen := make(map[int64]struct{})
	current := parentID
	for current != nil {
		if roleID != 0 && *current == roleID {
			return shared.ErrInvalidRoleHierarchy
		}
		if _, ok := seen[*current]; ok {
			return shared.ErrInvalidRoleHierarchy
		}
		seen[*current] = struct{}{}
		ancestor, err := s.repo.FindRole(ctx, *current)
		if err != nil {
			return err
		}
		current = ancestor.ParentID
	}
	return nil
}
