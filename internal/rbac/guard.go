// Package rbac turns (user, resource, action) into an allow/deny decision.
package rbac

import (
	"context"

	"github.com/pressdesk/pressdesk/internal/auth"
	"github.com/pressdesk/pressdesk/internal/observability"
	"github.com/pressdesk/pressdesk/internal/shared"
)

// RoleDirectory resolves a role reference per request. Implementations must
// hit current storage rather than a cache so permission edits take effect on
// the next request.
type RoleDirectory interface {
	Allowed(ctx context.Context, roleID int64, resource, action string) (bool, error)
	RoleName(ctx context.Context, roleID int64) (string, error)
}

// Guard is the authorization pre-check every protected operation calls first.
type Guard struct {
	roles   RoleDirectory
	metrics *observability.Metrics
}

// NewGuard constructs a Guard. metrics may be nil.
func NewGuard(roles RoleDirectory, metrics *observability.Metrics) *Guard {
	return &Guard{roles: roles, metrics: metrics}
}

// Authorize fails with shared.ErrForbidden unless the user's current role
// grants action on resource. A user with no role is always denied.
func (g *Guard) Authorize(ctx context.Context, user *auth.User, resource, action string) error {
	if user == nil || user.RoleID == nil {
		g.record(resource, action, false)
		return shared.ErrForbidden
	}
	ok, err := g.roles.Allowed(ctx, *user.RoleID, resource, action)
	if err != nil {
		return err
	}
	g.record(resource, action, ok)
	if !ok {
		return shared.ErrForbidden
	}
	return nil
}

// AuthorizeRole is the coarse-grained allow-list check: it fails with
// shared.ErrForbidden unless the user's current role name is one of allowed.
// It is orthogonal to Authorize; routes may stack both.
func (g *Guard) AuthorizeRole(ctx context.Context, user *auth.User, allowed ...string) error {
	if user == nil || user.RoleID == nil {
		return shared.ErrForbidden
	}
	name, err := g.roles.RoleName(ctx, *user.RoleID)
	if err != nil {
		return err
	}
	if name == "" {
		return shared.ErrForbidden
	}
	for _, candidate := range allowed {
		if candidate == name {
			return nil
		}
	}
	return shared.ErrForbidden
}

func (g *Guard) record(resource, action string, allowed bool) {
	if g.metrics != nil {
		g.metrics.ObserveAuthzDecision(resource, action, allowed)
	}
}
