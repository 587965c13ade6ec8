package roles

import "time"

// PermissionSet maps a resource name to the set of actions a role may take
// on it, e.g. {"content": ["read", "update"]}.
type PermissionSet map[string][]string

// Allows reports whether the set grants action on resource. Absent resource
// keys simply deny.
func (p PermissionSet) Allows(resource, action string) bool {
	for _, a := range p[resource] {
		if a == action {
			return true
		}
	}
	return false
}

// Union merges another set into a copy of this one, deduplicating actions.
func (p PermissionSet) Union(other PermissionSet) PermissionSet {
	merged := make(PermissionSet, len(p)+len(other))
	for resource, actions := range p {
		merged[resource] = append([]string(nil), actions...)
	}
	for resource, actions := range other {
		for _, a := range actions {
			if !merged.Allows(resource, a) {
				merged[resource] = append(merged[resource], a)
			}
		}
	}
	return merged
}

// Role is a named permission bundle. Roles form a forest through the
// optional parent reference; a role with no parent is a root.
type Role struct {
	ID          int64
	Name        string
	Description string
	Permissions PermissionSet
	ParentID    *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
