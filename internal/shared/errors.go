package shared

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidCredentials indicates a login failure. Wrong email and wrong
	// password are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated covers missing, malformed, expired, revoked or
	// otherwise unverifiable tokens, and tokens whose subject no longer exists.
	ErrUnauthenticated = errors.New("could not validate credentials")
	// ErrInactiveAccount indicates a valid identity whose account is deactivated.
	ErrInactiveAccount = errors.New("inactive user")
	// ErrForbidden indicates a valid, active identity with insufficient
	// role or permissions.
	ErrForbidden = errors.New("not enough permissions")
	// ErrInvalidRoleHierarchy indicates a role-parent assignment that would
	// introduce a cycle.
	ErrInvalidRoleHierarchy = errors.New("role cannot be its own ancestor")
	// ErrRoleInUse indicates a role that still has assigned users or child roles.
	ErrRoleInUse = errors.New("role has dependent users or child roles")
)
