package shared

// Protected resource names. Role permission sets key on these.
const (
	ResourceUsers         = "users"
	ResourceRoles         = "roles"
	ResourceContent       = "content"
	ResourceCategories    = "categories"
	ResourceTags          = "tags"
	ResourcePosts         = "posts"
	ResourceComments      = "comments"
	ResourceMetadata      = "metadata"
	ResourceNotifications = "notifications"
)

// Actions a permission set can grant on a resource.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Privileged role names used by coarse allow-list checks.
const (
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "Super Admin"
)

// ProtectedResources lists every resource name the access guard recognizes.
func ProtectedResources() []string {
	return []string{
		ResourceUsers,
		ResourceRoles,
		ResourceContent,
		ResourceCategories,
		ResourceTags,
		ResourcePosts,
		ResourceComments,
		ResourceMetadata,
		ResourceNotifications,
	}
}
