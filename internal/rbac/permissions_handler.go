package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pressdesk/pressdesk/internal/platform/httpx"
	"github.com/pressdesk/pressdesk/internal/shared"
)

// PermissionsHandler exposes the catalogue of resources and actions a role
// permission set can reference.
type PermissionsHandler struct {
	logger *slog.Logger
	rbac   Middleware
}

// NewPermissionsHandler builds a PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, rbac Middleware) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, rbac: rbac}
}

// MountRoutes registers permission catalogue routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRole(shared.RoleAdmin, shared.RoleSuperAdmin))
		r.Get("/", h.listPermissions)
	})
}

type permissionCatalogue struct {
	Resources []string `json:"resources"`
	Actions   []string `json:"actions"`
}

func (h *PermissionsHandler) listPermissions(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, permissionCatalogue{
		Resources: shared.ProtectedResources(),
		Actions:   []string{shared.ActionRead, shared.ActionCreate, shared.ActionUpdate, shared.ActionDelete},
	})
}
