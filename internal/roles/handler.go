package roles

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pressdesk/pressdesk/internal/platform/httpx"
	"github.com/pressdesk/pressdesk/internal/rbac"
	"github.com/pressdesk/pressdesk/internal/shared"
)

// Handler manages role administration endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, validator: validator.New()}
}

// MountRoutes registers role routes. Every route is double-gated: the
// Admin/Super Admin allow-list plus the matching "roles" permission.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRole(shared.RoleAdmin, shared.RoleSuperAdmin))

		r.With(h.rbac.RequirePermission(shared.ResourceRoles, shared.ActionRead)).Get("/", h.listRoles)
		r.With(h.rbac.RequirePermission(shared.ResourceRoles, shared.ActionRead)).Get("/{roleID}", h.getRole)
		r.With(h.rbac.RequirePermission(shared.ResourceRoles, shared.ActionCreate)).Post("/", h.createRole)
		r.With(h.rbac.RequirePermission(shared.ResourceRoles, shared.ActionUpdate)).Put("/{roleID}", h.updateRole)
		r.With(h.rbac.RequirePermission(shared.ResourceRoles, shared.ActionDelete)).Delete("/{roleID}", h.deleteRole)
	})
}

type rolePayload struct {
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description"`
	Permissions map[string][]string `json:"permissions"`
	ParentID    *int64              `json:"parent_id"`
}

type roleResponse struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Permissions map[string][]string `json:"permissions"`
	ParentID    *int64              `json:"parent_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func toRoleResponse(role *Role) roleResponse {
	return roleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions,
		ParentID:    role.ParentID,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	window := shared.RangeFromQuery(r.URL.Query())
	roles, err := h.service.ListRoles(r.Context(), window)
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]roleResponse, len(roles))
	for i := range roles {
		out[i] = toRoleResponse(&roles[i])
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "roleID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid role id")
		return
	}
	role, err := h.service.GetRole(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRoleResponse(role))
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	role, err := h.service.CreateRole(r.Context(), RoleInput{
		Name:        payload.Name,
		Description: payload.Description,
		Permissions: payload.Permissions,
		ParentID:    payload.ParentID,
	})
	if err != nil {
		h.logger.Error("create role", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toRoleResponse(role))
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "roleID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid role id")
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	role, err := h.service.UpdateRole(r.Context(), id, RoleInput{
		Name:        payload.Name,
		Description: payload.Description,
		Permissions: payload.Permissions,
		ParentID:    payload.ParentID,
	})
	if err != nil {
		h.logger.Error("update role", slog.Int64("role_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRoleResponse(role))
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "roleID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid role id")
		return
	}
	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		h.logger.Error("delete role", slog.Int64("role_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request) (rolePayload, bool) {
	var payload rolePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return payload, false
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.RespondError(w, err)
		return payload, false
	}
	return payload, true
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
