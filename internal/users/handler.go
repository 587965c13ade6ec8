package users

import (
	"context"
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

// Handler manages user administration endpoints.
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

// MountRoutes registers the administration routes, each stacking the
// Admin/Super Admin allow-list with the matching "users" permission.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRole(shared.RoleAdmin, shared.RoleSuperAdmin))

		r.With(h.rbac.RequirePermission(shared.ResourceUsers, shared.ActionRead)).Get("/", h.listUsers)
		r.With(h.rbac.RequirePermission(shared.ResourceUsers, shared.ActionRead)).Get("/{userID}", h.getUser)
		r.With(h.rbac.RequirePermission(shared.ResourceUsers, shared.ActionCreate)).Post("/", h.createUser)
		r.With(h.rbac.RequirePermission(shared.ResourceUsers, shared.ActionUpdate)).Put("/{userID}", h.updateUser)
		r.With(h.rbac.RequirePermission(shared.ResourceUsers, shared.ActionUpdate)).Post("/{userID}/deactivate", h.deactivateUser)
		r.With(h.rbac.RequirePermission(shared.ResourceUsers, shared.ActionUpdate)).Post("/{userID}/activate", h.activateUser)
		r.With(h.rbac.RequirePermission(shared.ResourceUsers, shared.ActionUpdate)).Post("/{userID}/role", h.assignRole)
		r.With(h.rbac.RequirePermission(shared.ResourceUsers, shared.ActionDelete)).Delete("/{userID}", h.deleteUser)
	})
}

type createUserPayload struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	IsActive       bool   `json:"is_active"`
	IsAdmin        bool   `json:"is_admin"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
	RoleID         *int64 `json:"role_id"`
}

type updateUserPayload struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Password       *string `json:"password" validate:"omitempty,min=8"`
	IsActive       bool    `json:"is_active"`
	IsAdmin        bool    `json:"is_admin"`
	Bio            string  `json:"bio"`
	ProfilePicture string  `json:"profile_picture"`
	RoleID         *int64  `json:"role_id"`
}

type userResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	IsActive       bool      `json:"is_active"`
	IsAdmin        bool      `json:"is_admin"`
	Bio            string    `json:"bio,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	RoleID         *int64    `json:"role_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toUserResponse(user *User) userResponse {
	return userResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		IsActive:       user.IsActive,
		IsAdmin:        user.IsAdmin,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		RoleID:         user.RoleID,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	window := shared.RangeFromQuery(r.URL.Query())
	list, err := h.service.ListUsers(r.Context(), window)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]userResponse, len(list))
	for i := range list {
		out[i] = toUserResponse(&list[i])
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid user id")
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var payload createUserPayload
	if !h.decode(w, r, &payload) {
		return
	}
	user, err := h.service.CreateUser(r.Context(), CreateInput{
		Name:           payload.Name,
		Email:          payload.Email,
		Password:       payload.Password,
		IsActive:       payload.IsActive,
		IsAdmin:        payload.IsAdmin,
		Bio:            payload.Bio,
		ProfilePicture: payload.ProfilePicture,
		RoleID:         payload.RoleID,
	})
	if err != nil {
		h.logger.Error("create user", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid user id")
		return
	}
	var payload updateUserPayload
	if !h.decode(w, r, &payload) {
		return
	}
	user, err := h.service.UpdateUser(r.Context(), id, UpdateInput{
		Name:           payload.Name,
		Email:          payload.Email,
		Password:       payload.Password,
		IsActive:       payload.IsActive,
		IsAdmin:        payload.IsAdmin,
		Bio:            payload.Bio,
		ProfilePicture: payload.ProfilePicture,
		RoleID:         payload.RoleID,
	})
	if err != nil {
		h.logger.Error("update user", slog.Int64("user_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) deactivateUser(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *Handler) activateUser(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := pathID(r, "userID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid user id")
		return
	}
	var op func(context.Context, int64) error
	if active {
		op = h.service.Activate
	} else {
		op = h.service.Deactivate
	}
	if err := op(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assignRolePayload struct {
	RoleID *int64 `json:"role_id"`
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid user id")
		return
	}
	var payload assignRolePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return
	}
	if err := h.service.AssignRole(r.Context(), id, payload.RoleID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid user id")
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.RespondError(w, err)
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
