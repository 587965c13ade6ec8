package resources

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pressdesk/pressdesk/internal/auth"
	"github.com/pressdesk/pressdesk/internal/platform/httpx"
	"github.com/pressdesk/pressdesk/internal/rbac"
	"github.com/pressdesk/pressdesk/internal/shared"
)

// Handler serves the generic CRUD surface for every registered kind. One
// route tree per kind so the permission middleware checks the kind as the
// resource name.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers one guarded route tree per registered kind.
func (h *Handler) MountRoutes(r chi.Router) {
	for _, kind := range Kinds() {
		kind := kind
		r.Route("/"+kind, func(r chi.Router) {
			r.With(h.rbac.RequirePermission(kind, shared.ActionRead)).Get("/", h.list(kind))
			r.With(h.rbac.RequirePermission(kind, shared.ActionRead)).Get("/{resourceID}", h.get(kind))
			r.With(h.rbac.RequirePermission(kind, shared.ActionCreate)).Post("/", h.create(kind))
			r.With(h.rbac.RequirePermission(kind, shared.ActionUpdate)).Put("/{resourceID}", h.update(kind))
			r.With(h.rbac.RequirePermission(kind, shared.ActionDelete)).Delete("/{resourceID}", h.remove(kind))
		})
	}
}

type resourceResponse struct {
	ID        int64           `json:"id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedBy *int64          `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toResourceResponse(res *Resource) resourceResponse {
	return resourceResponse{
		ID:        res.ID,
		Kind:      res.Kind,
		Payload:   res.Payload,
		CreatedBy: res.CreatedBy,
		CreatedAt: res.CreatedAt,
		UpdatedAt: res.UpdatedAt,
	}
}

func (h *Handler) list(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window := shared.RangeFromQuery(r.URL.Query())
		items, err := h.service.List(r.Context(), kind, window)
		if err != nil {
			h.logger.Error("list resources", slog.String("kind", kind), slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		out := make([]resourceResponse, len(items))
		for i := range items {
			out[i] = toResourceResponse(&items[i])
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func (h *Handler) get(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := resourceID(r)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid resource id")
			return
		}
		res, err := h.service.Get(r.Context(), kind, id)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toResourceResponse(res))
	}
}

func (h *Handler) create(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := decodePayload(w, r)
		if !ok {
			return
		}
		var createdBy *int64
		if user := auth.UserFromContext(r.Context()); user != nil {
			createdBy = &user.ID
		}
		res, err := h.service.Create(r.Context(), kind, payload, createdBy)
		if err != nil {
			h.logger.Error("create resource", slog.String("kind", kind), slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, toResourceResponse(res))
	}
}

func (h *Handler) update(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := resourceID(r)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid resource id")
			return
		}
		payload, ok := decodePayload(w, r)
		if !ok {
			return
		}
		res, err := h.service.Update(r.Context(), kind, id, payload)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toResourceResponse(res))
	}
}

func (h *Handler) remove(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := resourceID(r)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid resource id")
			return
		}
		if err := h.service.Delete(r.Context(), kind, id); err != nil {
			httpx.RespondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodePayload(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	var payload json.RawMessage
	if err := httpx.DecodeJSON(r, &payload); err != nil || len(payload) == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return nil, false
	}
	return payload, true
}

func resourceID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "resourceID"), 10, 64)
}
