package rbac

import (
	"log/slog"
	"net/http"

	"github.com/pressdesk/pressdesk/internal/auth"
	"github.com/pressdesk/pressdesk/internal/platform/httpx"
	"github.com/pressdesk/pressdesk/internal/shared"
)

// Middleware wires authorization helpers for HTTP handlers. It expects the
// authentication middleware to have stored the user in the request context.
type Middleware struct {
	Guard  *Guard
	Logger *slog.Logger
}

// RequirePermission ensures the current user's role grants action on resource.
func (m Middleware) RequirePermission(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.UserFromContext(r.Context())
			if user == nil {
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			if err := m.Guard.Authorize(r.Context(), user, resource, action); err != nil {
				m.log("require permission", r, err)
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole ensures the current user's role name is one of allowed.
func (m Middleware) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.UserFromContext(r.Context())
			if user == nil {
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			if err := m.Guard.AuthorizeRole(r.Context(), user, allowed...); err != nil {
				m.log("require role", r, err)
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) log(check string, r *http.Request, err error) {
	if m.Logger == nil {
		return
	}
	m.Logger.Info("authorization denied",
		slog.String("check", check),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
}
