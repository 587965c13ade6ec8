package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/pressdesk/pressdesk/internal/platform/httpx"
)

// Middleware authenticates bearer tokens for protected routes.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// Authenticate verifies the Authorization header, loads the active user, and
// stores user and raw token in the request context. Requests without a valid
// token are rejected before the handler runs.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		user, err := m.Service.Authenticate(r.Context(), raw)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Debug("authenticate request", slog.String("path", r.URL.Path), slog.Any("error", err))
			}
			httpx.RespondError(w, err)
			return
		}
		ctx := ContextWithUser(r.Context(), user)
		ctx = ContextWithToken(ctx, raw)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
