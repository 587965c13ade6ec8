package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pressdesk/pressdesk/internal/auth"
	_ "github.com/pressdesk/pressdesk/internal/testing/guard"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveAs(t *testing.T, mw func(http.Handler) http.Handler, user *auth.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/content", nil)
	if user != nil {
		req = req.WithContext(auth.ContextWithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)
	return rec
}

func TestRequirePermissionAllows(t *testing.T) {
	mw := Middleware{Guard: NewGuard(editorDirectory(), nil)}

	rec := serveAs(t, mw.RequirePermission("content", "read"), userWithRole(1))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermissionDenies(t *testing.T) {
	mw := Middleware{Guard: NewGuard(editorDirectory(), nil)}

	rec := serveAs(t, mw.RequirePermission("content", "delete"), userWithRole(1))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermissionNoUser(t *testing.T) {
	mw := Middleware{Guard: NewGuard(editorDirectory(), nil)}

	rec := serveAs(t, mw.RequirePermission("content", "read"), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestRequireRoleAllows(t *testing.T) {
	mw := Middleware{Guard: NewGuard(editorDirectory(), nil)}

	rec := serveAs(t, mw.RequireRole("Admin", "Super Admin"), userWithRole(2))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleDenies(t *testing.T) {
	mw := Middleware{Guard: NewGuard(editorDirectory(), nil)}

	rec := serveAs(t, mw.RequireRole("Admin", "Super Admin"), userWithRole(1))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
