package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/pressdesk/pressdesk/internal/testing/guard"
)

func newTestRouter(t *testing.T, repo Repository) chi.Router {
	t.Helper()
	svc := newTestService(repo)
	mw := Middleware{Service: svc}
	handler := NewHandler(discardLogger(), svc, mw)
	r := chi.NewRouter()
	r.Route("/auth", handler.MountRoutes)
	return r
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTokenEndpoint(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(t, "editor@pressdesk.local", "correct-horse", true)
	router := newTestRouter(t, repo)

	body := `{"email":"editor@pressdesk.local","password":"correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestTokenEndpointBadCredentials(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(t, "editor@pressdesk.local", "correct-horse", true)
	router := newTestRouter(t, repo)

	body := `{"email":"editor@pressdesk.local","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenEndpointValidation(t *testing.T) {
	router := newTestRouter(t, newMockUserRepo())

	body := `{"email":"not-an-email","password":""}`
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutRequiresToken(t *testing.T) {
	router := newTestRouter(t, newMockUserRepo())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestLogoutWithValidToken(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(t, "editor@pressdesk.local", "correct-horse", true)
	router := newTestRouter(t, repo)

	body := `{"email":"editor@pressdesk.local","password":"correct-horse"}`
	loginReq := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body))
	loginReq.Header.Set("Content-Type", "application/json")
	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, loginReq)
	require.Equal(t, http.StatusOK, loginRec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(loginRec.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
