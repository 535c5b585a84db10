package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirely-app/hirely-api/internal/auth"
	"github.com/hirely-app/hirely-api/internal/config"
	"github.com/hirely-app/hirely-api/internal/logging"
	"github.com/hirely-app/hirely-api/internal/matching"
	"github.com/hirely-app/hirely-api/internal/skill"
	"github.com/hirely-app/hirely-api/internal/user"
)

type rejectAll struct{}

func (rejectAll) ResolveCurrentUser(context.Context, string) (*user.User, error) {
	return nil, auth.ErrInvalidToken
}

func newTestRouter(t *testing.T, uploadsDir string) http.Handler {
	t.Helper()

	cfg := &config.Config{Server: config.ServerConfig{Env: "prod"}}
	handlers := Handlers{
		Auth:     auth.NewHandler(nil, nil, nil),
		User:     user.NewHandler(nil, nil),
		Skill:    skill.NewHandler(nil, nil),
		Matching: matching.NewHandler(nil),
	}
	return NewRouter(cfg, handlers, auth.NewMiddleware(rejectAll{}), uploadsDir, logging.Discard())
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t, "")

	routes := []struct{ method, path string }{
		{http.MethodGet, "/user/data"},
		{http.MethodPut, "/user/update"},
		{http.MethodPut, "/user/major"},
		{http.MethodPost, "/user/picture"},
		{http.MethodPost, "/skills/add-user"},
		{http.MethodGet, "/skills/mine"},
		{http.MethodDelete, "/skills/user/3"},
		{http.MethodPost, "/results/match-result"},
		{http.MethodGet, "/results/history"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			req := httptest.NewRequest(rt.method, rt.path, nil)
			req.Header.Set("Authorization", "Bearer nope")
			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestSwaggerDisabledOutsideDevelopment(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadsServedFromLocalStorage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "users", "abc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users", "abc", "p.txt"), []byte("picture"), 0o644))

	router := newTestRouter(t, dir)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/users/abc/p.txt", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "picture", rec.Body.String())
	assert.Equal(t, "cross-origin", rec.Header().Get("Cross-Origin-Resource-Policy"))

	rec = httptest.NewRecorder()
	newTestRouter(t, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/users/abc/p.txt", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
