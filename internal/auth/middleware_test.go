package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirely-app/hirely-api/internal/authctx"
	"github.com/hirely-app/hirely-api/internal/httputil"
	"github.com/hirely-app/hirely-api/internal/user"
)

type fakeResolver struct {
	user      *user.User
	err       error
	lastToken string
}

func (f *fakeResolver) ResolveCurrentUser(_ context.Context, token string) (*user.User, error) {
	f.lastToken = token
	return f.user, f.err
}

func TestRequireAuthStoresCaller(t *testing.T) {
	caller := &user.User{ID: uuid.New(), Email: "ana@example.com"}
	resolver := &fakeResolver{user: caller}

	var gotID uuid.UUID
	var gotEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = authctx.GetUserIDFromContext(r.Context())
		gotEmail, _ = authctx.GetUserEmailFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	for _, header := range []string{"Bearer abc.def", "bearer abc.def", "BEARER abc.def"} {
		req := httptest.NewRequest(http.MethodGet, "/user/data", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		NewMiddleware(resolver).RequireAuth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code, header)
		assert.Equal(t, "abc.def", resolver.lastToken)
		assert.Equal(t, caller.ID, gotID)
		assert.Equal(t, caller.Email, gotEmail)
	}
}

func TestRequireAuthFailures(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "no header", wantStatus: http.StatusUnauthorized, wantCode: httputil.CodeMissingAuth},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantCode: httputil.CodeInvalidAuthHeader},
		{name: "scheme only", header: "Bearer", wantStatus: http.StatusUnauthorized, wantCode: httputil.CodeInvalidAuthHeader},
		{name: "invalid token", header: "Bearer x", err: ErrInvalidToken, wantStatus: http.StatusUnauthorized, wantCode: httputil.CodeInvalidToken},
		{name: "expired token", header: "Bearer x", err: ErrExpiredToken, wantStatus: http.StatusUnauthorized, wantCode: httputil.CodeTokenExpired},
		{name: "bad payload", header: "Bearer x", err: ErrInvalidTokenPayload, wantStatus: http.StatusForbidden, wantCode: httputil.CodeInvalidTokenPayload},
		{name: "user gone", header: "Bearer x", err: user.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: httputil.CodeUserNotFound},
		{name: "store down", header: "Bearer x", err: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCode: httputil.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/user/data", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			NewMiddleware(&fakeResolver{err: tt.err}).RequireAuth(next).ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body httputil.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestRequireAuthWithRealTokens(t *testing.T) {
	f := newServiceFixture(t)
	u := f.register(t)

	token, err := f.tokens.CreateToken(u.ID, u.Email, 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/user/data", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	NewMiddleware(f.svc).RequireAuth(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
