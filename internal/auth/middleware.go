package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/hirely-app/hirely-api/internal/authctx"
	"github.com/hirely-app/hirely-api/internal/httputil"
	"github.com/hirely-app/hirely-api/internal/logging"
	"github.com/hirely-app/hirely-api/internal/user"
)

// IdentityResolver turns a bearer token into the stored user.
type IdentityResolver interface {
	ResolveCurrentUser(ctx context.Context, token string) (*user.User, error)
}

// Middleware handles authentication for protected routes
type Middleware struct {
	resolver IdentityResolver
}

func NewMiddleware(resolver IdentityResolver) *Middleware {
	return &Middleware{resolver: resolver}
}

// RequireAuth is a middleware that resolves the caller from the bearer token
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}

		caller, err := m.resolver.ResolveCurrentUser(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, ErrExpiredToken):
				httputil.RespondErrorWithCode(w, "token is invalid or has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
			case errors.Is(err, ErrInvalidToken):
				httputil.RespondErrorWithCode(w, "token is invalid or has expired", httputil.CodeInvalidToken, http.StatusUnauthorized)
			case errors.Is(err, ErrInvalidTokenPayload):
				httputil.RespondErrorWithCode(w, "invalid token payload: missing user_id", httputil.CodeInvalidTokenPayload, http.StatusForbidden)
			case errors.Is(err, user.ErrNotFound):
				httputil.RespondErrorWithCode(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
			default:
				logger.Error("failed to resolve caller", "error", err.Error())
				httputil.RespondErrorWithCode(w, "failed to authenticate", httputil.CodeInternalError, http.StatusInternalServerError)
			}
			return
		}

		ctx := authctx.WithUser(r.Context(), caller.ID, caller.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, " ") {
		return "", false
	}
	return token, true
}
