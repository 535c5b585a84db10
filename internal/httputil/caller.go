package httputil

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hirely-app/hirely-api/internal/authctx"
)

// CallerID returns the authenticated user's id. Handlers mounted without the
// auth middleware get a 401 written for them and ok=false.
func CallerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := authctx.GetUserIDFromContext(r.Context())
	if !ok {
		RespondErrorWithCode(w, "missing authentication", CodeMissingAuth, http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}
