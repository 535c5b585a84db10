package skill_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirely-app/hirely-api/internal/authctx"
	"github.com/hirely-app/hirely-api/internal/database/dbtest"
	"github.com/hirely-app/hirely-api/internal/httputil"
	"github.com/hirely-app/hirely-api/internal/skill"
	"github.com/hirely-app/hirely-api/internal/validator"
)

func withCaller(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(authctx.WithUser(r.Context(), userID, "caller@example.com")))
		})
	}
}

func TestHandlerAddAndRemove(t *testing.T) {
	db := dbtest.Seeded(t)
	userID := insertUser(t, db)
	h := skill.NewHandler(newService(db), validator.New())

	r := chi.NewRouter()
	r.Use(withCaller(userID))
	r.Post("/skills/add-user", h.AddToUser)
	r.Delete("/skills/user/{skillID}", h.Remove)

	pythonID := skillID(t, db, "Python")
	body := `{"skill_ids":[` + strconv.FormatInt(pythonID, 10) + `]}`

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/skills/add-user", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var result skill.AddResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, []int64{pythonID}, result.AddedSkills)

	path := "/skills/user/" + strconv.FormatInt(pythonID, 10)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var errResp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, httputil.CodeSkillNotFound, errResp.Code)
}

func TestHandlerAddRejectsEmptyList(t *testing.T) {
	db := dbtest.Seeded(t)
	h := skill.NewHandler(newService(db), validator.New())

	r := chi.NewRouter()
	r.Use(withCaller(uuid.New()))
	r.Post("/skills/add-user", h.AddToUser)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/skills/add-user", strings.NewReader(`{"skill_ids":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, httputil.CodeValidationFailed, errResp.Code)
	assert.Contains(t, errResp.Details, "skill_ids")
}

func TestHandlerRequiresCaller(t *testing.T) {
	db := dbtest.Seeded(t)
	h := skill.NewHandler(newService(db), validator.New())

	rec := httptest.NewRecorder()
	h.Mine(rec, httptest.NewRequest(http.MethodGet, "/skills/mine", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
