package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirely-app/hirely-api/internal/authctx"
	"github.com/hirely-app/hirely-api/internal/httputil"
	"github.com/hirely-app/hirely-api/internal/user"
	"github.com/hirely-app/hirely-api/internal/validator"
)

func authed(r *http.Request, u *user.User) *http.Request {
	return r.WithContext(authctx.WithUser(r.Context(), u.ID, u.Email))
}

func TestUpdateMajorHandlerConfirmationFlow(t *testing.T) {
	f := newFixture(t)
	h := user.NewHandler(f.svc, validator.New())
	u := f.createUser(t, "ana", "ana@example.com", f.majorID(t, "Computer Science"), "Python", "SQL")
	history := f.majorID(t, "History")

	body := fmt.Sprintf(`{"major_id":%d}`, history)
	rec := httptest.NewRecorder()
	h.UpdateMajor(rec, authed(httptest.NewRequest(http.MethodPut, "/user/major", strings.NewReader(body)), u))
	require.Equal(t, http.StatusConflict, rec.Code)

	var conflict user.ConfirmationRequiredResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&conflict))
	assert.Equal(t, httputil.CodeMajorConfirmationRequired, conflict.Code)
	assert.Equal(t, 2, conflict.SkillCount)
	assert.NotEmpty(t, conflict.Warning)

	body = fmt.Sprintf(`{"major_id":%d,"confirm_clear":true}`, history)
	rec = httptest.NewRecorder()
	h.UpdateMajor(rec, authed(httptest.NewRequest(http.MethodPut, "/user/major", strings.NewReader(body)), u))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp user.MajorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Changed)
	assert.Equal(t, "History", resp.Major.Name)
	assert.EqualValues(t, 2, resp.RemovedSkills)
	assert.NotEmpty(t, resp.Warning)
}

func TestUpdateProfileHandlerValidation(t *testing.T) {
	f := newFixture(t)
	h := user.NewHandler(f.svc, validator.New())
	u := f.createUser(t, "ana", "ana@example.com", f.majorID(t, "Law"))

	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, authed(httptest.NewRequest(http.MethodPut, "/user/update", strings.NewReader(`{"gender":"robot"}`)), u))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.UpdateProfile(rec, authed(httptest.NewRequest(http.MethodPut, "/user/update", strings.NewReader(`{"unknown":1}`)), u))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.UpdateProfile(rec, authed(httptest.NewRequest(http.MethodPut, "/user/update", strings.NewReader(`{"phone_number":"0811","work_experience":4}`)), u))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp user.ProfileResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "0811", resp.User.PhoneNumber)
	assert.Equal(t, 4, resp.User.WorkExperience)
}

func TestUpdateProfileHandlerMajor(t *testing.T) {
	f := newFixture(t)
	h := user.NewHandler(f.svc, validator.New())
	u := f.createUser(t, "ana", "ana@example.com", f.majorID(t, "Computer Science"), "Python", "SQL")

	update := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.UpdateProfile(rec, authed(httptest.NewRequest(http.MethodPut, "/user/update", strings.NewReader(body)), u))
		return rec
	}

	// leaving major_id out keeps the major
	rec := update(`{"work_experience":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, f.skillCount(t, u.ID))

	rec = update(`{"major_id":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var bad httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&bad))
	assert.Equal(t, httputil.CodeValidationFailed, bad.Code)
	assert.Contains(t, bad.Details, "major_id")

	rec = update(`{"major_id":null}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	var conflict user.ConfirmationRequiredResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&conflict))
	assert.Equal(t, httputil.CodeMajorConfirmationRequired, conflict.Code)
	assert.Equal(t, 2, f.skillCount(t, u.ID))

	rec = update(`{"major_id":null,"confirm_clear":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp user.ProfileResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Nil(t, resp.User.Major)
	assert.NotEmpty(t, resp.Warning)
	assert.Zero(t, f.skillCount(t, u.ID))

	profile, err := f.svc.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Nil(t, profile.MajorID)
	assert.Nil(t, profile.Major)
}

func TestGetProfileHandlerUnknownUser(t *testing.T) {
	f := newFixture(t)
	h := user.NewHandler(f.svc, validator.New())

	rec := httptest.NewRecorder()
	h.GetProfile(rec, authed(httptest.NewRequest(http.MethodGet, "/user/data", nil), &user.User{}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadPictureHandler(t *testing.T) {
	f := newFixture(t)
	h := user.NewHandler(f.svc, validator.New())
	u := f.createUser(t, "ana", "ana@example.com", f.majorID(t, "Law"))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "me.png")
	require.NoError(t, err)
	_, err = part.Write(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/user/picture", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.UploadPicture(rec, authed(req, u))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp user.PictureResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.PictureURL, "https://cdn.example.com/users/")
}
