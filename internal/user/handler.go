package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hirely-app/hirely-api/internal/httputil"
	"github.com/hirely-app/hirely-api/internal/logging"
	"github.com/hirely-app/hirely-api/internal/validator"
)

// multipart framing allowance on top of the picture itself
const multipartOverhead = 1 << 20

// Handler contains HTTP handlers for profile endpoints
type Handler struct {
	service   *Service
	validator *validator.Validator
}

func NewHandler(service *Service, v *validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

// UpdateProfileRequest represents a partial profile update. major_id, when
// present, goes through the same confirmation rule as PUT /user/major; an
// explicit null removes the major.
type UpdateProfileRequest struct {
	Patch
	MajorID      NullableID `json:"major_id" swaggertype:"integer"`
	ConfirmClear bool       `json:"confirm_clear"`
}

// NullableID tells an absent id from an explicit null.
type NullableID struct {
	Set   bool
	Value *int64
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}

	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

// UpdateMajorRequest represents the major change request body
type UpdateMajorRequest struct {
	MajorID      int64 `json:"major_id" validate:"required,gt=0"`
	ConfirmClear bool  `json:"confirm_clear"`
}

// ProfileResponse is the profile plus an optional warning about removed skills
type ProfileResponse struct {
	User    *User  `json:"user"`
	Warning string `json:"warning,omitempty"`
}

// MajorResponse represents the result of a major change
type MajorResponse struct {
	Message       string `json:"message"`
	Major         *Major `json:"major"`
	Changed       bool   `json:"changed"`
	RemovedSkills int64  `json:"removed_skills"`
	Warning       string `json:"warning,omitempty"`
}

// ConfirmationRequiredResponse is returned with 409 when a major change
// needs confirm_clear
type ConfirmationRequiredResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	Warning    string `json:"warning"`
	SkillCount int    `json:"skill_count"`
}

// PictureResponse represents the uploaded picture location
type PictureResponse struct {
	PictureURL string `json:"picture_url"`
}

// ListMajors handles the public majors list
// @Summary      List majors
// @Tags         user
// @Produce      json
// @Success      200 {array} Major
// @Router       /user/majors [get]
func (h *Handler) ListMajors(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	majors, err := h.service.ListMajors(r.Context())
	if err != nil {
		logger.Error("failed to list majors", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list majors", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, majors, http.StatusOK)
}

// GetProfile handles reading the current user's profile
// @Summary      Get my profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} User
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /user/data [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.CallerID(w, r)
	if !ok {
		return
	}

	u, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, "get profile", err)
		return
	}

	httputil.RespondJSON(w, u, http.StatusOK)
}

// UpdateProfile handles partial profile updates
// @Summary      Update my profile
// @Description  Update any subset of profile fields. Changing major_id, or setting it to null, deletes existing skills and needs confirm_clear.
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Fields to change"
// @Success      200 {object} ProfileResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      404 {object} httputil.ErrorResponse "Major not found"
// @Failure      409 {object} ConfirmationRequiredResponse "Confirmation required or duplicate email/name"
// @Router       /user/update [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.CallerID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !httputil.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	var change *MajorChange
	switch {
	case !req.MajorID.Set:
	case req.MajorID.Value == nil:
		change = &MajorChange{Clear: true, ConfirmClear: req.ConfirmClear}
	case *req.MajorID.Value <= 0:
		httputil.RespondValidationError(w, map[string]string{"major_id": "must be greater than 0"})
		return
	default:
		change = &MajorChange{MajorID: *req.MajorID.Value, ConfirmClear: req.ConfirmClear}
	}

	result, err := h.service.UpdateProfile(r.Context(), userID, req.Patch, change)
	if err != nil {
		h.respondServiceError(w, r, "update profile", err)
		return
	}

	logger.Info("profile updated", "user_id", userID, "warning", result.Warning != "")
	httputil.RespondJSON(w, ProfileResponse{User: result.User, Warning: result.Warning}, http.StatusOK)
}

// UpdateMajor handles major changes
// @Summary      Change my major
// @Description  Changing to a different major deletes all skills on the profile; the first call without confirm_clear returns 409 with a warning.
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateMajorRequest true "New major"
// @Success      200 {object} MajorResponse
// @Failure      404 {object} httputil.ErrorResponse "Major not found"
// @Failure      409 {object} ConfirmationRequiredResponse "Confirmation required"
// @Router       /user/major [put]
func (h *Handler) UpdateMajor(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.CallerID(w, r)
	if !ok {
		return
	}

	var req UpdateMajorRequest
	if !httputil.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	update, err := h.service.UpdateMajor(r.Context(), userID, req.MajorID, req.ConfirmClear)
	if err != nil {
		h.respondServiceError(w, r, "update major", err)
		return
	}

	message := "Major unchanged"
	if update.Changed {
		message = "Major updated"
		logger.Info("major changed", "user_id", userID, "major_id", req.MajorID, "removed_skills", update.RemovedSkills)
	}

	httputil.RespondJSON(w, MajorResponse{
		Message:       message,
		Major:         update.Major,
		Changed:       update.Changed,
		RemovedSkills: update.RemovedSkills,
		Warning:       update.Warning,
	}, http.StatusOK)
}

// UploadPicture handles profile picture uploads
// @Summary      Upload profile picture
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "JPEG, PNG, GIF or WebP image up to 5 MiB"
// @Success      200 {object} PictureResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing file"
// @Failure      413 {object} httputil.ErrorResponse "File too large"
// @Failure      415 {object} httputil.ErrorResponse "Unsupported media type"
// @Failure      502 {object} httputil.ErrorResponse "Upload failed"
// @Router       /user/picture [post]
func (h *Handler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.CallerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxPictureBytes+multipartOverhead)
	file, _, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.RespondErrorWithCode(w, ErrFileTooLarge.Error(), httputil.CodeFileTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		httputil.RespondErrorWithCode(w, "multipart field 'file' is required", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.service.UploadPicture(r.Context(), userID, file)
	if err != nil {
		h.respondServiceError(w, r, "upload picture", err)
		return
	}

	logger.Info("profile picture uploaded", "user_id", userID)
	httputil.RespondJSON(w, PictureResponse{PictureURL: url}, http.StatusOK)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger := logging.GetLoggerFromContext(r.Context())

	var confirm *ConfirmationRequiredError
	var fieldErr *FieldError

	switch {
	case errors.As(err, &confirm):
		logger.Info(op+": confirmation required", "skill_count", confirm.SkillCount)
		httputil.RespondJSON(w, ConfirmationRequiredResponse{
			Error:      confirm.Error(),
			Code:       httputil.CodeMajorConfirmationRequired,
			Warning:    confirm.Warning,
			SkillCount: confirm.SkillCount,
		}, http.StatusConflict)
	case errors.As(err, &fieldErr):
		httputil.RespondJSON(w, httputil.ErrorResponse{
			Error:   "validation failed",
			Code:    httputil.CodeInvalidField,
			Details: map[string]string{fieldErr.Field: fieldErr.Message},
		}, http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeUserNotFound, http.StatusNotFound)
	case errors.Is(err, ErrMajorNotFound):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeMajorNotFound, http.StatusNotFound)
	case errors.Is(err, ErrDuplicateEmail):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeEmailAlreadyExists, http.StatusConflict)
	case errors.Is(err, ErrDuplicateName):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeNameAlreadyExists, http.StatusConflict)
	case errors.Is(err, ErrFileTooLarge):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeFileTooLarge, http.StatusRequestEntityTooLarge)
	case errors.Is(err, ErrUnsupportedMediaType):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeUnsupportedMediaType, http.StatusUnsupportedMediaType)
	case errors.Is(err, ErrUploadFailed):
		logger.Error(op+" failed: upstream error", "error", err.Error())
		httputil.RespondErrorWithCode(w, ErrUploadFailed.Error(), httputil.CodeUploadFailed, http.StatusBadGateway)
	default:
		logger.Error(op+" failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to "+op, httputil.CodeInternalError, http.StatusInternalServerError)
	}
}
