package skill

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hirely-app/hirely-api/internal/httputil"
	"github.com/hirely-app/hirely-api/internal/logging"
	"github.com/hirely-app/hirely-api/internal/validator"
)

// Handler contains HTTP handlers for skill endpoints
type Handler struct {
	service   *Service
	validator *validator.Validator
}

func NewHandler(service *Service, v *validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

// AddUserSkillsRequest represents the add-skills request body
type AddUserSkillsRequest struct {
	SkillIDs []int64 `json:"skill_ids" validate:"required,min=1,dive,gt=0"`
}

// List handles the public skills catalogue
// @Summary      List skills
// @Description  List all skills, optionally filtered by a case-insensitive name search
// @Tags         skills
// @Produce      json
// @Param        search query string false "Substring of the skill name"
// @Success      200 {array} Skill
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /skills/list [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	skills, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		logger.Error("failed to list skills", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list skills", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, skills, http.StatusOK)
}

// AddToUser handles adding skills to the current user
// @Summary      Add skills to profile
// @Description  Add skills by id. Each id is reported as added, already present or not found.
// @Tags         skills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AddUserSkillsRequest true "Skill ids"
// @Success      200 {object} AddResult
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /skills/add-user [post]
func (h *Handler) AddToUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.CallerID(w, r)
	if !ok {
		return
	}

	var req AddUserSkillsRequest
	if !httputil.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	result, err := h.service.AddUserSkills(r.Context(), userID, req.SkillIDs)
	if err != nil {
		logger.Error("failed to add user skills", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to add skills", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user skills processed",
		"added", len(result.AddedSkills),
		"already_have", len(result.AlreadyHave),
		"not_found", len(result.NotFound),
	)

	httputil.RespondJSON(w, result, http.StatusOK)
}

// Mine handles listing the current user's skills
// @Summary      List my skills
// @Tags         skills
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Skill
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /skills/mine [get]
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.CallerID(w, r)
	if !ok {
		return
	}

	skills, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		logger.Error("failed to list user skills", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list skills", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, skills, http.StatusOK)
}

// Remove handles removing one skill from the current user
// @Summary      Remove a skill from profile
// @Tags         skills
// @Produce      json
// @Security     BearerAuth
// @Param        skillID path int true "Skill id"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid skill id"
// @Failure      404 {object} httputil.ErrorResponse "Skill not on profile"
// @Router       /skills/user/{skillID} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.CallerID(w, r)
	if !ok {
		return
	}

	skillID, err := strconv.ParseInt(chi.URLParam(r, "skillID"), 10, 64)
	if err != nil || skillID <= 0 {
		httputil.RespondErrorWithCode(w, "invalid skill id", httputil.CodeInvalidField, http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveUserSkill(r.Context(), userID, skillID); err != nil {
		if errors.Is(err, ErrNotAdded) {
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeSkillNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to remove user skill", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to remove skill", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondMessage(w, "Skill removed", http.StatusOK)
}
