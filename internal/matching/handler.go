package matching

import (
	"errors"
	"net/http"

	"github.com/hirely-app/hirely-api/internal/httputil"
	"github.com/hirely-app/hirely-api/internal/logging"
	"github.com/hirely-app/hirely-api/internal/user"
)

// Handler contains HTTP handlers for job matching endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Match handles a new job match request
// @Summary      Match jobs
// @Description  Ask the inference service for jobs fitting the caller's major and skills. Replaces the saved history.
// @Tags         results
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Match
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Major not set"
// @Failure      502 {object} httputil.ErrorResponse "Inference service failed"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /results/match-result [post]
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.CallerID(w, r)
	if !ok {
		return
	}

	matches, err := h.service.Match(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrMajorNotSet):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeMajorNotFound, http.StatusNotFound)
		case errors.Is(err, user.ErrNotFound):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeUserNotFound, http.StatusNotFound)
		case errors.Is(err, ErrInferenceFailed):
			logger.Error("job match failed: upstream error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "error communicating with the matching model", httputil.CodeInferenceFailed, http.StatusBadGateway)
		default:
			logger.Error("job match failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to match jobs", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("job match completed", "results", len(matches))
	httputil.RespondJSON(w, matches, http.StatusOK)
}

// History handles the saved match results
// @Summary      Match history
// @Tags         results
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} SavedMatch
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "No saved history"
// @Router       /results/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.CallerID(w, r)
	if !ok {
		return
	}

	matches, err := h.service.History(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoHistory) {
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeNoMatchHistory, http.StatusNotFound)
			return
		}
		logger.Error("failed to load match history", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to load match history", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, matches, http.StatusOK)
}
