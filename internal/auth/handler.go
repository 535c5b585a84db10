package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hirely-app/hirely-api/internal/httputil"
	"github.com/hirely-app/hirely-api/internal/logging"
	"github.com/hirely-app/hirely-api/internal/user"
	"github.com/hirely-app/hirely-api/internal/validator"
)

const (
	purposeRegister = "register"
	purposeLogin    = "login"
)

// RateLimiter is the subset of ratelimit.Limiter the auth endpoints use.
type RateLimiter interface {
	CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
	RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error
	CheckIPRateLimit(ctx context.Context, ip string) (bool, error)
	RecordIPRequest(ctx context.Context, ip string) error
	CheckEmailCooldown(ctx context.Context, email string) (bool, error)
	SetEmailCooldown(ctx context.Context, email string) error
	ResetFailuresExceeded(ctx context.Context, email string) (bool, error)
	RecordResetFailure(ctx context.Context, email string) (bool, error)
	ClearResetFailures(ctx context.Context, email string) error
}

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service     *Service
	rateLimiter RateLimiter
	validator   *validator.Validator
}

func NewHandler(service *Service, rateLimiter RateLimiter, v *validator.Validator) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: rateLimiter,
		validator:   v,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name            string              `json:"name" validate:"required,max=100"`
	Email           string              `json:"email" validate:"required"`
	Password        string              `json:"password" validate:"required"`
	ConfirmPassword string              `json:"confirm_password" validate:"required"`
	PhoneNumber     string              `json:"phone_number" validate:"required,max=20"`
	Gender          *user.Gender        `json:"gender,omitempty"`
	Description     *string             `json:"description,omitempty"`
	WorkExperience  int                 `json:"work_experience"`
	AcademicLevel   *user.AcademicLevel `json:"academic_level,omitempty"`
	PictureURL      *string             `json:"picture_url,omitempty"`
	MajorID         *int64              `json:"major_id,omitempty" validate:"omitempty,gt=0"`
	TermsAccepted   bool                `json:"terms_accepted"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"user_id"`
}

// ForgotPasswordRequest represents the password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyResetTokenRequest checks a reset code without consuming it
type VerifyResetTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required,len=5,numeric"`
}

// ResetPasswordRequest represents the password reset confirmation
type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Token           string `json:"token" validate:"required,len=5,numeric"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new account. Terms, email format, password policy, enum fields, uniqueness and major are checked in that order.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      201 {object} RegisterResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      404 {object} httputil.ErrorResponse "Major not found"
// @Failure      409 {object} httputil.ErrorResponse "Email or name already exists"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	// Rate limit by IP
	ip := getClientIP(r)
	if h.ipLimited(w, r, ip, purposeRegister) {
		return
	}

	var req RegisterRequest
	if !httputil.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, purposeRegister); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	newUser, err := h.service.Register(r.Context(), RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		PhoneNumber:     req.PhoneNumber,
		Gender:          req.Gender,
		Description:     req.Description,
		WorkExperience:  req.WorkExperience,
		AcademicLevel:   req.AcademicLevel,
		PictureURL:      req.PictureURL,
		MajorID:         req.MajorID,
		TermsAccepted:   req.TermsAccepted,
	})
	if err != nil {
		var fieldErr *user.FieldError
		switch {
		case errors.As(err, &fieldErr):
			logger.Warn("registration failed: validation error", "field", fieldErr.Field)
			httputil.RespondJSON(w, httputil.ErrorResponse{
				Error:   "validation failed",
				Code:    httputil.CodeInvalidField,
				Details: map[string]string{fieldErr.Field: fieldErr.Message},
			}, http.StatusBadRequest)
		case errors.Is(err, user.ErrDuplicateEmail):
			logger.Warn("registration failed: email already exists")
			httputil.RespondErrorWithCode(w, "email already registered", httputil.CodeEmailAlreadyExists, http.StatusConflict)
		case errors.Is(err, user.ErrDuplicateName):
			logger.Warn("registration failed: name already exists")
			httputil.RespondErrorWithCode(w, "name already registered", httputil.CodeNameAlreadyExists, http.StatusConflict)
		case errors.Is(err, user.ErrMajorNotFound):
			logger.Warn("registration failed: major not found")
			httputil.RespondErrorWithCode(w, "major not found", httputil.CodeMajorNotFound, http.StatusNotFound)
		default:
			if code, ok := policyErrorCode(err); ok {
				logger.Warn("registration failed: validation error", "error", err.Error())
				httputil.RespondErrorWithCode(w, err.Error(), code, http.StatusBadRequest)
				return
			}
			logger.Error("registration failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to register user", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user registered successfully", "user_id", newUser.ID)

	httputil.RespondJSON(w, RegisterResponse{
		Message: "Registration successful",
		UserID:  newUser.ID,
	}, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with email and password and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} AuthTokens
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	// Rate limit by IP
	ip := getClientIP(r)
	if h.ipLimited(w, r, ip, purposeLogin) {
		return
	}

	var req LoginRequest
	if !httputil.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, purposeLogin); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	tokens, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			httputil.RespondErrorWithCode(w, "invalid email or password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to login", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in successfully")
	httputil.RespondJSON(w, tokens, http.StatusOK)
}

// ForgotPassword handles password reset requests
// @Summary      Request password reset
// @Description  Email a 5-digit reset code valid for 15 minutes. Always returns success to prevent email enumeration.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Email address"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Router       /auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ForgotPasswordRequest
	if !httputil.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	// Get client IP for rate limiting
	ip := getClientIP(r)

	exceeded, err := h.rateLimiter.CheckIPRateLimit(r.Context(), ip)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
		// Continue despite error to avoid blocking legitimate requests
	} else if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip)
		httputil.RespondErrorWithCode(w, "too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return
	}

	onCooldown, err := h.rateLimiter.CheckEmailCooldown(r.Context(), req.Email)
	if err != nil {
		logger.Error("failed to check email cooldown", "error", err.Error())
	} else if onCooldown {
		logger.Warn("email on cooldown", "email", req.Email)
		httputil.RespondErrorWithCode(w, "please wait before requesting another reset", httputil.CodeCooldownActive, http.StatusTooManyRequests)
		return
	}

	if err := h.rateLimiter.RecordIPRequest(r.Context(), ip); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	if err := h.rateLimiter.SetEmailCooldown(r.Context(), req.Email); err != nil {
		logger.Error("failed to set email cooldown", "error", err.Error())
	}

	// Process request (always returns nil for security)
	_ = h.service.RequestPasswordReset(r.Context(), req.Email)

	httputil.RespondMessage(w, "If an account exists with that email, a password reset code has been sent.", http.StatusOK)
}

// VerifyResetToken handles checking a reset code before the new password is chosen
// @Summary      Verify reset code
// @Description  Check that the code is the newest one issued for the email, matches and has not expired. The code stays valid.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body VerifyResetTokenRequest true "Email and code"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Code mismatch or expired"
// @Failure      404 {object} httputil.ErrorResponse "No reset requested"
// @Failure      429 {object} httputil.ErrorResponse "Too many wrong codes"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/verify-reset-token [post]
func (h *Handler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req VerifyResetTokenRequest
	if !httputil.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	if h.resetLocked(w, r, req.Email) {
		return
	}

	if err := h.service.VerifyResetToken(r.Context(), req.Email, req.Token); err != nil {
		if errors.Is(err, ErrResetTokenMismatch) && h.recordResetFailure(w, r, req.Email) {
			return
		}
		h.respondResetError(w, logger, "reset code verification", err)
		return
	}

	httputil.RespondMessage(w, "Reset code is valid", http.StatusOK)
}

// ResetPassword handles password reset with a code
// @Summary      Reset password
// @Description  Set a new password using a valid reset code. Every outstanding code for the email is invalidated.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Email, code and new password"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request, password policy, code mismatch or expired"
// @Failure      404 {object} httputil.ErrorResponse "No reset requested or user not found"
// @Failure      429 {object} httputil.ErrorResponse "Too many wrong codes"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ResetPasswordRequest
	if !httputil.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	if h.resetLocked(w, r, req.Email) {
		return
	}

	err := h.service.ResetPassword(r.Context(), ResetInput{
		Email:           req.Email,
		Token:           req.Token,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if code, ok := policyErrorCode(err); ok {
			logger.Warn("password reset failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), code, http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrResetTokenMismatch) && h.recordResetFailure(w, r, req.Email) {
			return
		}
		h.respondResetError(w, logger, "password reset", err)
		return
	}

	if err := h.rateLimiter.ClearResetFailures(r.Context(), req.Email); err != nil {
		logger.Error("failed to clear reset failures", "error", err.Error())
	}

	logger.Info("password reset successfully")
	httputil.RespondMessage(w, "Password has been reset successfully.", http.StatusOK)
}

func (h *Handler) respondResetError(w http.ResponseWriter, logger *logging.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrResetTokenNotFound):
		logger.Warn(op+" failed: no reset requested")
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeResetTokenNotFound, http.StatusNotFound)
	case errors.Is(err, ErrResetTokenMismatch):
		logger.Warn(op + " failed: code mismatch")
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeResetTokenMismatch, http.StatusBadRequest)
	case errors.Is(err, ErrResetTokenExpired):
		logger.Warn(op + " failed: code expired")
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeResetTokenExpired, http.StatusBadRequest)
	case errors.Is(err, user.ErrNotFound):
		logger.Warn(op + " failed: user not found")
		httputil.RespondErrorWithCode(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
	default:
		logger.Error(op+" failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to reset password", httputil.CodeInternalError, http.StatusInternalServerError)
	}
}

// resetLocked reports whether email has run out of reset code attempts. Unlike
// the IP limit this check fails closed: a limiter error rejects the request.
func (h *Handler) resetLocked(w http.ResponseWriter, r *http.Request, email string) bool {
	logger := logging.GetLoggerFromContext(r.Context())

	exceeded, err := h.rateLimiter.ResetFailuresExceeded(r.Context(), email)
	if err != nil {
		logger.Error("failed to check reset failures", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to verify reset code", httputil.CodeInternalError, http.StatusInternalServerError)
		return true
	}
	if exceeded {
		logger.Warn("too many wrong reset codes", "email", email)
		respondTooManyResetAttempts(w)
		return true
	}
	return false
}

// recordResetFailure counts a wrong code. When that uses up the allowance the
// outstanding codes are revoked and the request is answered with 429.
func (h *Handler) recordResetFailure(w http.ResponseWriter, r *http.Request, email string) bool {
	logger := logging.GetLoggerFromContext(r.Context())

	reached, err := h.rateLimiter.RecordResetFailure(r.Context(), email)
	if err != nil {
		logger.Error("failed to record reset failure", "error", err.Error())
		return false
	}
	if !reached {
		return false
	}

	if err := h.service.InvalidateResetCodes(r.Context(), email); err != nil {
		logger.Error("failed to revoke reset codes", "error", err.Error())
	}
	logger.Warn("reset codes revoked after too many wrong attempts", "email", email)
	respondTooManyResetAttempts(w)
	return true
}

func respondTooManyResetAttempts(w http.ResponseWriter) {
	httputil.RespondErrorWithCode(w, "too many wrong codes, please request a new one later", httputil.CodeTooManyResetAttempts, http.StatusTooManyRequests)
}

// ipLimited reports whether the request was rejected by the per-IP limit. A
// limiter error is logged and the request continues.
func (h *Handler) ipLimited(w http.ResponseWriter, r *http.Request, ip, purpose string) bool {
	logger := logging.GetLoggerFromContext(r.Context())

	exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
		return false
	}
	if exceeded {
		logger.Warn("IP rate limit exceeded for "+purpose, "ip", ip)
		httputil.RespondErrorWithCode(w, "too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return true
	}
	return false
}

func policyErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrTermsNotAccepted):
		return httputil.CodeTermsNotAccepted, true
	case errors.Is(err, ErrInvalidEmailFormat):
		return httputil.CodeInvalidEmailFormat, true
	case errors.Is(err, ErrPasswordTooShort):
		return httputil.CodePasswordTooShort, true
	case errors.Is(err, ErrPasswordTooLong):
		return httputil.CodePasswordTooLong, true
	case errors.Is(err, ErrPasswordMismatch):
		return httputil.CodePasswordMismatch, true
	}
	return "", false
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (behind proxy/load balancer)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr format is "IP:port", extract just the IP
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
