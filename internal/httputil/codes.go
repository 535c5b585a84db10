package httputil

// Machine-readable error codes returned in ErrorResponse.Code.
const (
	CodeInternalError      = "INTERNAL_ERROR"
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeCooldownActive     = "COOLDOWN_ACTIVE"

	// authentication
	CodeMissingAuth         = "MISSING_AUTH"
	CodeInvalidAuthHeader   = "INVALID_AUTH_HEADER"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeInvalidTokenPayload = "INVALID_TOKEN_PAYLOAD"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"

	// registration and password policy
	CodeTermsNotAccepted   = "TERMS_NOT_ACCEPTED"
	CodeInvalidEmailFormat = "INVALID_EMAIL_FORMAT"
	CodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	CodePasswordTooLong    = "PASSWORD_TOO_LONG"
	CodePasswordMismatch   = "PASSWORD_MISMATCH"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeNameAlreadyExists  = "NAME_ALREADY_EXISTS"

	// password reset
	CodeResetTokenNotFound   = "RESET_TOKEN_NOT_FOUND"
	CodeResetTokenMismatch   = "RESET_TOKEN_MISMATCH"
	CodeResetTokenExpired    = "RESET_TOKEN_EXPIRED"
	CodeTooManyResetAttempts = "TOO_MANY_RESET_ATTEMPTS"

	// profile
	CodeUserNotFound              = "USER_NOT_FOUND"
	CodeMajorNotFound             = "MAJOR_NOT_FOUND"
	CodeMajorConfirmationRequired = "MAJOR_CHANGE_CONFIRMATION_REQUIRED"
	CodeInvalidField              = "INVALID_FIELD"
	CodeUploadFailed              = "UPLOAD_FAILED"
	CodeUnsupportedMediaType      = "UNSUPPORTED_MEDIA_TYPE"
	CodeFileTooLarge              = "FILE_TOO_LARGE"

	// skills and matching
	CodeSkillNotFound   = "SKILL_NOT_FOUND"
	CodeInferenceFailed = "INFERENCE_FAILED"
	CodeNoMatchHistory  = "NO_MATCH_HISTORY"
)
