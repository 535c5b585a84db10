package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hirely-app/hirely-api/internal/validator"
)

const maxBodyBytes = 1 << 20

// DecodeAndValidate reads a JSON body into dst and validates it. On failure it
// writes the error response itself and returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validator, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		RespondErrorWithCode(w, "invalid request body", CodeInvalidRequestBody, http.StatusBadRequest)
		return false
	}

	if err := v.Struct(dst); err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			RespondValidationError(w, verr.Errors)
			return false
		}
		RespondErrorWithCode(w, "invalid request body", CodeInvalidRequestBody, http.StatusBadRequest)
		return false
	}

	return true
}
