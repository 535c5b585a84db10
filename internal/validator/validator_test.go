package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email  string `json:"email" validate:"required,email"`
	Gender string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Token  string `json:"token" validate:"required,len=5,numeric"`
}

func TestStructUsesJSONNames(t *testing.T) {
	v := New()

	err := v.Struct(&sample{Email: "not-an-email", Gender: "Robot", Token: "12a"})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be a valid email address", verr.Errors["email"])
	assert.Contains(t, verr.Errors["gender"], "Male Female Other")
	assert.Contains(t, verr.Errors, "token")
	assert.Contains(t, err.Error(), "field 'email'")
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, New().Struct(&sample{Email: "ana@hirely.app", Token: "12345"}))
}
