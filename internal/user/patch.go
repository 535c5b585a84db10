package user

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var ErrInvalidField = errors.New("invalid field")

// FieldError names the patch field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// Patch is a partial profile update. Nil fields are left alone. For
// description and picture_url an empty string clears the stored value.
type Patch struct {
	Name           *string        `json:"name,omitempty" validate:"omitempty,max=100"`
	Email          *string        `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber    *string        `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	Gender         *Gender        `json:"gender,omitempty" validate:"omitempty,oneof=Male Female Other"`
	Description    *string        `json:"description,omitempty"`
	WorkExperience *int           `json:"work_experience,omitempty" validate:"omitempty,min=0"`
	AcademicLevel  *AcademicLevel `json:"academic_level,omitempty"`
	PictureURL     *string        `json:"picture_url,omitempty"`
}

// Validate checks every set field. It runs again inside the service so the
// rules hold for callers that skip request validation.
func (p Patch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &FieldError{Field: "name", Message: "must not be empty"}
	}
	if p.Email != nil {
		addr, err := mail.ParseAddress(*p.Email)
		if err != nil || addr.Address != *p.Email {
			return &FieldError{Field: "email", Message: "must be a valid email address"}
		}
	}
	if p.PhoneNumber != nil && strings.TrimSpace(*p.PhoneNumber) == "" {
		return &FieldError{Field: "phone_number", Message: "must not be empty"}
	}
	if p.Gender != nil && !p.Gender.Valid() {
		return &FieldError{Field: "gender", Message: "must be one of Male, Female, Other"}
	}
	if p.WorkExperience != nil && *p.WorkExperience < 0 {
		return &FieldError{Field: "work_experience", Message: "must not be negative"}
	}
	if p.AcademicLevel != nil && !p.AcademicLevel.Valid() {
		return &FieldError{Field: "academic_level", Message: "is not a known academic level"}
	}
	return nil
}

// Apply merges the set fields into u.
func (p Patch) Apply(u *User) {
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		u.Email = NormalizeEmail(*p.Email)
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.Gender != nil {
		g := *p.Gender
		u.Gender = &g
	}
	if p.Description != nil {
		u.Description = emptyToNil(*p.Description)
	}
	if p.WorkExperience != nil {
		u.WorkExperience = *p.WorkExperience
	}
	if p.AcademicLevel != nil {
		a := *p.AcademicLevel
		u.AcademicLevel = &a
	}
	if p.PictureURL != nil {
		u.PictureURL = emptyToNil(*p.PictureURL)
	}
}

// changesIdentity reports whether applying p may collide with another
// user's unique email or name.
func (p Patch) changesIdentity(u *User) (email, name string) {
	if p.Email != nil && NormalizeEmail(*p.Email) != u.Email {
		email = NormalizeEmail(*p.Email)
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) != u.Name {
		name = strings.TrimSpace(*p.Name)
	}
	return email, name
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
