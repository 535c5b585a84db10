package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// AcademicLevel is the highest completed level of education.
type AcademicLevel string

const (
	AcademicNone       AcademicLevel = "none"
	AcademicPrimary    AcademicLevel = "primary"
	AcademicJuniorHigh AcademicLevel = "junior_high"
	AcademicSeniorHigh AcademicLevel = "senior_high"
	AcademicDiploma    AcademicLevel = "diploma"
	AcademicBachelor   AcademicLevel = "bachelor"
	AcademicMaster     AcademicLevel = "master"
	AcademicDoctorate  AcademicLevel = "doctorate"
)

func (a AcademicLevel) Valid() bool {
	switch a {
	case AcademicNone, AcademicPrimary, AcademicJuniorHigh, AcademicSeniorHigh,
		AcademicDiploma, AcademicBachelor, AcademicMaster, AcademicDoctorate:
		return true
	}
	return false
}

type Major struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	PasswordHash   string         `json:"-"` // Never expose password hash in JSON
	PhoneNumber    string         `json:"phone_number"`
	Gender         *Gender        `json:"gender"`
	Description    *string        `json:"description"`
	WorkExperience int            `json:"work_experience"`
	AcademicLevel  *AcademicLevel `json:"academic_level"`
	PictureURL     *string        `json:"picture_url"`
	MajorID        *int64         `json:"-"`
	Major          *Major         `json:"major"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasMajor reports whether the user's current major is id.
func (u *User) HasMajor(id int64) bool {
	return u.MajorID != nil && *u.MajorID == id
}
