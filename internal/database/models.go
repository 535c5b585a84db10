package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	Name           string    `bun:"name,notnull,unique"`
	Email          string    `bun:"email,notnull,unique"`
	PasswordHash   string    `bun:"password_hash,notnull"`
	PhoneNumber    string    `bun:"phone_number,notnull"`
	Gender         *string   `bun:"gender"`
	Description    *string   `bun:"description"`
	WorkExperience int       `bun:"work_experience,notnull"`
	AcademicLevel  *string   `bun:"academic_level"`
	PictureURL     *string   `bun:"picture_url"`
	MajorID        *int64    `bun:"major_id"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}

type Major struct {
	bun.BaseModel `bun:"table:majors,alias:m"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull,unique"`
}

type Skill struct {
	bun.BaseModel `bun:"table:skills,alias:s"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull,unique"`
	Type string `bun:"type,notnull"`
}

type UserSkill struct {
	bun.BaseModel `bun:"table:user_skills,alias:us"`

	ID      int64     `bun:"id,pk,autoincrement"`
	UserID  uuid.UUID `bun:"user_id,type:uuid,notnull,unique:user_skill"`
	SkillID int64     `bun:"skill_id,notnull,unique:user_skill"`
}

type Company struct {
	bun.BaseModel `bun:"table:companies,alias:c"`

	ID          int64   `bun:"id,pk,autoincrement"`
	Name        string  `bun:"name,notnull,unique"`
	Email       string  `bun:"email,notnull"`
	PhoneNumber string  `bun:"phone_number,notnull"`
	Description *string `bun:"description"`
	Location    *string `bun:"location"`
	Link        *string `bun:"link"`
}

type SkillRequirement struct {
	bun.BaseModel `bun:"table:skill_requirements,alias:sr"`

	ID        int64 `bun:"id,pk,autoincrement"`
	CompanyID int64 `bun:"company_id,notnull,unique:company_skill"`
	SkillID   int64 `bun:"skill_id,notnull,unique:company_skill"`
}

type PasswordReset struct {
	bun.BaseModel `bun:"table:password_resets,alias:pr"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Email     string    `bun:"email,notnull"`
	Token     string    `bun:"token,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
}

type JobMatchResult struct {
	bun.BaseModel `bun:"table:job_match_results,alias:jmr"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    uuid.UUID `bun:"user_id,type:uuid,notnull"`
	JobTitle  string    `bun:"job_title,type:varchar(50),notnull"`
	Company   string    `bun:"company,type:varchar(50),notnull"`
	URL       string    `bun:"url,type:varchar(255),notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}
