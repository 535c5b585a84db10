package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/hirely-app/hirely-api/internal/database"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicateName  = errors.New("name already exists")
)

// Repository handles user data persistence. It works against either the
// shared pool or a transaction.
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. ID and timestamps are filled in when zero.
func (r *Repository) Create(ctx context.Context, u *User) error {
	now := time.Now().UTC()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	if _, err := r.db.NewInsert().Model(mapModelToDBUser(u)).Exec(ctx); err != nil {
		if dupErr := duplicateError(err); dupErr != nil {
			return dupErr
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, "email = ?", NormalizeEmail(email))
}

// GetByID retrieves a user by ID, with the major attached when set.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *Repository) getOne(ctx context.Context, where string, arg any) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where(where, arg).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u := mapDBUserToModel(dbUser)
	if u.MajorID != nil {
		major, err := NewMajorRepository(r.db).GetByID(ctx, *u.MajorID)
		if err != nil && !errors.Is(err, ErrMajorNotFound) {
			return nil, err
		}
		u.Major = major
	}

	return u, nil
}

// FindConflict returns ErrDuplicateEmail or ErrDuplicateName when another user
// (not exclude) already holds email or name. Empty values are not checked.
func (r *Repository) FindConflict(ctx context.Context, email, name string, exclude uuid.UUID) error {
	if email != "" {
		taken, err := r.exists(ctx, "email = ?", NormalizeEmail(email), exclude)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail
		}
	}

	if name != "" {
		taken, err := r.exists(ctx, "name = ?", name, exclude)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateName
		}
	}

	return nil
}

func (r *Repository) exists(ctx context.Context, where string, arg any, exclude uuid.UUID) (bool, error) {
	q := r.db.NewSelect().
		Model((*database.User)(nil)).
		Where(where, arg)
	if exclude != uuid.Nil {
		q = q.Where("id != ?", exclude)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check user uniqueness: %w", err)
	}

	return count > 0, nil
}

// Update writes every profile column of u. Password and major have their own
// setters.
func (r *Repository) Update(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now().UTC()

	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("name = ?", u.Name).
		Set("email = ?", u.Email).
		Set("phone_number = ?", u.PhoneNumber).
		Set("gender = ?", nullableString(u.Gender)).
		Set("description = ?", u.Description).
		Set("work_experience = ?", u.WorkExperience).
		Set("academic_level = ?", nullableString(u.AcademicLevel)).
		Set("picture_url = ?", u.PictureURL).
		Set("major_id = ?", u.MajorID).
		Set("updated_at = ?", u.UpdatedAt).
		Where("id = ?", u.ID).
		Exec(ctx)

	if err != nil {
		if dupErr := duplicateError(err); dupErr != nil {
			return dupErr
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return checkAffected(result)
}

// UpdatePassword updates a user's password hash
func (r *Repository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.set(ctx, userID, "password_hash", passwordHash)
}

// SetMajor points the user at a new major.
func (r *Repository) SetMajor(ctx context.Context, userID uuid.UUID, majorID int64) error {
	return r.set(ctx, userID, "major_id", majorID)
}

// SetPicture stores the public URL of the user's picture.
func (r *Repository) SetPicture(ctx context.Context, userID uuid.UUID, url string) error {
	return r.set(ctx, userID, "picture_url", url)
}

func (r *Repository) set(ctx context.Context, userID uuid.UUID, column string, value any) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("? = ?", bun.Ident(column), value).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}

	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func duplicateError(err error) error {
	detail, ok := database.IsUniqueViolation(err)
	if !ok {
		return nil
	}
	if strings.Contains(detail, "name") && !strings.Contains(detail, "email") {
		return ErrDuplicateName
	}
	return ErrDuplicateEmail
}

func nullableString[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	u := &User{
		ID:             dbu.ID,
		Name:           dbu.Name,
		Email:          dbu.Email,
		PasswordHash:   dbu.PasswordHash,
		PhoneNumber:    dbu.PhoneNumber,
		Description:    dbu.Description,
		WorkExperience: dbu.WorkExperience,
		PictureURL:     dbu.PictureURL,
		MajorID:        dbu.MajorID,
		CreatedAt:      dbu.CreatedAt,
		UpdatedAt:      dbu.UpdatedAt,
	}
	if dbu.Gender != nil {
		g := Gender(*dbu.Gender)
		u.Gender = &g
	}
	if dbu.AcademicLevel != nil {
		a := AcademicLevel(*dbu.AcademicLevel)
		u.AcademicLevel = &a
	}
	return u
}

func mapModelToDBUser(u *User) *database.User {
	return &database.User{
		ID:             u.ID,
		Name:           u.Name,
		Email:          NormalizeEmail(u.Email),
		PasswordHash:   u.PasswordHash,
		PhoneNumber:    u.PhoneNumber,
		Gender:         nullableString(u.Gender),
		Description:    u.Description,
		WorkExperience: u.WorkExperience,
		AcademicLevel:  nullableString(u.AcademicLevel),
		PictureURL:     u.PictureURL,
		MajorID:        u.MajorID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
