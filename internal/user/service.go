package user

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/hirely-app/hirely-api/internal/skill"
	"github.com/hirely-app/hirely-api/internal/storage"
)

const MaxPictureBytes = 5 << 20

var (
	ErrFileTooLarge         = errors.New("file exceeds 5 MiB")
	ErrUnsupportedMediaType = errors.New("file must be a JPEG, PNG, GIF or WebP image")
	ErrUploadFailed         = errors.New("failed to upload picture")
)

var pictureExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UserStore is the slice of Repository the service depends on.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindConflict(ctx context.Context, email, name string, exclude uuid.UUID) error
	Update(ctx context.Context, u *User) error
	SetMajor(ctx context.Context, userID uuid.UUID, majorID int64) error
	SetPicture(ctx context.Context, userID uuid.UUID, url string) error
}

type MajorLister interface {
	List(ctx context.Context) ([]Major, error)
}

// Stores groups repositories bound to one transaction.
type Stores struct {
	Users  UserStore
	Majors MajorFinder
	Skills SkillClearer
}

func (s Stores) guard() GuardStores {
	return GuardStores{Majors: s.Majors, Skills: s.Skills}
}

type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

// BunUnitOfWork implements UnitOfWork over bun.DB.RunInTx.
type BunUnitOfWork struct {
	db *bun.DB
}

func NewBunUnitOfWork(db *bun.DB) *BunUnitOfWork {
	return &BunUnitOfWork{db: db}
}

func (u *BunUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	return u.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, Stores{
			Users:  NewRepository(tx),
			Majors: NewMajorRepository(tx),
			Skills: skill.NewRepository(tx),
		})
	})
}

// MajorChange asks UpdateProfile to move the user to another major, or to
// drop the major when Clear is set.
type MajorChange struct {
	MajorID      int64
	Clear        bool
	ConfirmClear bool
}

type ProfileUpdate struct {
	User    *User
	Warning string
}

// Service handles profile business logic
type Service struct {
	users    UserStore
	majors   MajorLister
	uow      UnitOfWork
	uploader storage.Uploader
}

func NewService(users UserStore, majors MajorLister, uow UnitOfWork, uploader storage.Uploader) *Service {
	return &Service{
		users:    users,
		majors:   majors,
		uow:      uow,
		uploader: uploader,
	}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) ListMajors(ctx context.Context) ([]Major, error) {
	return s.majors.List(ctx)
}

// UpdateMajor runs the major guard and persists the new major in one
// transaction.
func (s *Service) UpdateMajor(ctx context.Context, userID uuid.UUID, majorID int64, confirmClear bool) (*MajorUpdate, error) {
	var update *MajorUpdate

	err := s.uow.Do(ctx, func(ctx context.Context, stores Stores) error {
		u, err := stores.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		update, err = ApplyMajorUpdate(ctx, stores.guard(), u, majorID, confirmClear)
		if err != nil {
			return err
		}
		if !update.Changed {
			return nil
		}

		return stores.Users.SetMajor(ctx, u.ID, majorID)
	})
	if err != nil {
		return nil, err
	}

	return update, nil
}

// UpdateProfile merges patch into the profile and, when change is set, moves
// the user to another major. Everything commits together, so a failure after
// the guard has cleared skills rolls the deletion back.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, patch Patch, change *MajorChange) (*ProfileUpdate, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	result := &ProfileUpdate{}

	err := s.uow.Do(ctx, func(ctx context.Context, stores Stores) error {
		u, err := stores.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if change != nil {
			var update *MajorUpdate
			if change.Clear {
				update, err = ClearMajor(ctx, stores.guard(), u, change.ConfirmClear)
			} else {
				update, err = ApplyMajorUpdate(ctx, stores.guard(), u, change.MajorID, change.ConfirmClear)
			}
			if err != nil {
				return err
			}
			result.Warning = update.Warning
		}

		email, name := patch.changesIdentity(u)
		if err := stores.Users.FindConflict(ctx, email, name, u.ID); err != nil {
			return err
		}

		patch.Apply(u)
		if err := stores.Users.Update(ctx, u); err != nil {
			return err
		}

		result.User = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UploadPicture stores an image with the image host under a fresh key and
// records its public URL on the profile.
func (s *Service) UploadPicture(ctx context.Context, userID uuid.UUID, body io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxPictureBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read picture: %w", err)
	}
	if len(data) > MaxPictureBytes {
		return "", ErrFileTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := pictureExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedMediaType
	}

	key := fmt.Sprintf("users/%s/%s%s", userID, uuid.NewString(), ext)
	url, err := s.uploader.Upload(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	if err := s.users.SetPicture(ctx, userID, url); err != nil {
		return "", err
	}

	return url, nil
}
