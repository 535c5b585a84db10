package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/hirely-app/hirely-api/internal/logging"
	"github.com/hirely-app/hirely-api/internal/user"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrInvalidTokenPayload = errors.New("token payload is missing a valid user id")

	ErrResetTokenNotFound = errors.New("no password reset was requested for this email")
	ErrResetTokenMismatch = errors.New("reset code does not match")
	ErrResetTokenExpired  = errors.New("reset code has expired")
)

// UserStore is the slice of user.Repository the auth flows need.
type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	FindConflict(ctx context.Context, email, name string, exclude uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

type MajorFinder interface {
	GetByID(ctx context.Context, id int64) (*user.Major, error)
}

type ResetStore interface {
	Create(ctx context.Context, email, token string, createdAt time.Time) (*PasswordReset, error)
	Latest(ctx context.Context, email string) (*PasswordReset, error)
	DeleteAllForEmail(ctx context.Context, email string) error
}

// Stores groups repositories bound to one transaction.
type Stores struct {
	Users  UserStore
	Resets ResetStore
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
			Users:  user.NewRepository(tx),
			Resets: NewPasswordResetRepository(tx),
		})
	})
}

// EmailService defines the interface for email operations
type EmailService interface {
	SendPasswordResetCode(ctx context.Context, toEmail, code string, validForMinutes int) error
}

// AuthTokens is returned by a successful login
type AuthTokens struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	PhoneNumber     string
	Gender          *user.Gender
	Description     *string
	WorkExperience  int
	AcademicLevel   *user.AcademicLevel
	PictureURL      *string
	MajorID         *int64
	TermsAccepted   bool
}

type ResetInput struct {
	Email           string
	Token           string
	NewPassword     string
	ConfirmPassword string
}

// Service handles authentication business logic
type Service struct {
	users               UserStore
	majors              MajorFinder
	resets              ResetStore
	uow                 UnitOfWork
	tokens              TokenService
	hasher              PasswordHasher
	emailService        EmailService
	logger              *logging.Logger
	accessTokenDuration time.Duration
	now                 func() time.Time
}

type ServiceDeps struct {
	Users               UserStore
	Majors              MajorFinder
	Resets              ResetStore
	UnitOfWork          UnitOfWork
	Tokens              TokenService
	Hasher              PasswordHasher
	Email               EmailService
	Logger              *logging.Logger
	AccessTokenDuration time.Duration
}

func NewService(deps ServiceDeps) *Service {
	return &Service{
		users:               deps.Users,
		majors:              deps.Majors,
		resets:              deps.Resets,
		uow:                 deps.UnitOfWork,
		tokens:              deps.Tokens,
		hasher:              deps.Hasher,
		emailService:        deps.Email,
		logger:              deps.Logger,
		accessTokenDuration: deps.AccessTokenDuration,
		now:                 time.Now,
	}
}

// Register validates the request in a fixed order (terms, email, password,
// enums, uniqueness, major) and creates the account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	if !in.TermsAccepted {
		return nil, ErrTermsNotAccepted
	}
	email := user.NormalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateNewPassword(in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &user.FieldError{Field: "name", Message: "must not be empty"}
	}
	if in.Gender != nil && !in.Gender.Valid() {
		return nil, &user.FieldError{Field: "gender", Message: "must be one of Male, Female, Other"}
	}
	if in.AcademicLevel != nil && !in.AcademicLevel.Valid() {
		return nil, &user.FieldError{Field: "academic_level", Message: "is not a known academic level"}
	}
	if in.WorkExperience < 0 {
		return nil, &user.FieldError{Field: "work_experience", Message: "must not be negative"}
	}

	if err := s.users.FindConflict(ctx, email, name, uuid.Nil); err != nil {
		return nil, err
	}

	if in.MajorID != nil {
		if _, err := s.majors.GetByID(ctx, *in.MajorID); err != nil {
			return nil, err
		}
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := &user.User{
		Name:           name,
		Email:          email,
		PasswordHash:   passwordHash,
		PhoneNumber:    in.PhoneNumber,
		Gender:         in.Gender,
		Description:    in.Description,
		WorkExperience: in.WorkExperience,
		AcademicLevel:  in.AcademicLevel,
		PictureURL:     in.PictureURL,
		MajorID:        in.MajorID,
	}
	if err := s.users.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) || errors.Is(err, user.ErrDuplicateName) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// Login authenticates a user and returns an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthTokens, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existingUser, err := s.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.CreateToken(existingUser.ID, existingUser.Email, s.accessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &AuthTokens{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.accessTokenDuration.Seconds()),
	}, nil
}

// ResolveCurrentUser turns a bearer token into the stored user. Failures are
// ErrInvalidToken/ErrExpiredToken for the token itself, ErrInvalidTokenPayload
// for a token without a usable user id, and user.ErrNotFound for an id that
// no longer exists.
func (s *Service) ResolveCurrentUser(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidTokenPayload
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return u, nil
}

// RequestPasswordReset initiates the password reset process
// Always returns nil to prevent email enumeration attacks
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	// Get user by email
	existingUser, err := s.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		// Don't reveal if user exists
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		// Log error but return nil to prevent enumeration
		s.logger.Warn("failed to get user for password reset", "error", err)
		return nil
	}

	code, err := generateResetCode()
	if err != nil {
		s.logger.Warn("failed to generate password reset code", "error", err)
		return nil
	}

	if _, err := s.resets.Create(ctx, existingUser.Email, code, s.now()); err != nil {
		s.logger.Warn("failed to store password reset code", "error", err)
		return nil
	}

	// Send password reset email in goroutine (non-blocking)
	go func() {
		emailCtx := logging.WithLogger(context.Background(), s.logger)
		if err := s.emailService.SendPasswordResetCode(emailCtx, existingUser.Email, code, int(ResetCodeTTL.Minutes())); err != nil {
			s.logger.Warn("failed to send password reset email", "email", existingUser.Email, "error", err)
		}
	}()

	return nil
}

// VerifyResetToken checks a code against the newest record for email without
// consuming it.
func (s *Service) VerifyResetToken(ctx context.Context, email, token string) error {
	_, err := s.checkResetToken(ctx, s.resets, user.NormalizeEmail(email), token)
	return err
}

// InvalidateResetCodes deletes every outstanding code for email, so a new
// one has to be requested.
func (s *Service) InvalidateResetCodes(ctx context.Context, email string) error {
	return s.resets.DeleteAllForEmail(ctx, user.NormalizeEmail(email))
}

// ResetPassword applies the password policy, then re-checks the code, stores
// the new hash and deletes every outstanding code for the email in one
// transaction.
func (s *Service) ResetPassword(ctx context.Context, in ResetInput) error {
	if err := ValidateNewPassword(in.NewPassword, in.ConfirmPassword); err != nil {
		return err
	}

	email := user.NormalizeEmail(in.Email)

	return s.uow.Do(ctx, func(ctx context.Context, stores Stores) error {
		if _, err := s.checkResetToken(ctx, stores.Resets, email, in.Token); err != nil {
			return err
		}

		existingUser, err := stores.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}

		passwordHash, err := s.hasher.Hash(in.NewPassword)
		if err != nil {
			if errors.Is(err, ErrPasswordTooLong) {
				return err
			}
			return fmt.Errorf("failed to hash password: %w", err)
		}

		if err := stores.Users.UpdatePassword(ctx, existingUser.ID, passwordHash); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		return stores.Resets.DeleteAllForEmail(ctx, email)
	})
}

// checkResetToken runs the existence, match and expiry checks in that order.
func (s *Service) checkResetToken(ctx context.Context, resets ResetStore, email, token string) (*PasswordReset, error) {
	record, err := resets.Latest(ctx, email)
	if err != nil {
		if errors.Is(err, errNoResetRecord) {
			return nil, ErrResetTokenNotFound
		}
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(record.Token), []byte(token)) != 1 {
		return nil, ErrResetTokenMismatch
	}

	if record.Expired(s.now()) {
		return nil, ErrResetTokenExpired
	}

	return record, nil
}
