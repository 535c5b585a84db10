package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/uptrace/bun"

	"github.com/hirely-app/hirely-api/internal/database"
	"github.com/hirely-app/hirely-api/internal/user"
)

const (
	resetCodeMin = 10000
	resetCodeMax = 99999

	ResetCodeTTL = 15 * time.Minute
)

var errNoResetRecord = errors.New("no password reset record")

type PasswordReset struct {
	ID        int64
	Email     string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the code is no longer usable at now. A code is
// still valid at exactly ExpiresAt.
func (p *PasswordReset) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// PasswordResetRepository stores reset codes in the password_resets table.
type PasswordResetRepository struct {
	db bun.IDB
}

// NewPasswordResetRepository creates a new password reset repository instance
func NewPasswordResetRepository(db bun.IDB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create stores a code for email, valid for ResetCodeTTL from createdAt.
func (r *PasswordResetRepository) Create(ctx context.Context, email, token string, createdAt time.Time) (*PasswordReset, error) {
	row := &database.PasswordReset{
		Email:     user.NormalizeEmail(email),
		Token:     token,
		CreatedAt: createdAt.UTC(),
		ExpiresAt: createdAt.UTC().Add(ResetCodeTTL),
	}

	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to store password reset token: %w", err)
	}

	return mapDBResetToModel(row), nil
}

// Latest returns the most recently issued code for email.
func (r *PasswordResetRepository) Latest(ctx context.Context, email string) (*PasswordReset, error) {
	row := new(database.PasswordReset)
	err := r.db.NewSelect().
		Model(row).
		Where("email = ?", user.NormalizeEmail(email)).
		OrderExpr("created_at DESC, id DESC").
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNoResetRecord
		}
		return nil, fmt.Errorf("failed to get password reset token: %w", err)
	}

	return mapDBResetToModel(row), nil
}

// DeleteAllForEmail removes every outstanding code for email.
func (r *PasswordResetRepository) DeleteAllForEmail(ctx context.Context, email string) error {
	_, err := r.db.NewDelete().
		Model((*database.PasswordReset)(nil)).
		Where("email = ?", user.NormalizeEmail(email)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete password reset tokens: %w", err)
	}

	return nil
}

// DeleteExpired removes codes that expired before cutoff.
// Should be run periodically (e.g., via cron job)
func (r *PasswordResetRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.NewDelete().
		Model((*database.PasswordReset)(nil)).
		Where("expires_at < ?", cutoff.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired reset tokens: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return deleted, nil
}

// generateResetCode returns a uniformly random 5-digit code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(resetCodeMax-resetCodeMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+resetCodeMin), nil
}

func mapDBResetToModel(row *database.PasswordReset) *PasswordReset {
	return &PasswordReset{
		ID:        row.ID,
		Email:     row.Email,
		Token:     row.Token,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}
}
