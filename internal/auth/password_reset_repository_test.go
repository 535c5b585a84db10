package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirely-app/hirely-api/internal/database/dbtest"
)

func TestPasswordResetRepositoryLatest(t *testing.T) {
	repo := NewPasswordResetRepository(dbtest.New(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err := repo.Latest(ctx, "ana@example.com")
	assert.ErrorIs(t, err, errNoResetRecord)

	first, err := repo.Create(ctx, "ana@example.com", "11111", base)
	require.NoError(t, err)
	assert.True(t, first.ExpiresAt.Equal(base.Add(ResetCodeTTL)))

	_, err = repo.Create(ctx, "ana@example.com", "22222", base.Add(time.Minute))
	require.NoError(t, err)
	_, err = repo.Create(ctx, "bob@example.com", "33333", base.Add(2*time.Minute))
	require.NoError(t, err)

	latest, err := repo.Latest(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "22222", latest.Token)
	assert.True(t, latest.CreatedAt.Equal(base.Add(time.Minute)))
	assert.True(t, latest.ExpiresAt.Equal(base.Add(time.Minute+ResetCodeTTL)))
}

func TestPasswordResetRepositoryDeleteAllForEmail(t *testing.T) {
	repo := NewPasswordResetRepository(dbtest.New(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, "ana@example.com", strconv.Itoa(10000+i), now.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, "bob@example.com", "44444", now)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteAllForEmail(ctx, "ana@example.com"))

	_, err = repo.Latest(ctx, "ana@example.com")
	assert.ErrorIs(t, err, errNoResetRecord)

	other, err := repo.Latest(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "44444", other.Token)
}

func TestPasswordResetRepositoryDeleteExpired(t *testing.T) {
	repo := NewPasswordResetRepository(dbtest.New(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, "old@example.com", "11111", now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = repo.Create(ctx, "new@example.com", "22222", now.Add(-time.Minute))
	require.NoError(t, err)

	deleted, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = repo.Latest(ctx, "old@example.com")
	assert.ErrorIs(t, err, errNoResetRecord)
	_, err = repo.Latest(ctx, "new@example.com")
	assert.NoError(t, err)
}

func TestPasswordResetExpiredBoundary(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	record := &PasswordReset{CreatedAt: created, ExpiresAt: created.Add(ResetCodeTTL)}

	assert.False(t, record.Expired(created))
	assert.False(t, record.Expired(created.Add(ResetCodeTTL)))
	assert.True(t, record.Expired(created.Add(ResetCodeTTL+time.Nanosecond)))
}

func TestGenerateResetCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateResetCode()
		require.NoError(t, err)
		require.Len(t, code, 5)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, resetCodeMin)
		assert.LessOrEqual(t, n, resetCodeMax)
	}
}
