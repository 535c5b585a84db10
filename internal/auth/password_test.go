package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hirely-app/hirely-api/internal/config"
)

func testHasher(t *testing.T, algorithm string) *Hasher {
	t.Helper()

	h, err := NewHasher(config.AuthConfig{HashAlgorithm: algorithm, BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	return h
}

func TestHasherBcrypt(t *testing.T) {
	h := testHasher(t, config.HashBcrypt)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.True(t, h.Verify(hash, "correct horse"))
	assert.False(t, h.Verify(hash, "correct horsE"))
}

func TestHasherArgon2id(t *testing.T) {
	h := testHasher(t, config.HashArgon2id)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, argon2Prefix))

	assert.True(t, h.Verify(hash, "correct horse"))
	assert.False(t, h.Verify(hash, "wrong horse"))
}

func TestHasherVerifiesEitherScheme(t *testing.T) {
	bcryptHasher := testHasher(t, config.HashBcrypt)
	argonHasher := testHasher(t, config.HashArgon2id)

	bcryptHash, err := bcryptHasher.Hash("password123")
	require.NoError(t, err)
	argonHash, err := argonHasher.Hash("password123")
	require.NoError(t, err)

	assert.True(t, argonHasher.Verify(bcryptHash, "password123"))
	assert.True(t, bcryptHasher.Verify(argonHash, "password123"))
}

func TestHasherSaltsEachHash(t *testing.T) {
	h := testHasher(t, config.HashArgon2id)

	first, err := h.Hash("password123")
	require.NoError(t, err)
	second, err := h.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHasherBcryptTooLong(t *testing.T) {
	h := testHasher(t, config.HashBcrypt)

	_, err := h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestHasherRejectsMalformedHash(t *testing.T) {
	h := testHasher(t, config.HashBcrypt)

	assert.False(t, h.Verify("", "password123"))
	assert.False(t, h.Verify("$argon2id$v=19$broken", "password123"))
}

func TestNewHasherRejectsUnknownAlgorithm(t *testing.T) {
	_, err := NewHasher(config.AuthConfig{HashAlgorithm: "md5"})
	assert.Error(t, err)
}

func TestValidateNewPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		want     error
	}{
		{name: "valid", password: "password", confirm: "password"},
		{name: "seven bytes", password: "passwor", confirm: "passwor", want: ErrPasswordTooShort},
		{name: "empty", password: "", confirm: "", want: ErrPasswordTooShort},
		{name: "mismatch", password: "password1", confirm: "password2", want: ErrPasswordMismatch},
		{name: "case differs", password: "Password", confirm: "password", want: ErrPasswordMismatch},
		{name: "short wins over mismatch", password: "short", confirm: "other", want: ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNewPassword(tt.password, tt.confirm)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, validateEmail("ana@example.com"))
	assert.ErrorIs(t, validateEmail(""), ErrInvalidEmailFormat)
	assert.ErrorIs(t, validateEmail("not-an-email"), ErrInvalidEmailFormat)
	assert.ErrorIs(t, validateEmail("Ana <ana@example.com>"), ErrInvalidEmailFormat)
}
