package auth

import (
	"strings"
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-entropy"

func TestJWTRoundTrip(t *testing.T) {
	svc, err := NewJWTService(testSecret)
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.CreateToken(userID, "ana@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt, time.Second)
}

func TestJWTExpired(t *testing.T) {
	svc, err := NewJWTService(testSecret)
	require.NoError(t, err)

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	token, err := svc.CreateToken(uuid.New(), "ana@example.com", time.Minute)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTRejectsTamperedAndForeignTokens(t *testing.T) {
	svc, err := NewJWTService(testSecret)
	require.NoError(t, err)

	token, err := svc.CreateToken(uuid.New(), "ana@example.com", time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	other, err := NewJWTService("another-secret")
	require.NoError(t, err)
	foreign, err := other.CreateToken(uuid.New(), "ana@example.com", time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"tampered": tampered,
		"foreign":  foreign,
		"none alg": unsigned,
		"garbage":  "not-a-token",
		"empty":    "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.VerifyToken(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTRequiresExpiry(t *testing.T) {
	svc, err := NewJWTService(testSecret)
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.NewString(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTMissingUserIDVerifies(t *testing.T) {
	svc, err := NewJWTService(testSecret)
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "ana@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.UserID)
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService("")
	assert.Error(t, err)
}

func testPasetoKey() []byte {
	return []byte("0123456789abcdef0123456789abcdef")
}

func TestPasetoRoundTrip(t *testing.T) {
	svc, err := NewPasetoService(testPasetoKey())
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.CreateToken(userID, "ana@example.com", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestPasetoRejectsExpiredAndGarbage(t *testing.T) {
	svc, err := NewPasetoService(testPasetoKey())
	require.NoError(t, err)

	expired, err := svc.CreateToken(uuid.New(), "ana@example.com", -time.Minute)
	require.NoError(t, err)
	_, err = svc.VerifyToken(expired)
	assert.Error(t, err)

	_, err = svc.VerifyToken("v4.local.garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasetoMissingUserIDVerifies(t *testing.T) {
	key, err := paseto.V4SymmetricKeyFromBytes(testPasetoKey())
	require.NoError(t, err)

	token := paseto.NewToken()
	token.SetIssuedAt(time.Now())
	token.SetExpiration(time.Now().Add(time.Hour))
	encrypted := token.V4Encrypt(key, nil)

	svc, err := NewPasetoService(testPasetoKey())
	require.NoError(t, err)

	claims, err := svc.VerifyToken(encrypted)
	require.NoError(t, err)
	assert.Empty(t, claims.UserID)
}

func TestNewPasetoServiceKeyLength(t *testing.T) {
	_, err := NewPasetoService([]byte("short"))
	assert.Error(t, err)
}
