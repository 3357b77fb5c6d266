package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-key-for-unit-tests"

func newTestTokenService(t *testing.T, secret string, expiry time.Duration, issuer string) *JWTTokenService {
	t.Helper()
	svc, err := NewJWTTokenService(secret, expiry, issuer)
	require.NoError(t, err)
	return svc
}

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := newTestTokenService(t, testJWTSecret, 168*time.Hour, "globalupi")
	accountID := uuid.New()

	tokenStr, expiresAt, err := svc.Generate(accountID, "ravi@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenStr)
	assert.WithinDuration(t, time.Now().Add(168*time.Hour), expiresAt, 5*time.Second)

	session, err := svc.Validate(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, accountID, session.AccountID)
	assert.Equal(t, "ravi@example.com", session.Email)
}

func TestJWTTokenService_ClaimLayout(t *testing.T) {
	svc := newTestTokenService(t, testJWTSecret, time.Hour, "globalupi")
	accountID := uuid.New()

	tokenStr, _, err := svc.Generate(accountID, "a@b.co")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tokenStr, claims)
	require.NoError(t, err)
	assert.Equal(t, accountID.String(), claims["sub"])
	assert.Equal(t, "a@b.co", claims["email"])
	assert.Equal(t, "globalupi", claims["iss"])
	assert.Contains(t, claims, "iat")
	assert.Contains(t, claims, "exp")
}

func TestJWTTokenService_EmptySecret(t *testing.T) {
	_, err := NewJWTTokenService("", time.Hour, "globalupi")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)
}

func TestJWTTokenService_ExpiredToken(t *testing.T) {
	svc := newTestTokenService(t, testJWTSecret, time.Hour, "globalupi")

	tokenStr, _, err := svc.Generate(uuid.New(), "a@b.co")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Validate(tokenStr)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTTokenService_InvalidSignature(t *testing.T) {
	svc1 := newTestTokenService(t, "secret-1", time.Hour, "globalupi")
	svc2 := newTestTokenService(t, "secret-2", time.Hour, "globalupi")

	tokenStr, _, err := svc1.Generate(uuid.New(), "a@b.co")
	require.NoError(t, err)

	_, err = svc2.Validate(tokenStr)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestJWTTokenService_WrongIssuer(t *testing.T) {
	other := newTestTokenService(t, testJWTSecret, time.Hour, "someone-else")
	svc := newTestTokenService(t, testJWTSecret, time.Hour, "globalupi")

	tokenStr, _, err := other.Generate(uuid.New(), "a@b.co")
	require.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestJWTTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestTokenService(t, testJWTSecret, time.Hour, "globalupi")

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Issuer:    "globalupi",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tokenStr, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.Error(t, err)
}

func TestJWTTokenService_BadSubject(t *testing.T) {
	svc := newTestTokenService(t, testJWTSecret, time.Hour, "globalupi")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		Issuer:    "globalupi",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tokenStr, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.ErrorContains(t, err, "invalid account ID")
}

func TestJWTTokenService_Garbage(t *testing.T) {
	svc := newTestTokenService(t, testJWTSecret, time.Hour, "globalupi")

	for _, in := range []string{"", "not.a.valid.jwt", "Bearer x"} {
		_, err := svc.Validate(in)
		assert.Error(t, err, "input %q", in)
	}
}
