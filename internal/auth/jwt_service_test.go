package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_RoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := service.GenerateToken(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken(uuid.New())
	assert.NoError(t, err)

	claims, err := NewJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	secret := "test-secret"
	claims := &Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)

	parsed, err := NewJWTService(secret).ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, parsed)
}

func TestJWTService_RejectsUnexpectedSigningMethod(t *testing.T) {
	// alg=none tokens must never validate.
	claims := &Claims{UserID: uuid.New()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	parsed, err := NewJWTService("test-secret").ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, parsed)
}

func TestJWTService_MalformedToken(t *testing.T) {
	parsed, err := NewJWTService("test-secret").ValidateToken("not-a-jwt")
	assert.Error(t, err)
	assert.Nil(t, parsed)
}
