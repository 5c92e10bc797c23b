package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/pathfinder-backend/internal/config"
)

func newTestAuth() *AuthService {
	return NewAuthService(&config.Config{
		JWTSecret: "test-secret",
		JWTIssuer: "pathfinder",
		JWTExpiry: time.Hour,
	})
}

func TestAuthService_RoundTrip(t *testing.T) {
	auth := newTestAuth()
	userID := uuid.New()

	token, err := auth.GenerateToken(userID, RoleAdmin, 0)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestAuthService_RejectsUnknownRole(t *testing.T) {
	_, err := newTestAuth().GenerateToken(uuid.New(), Role("root"), 0)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAuthService_RejectsForeignSecret(t *testing.T) {
	other := NewAuthService(&config.Config{JWTSecret: "other", JWTIssuer: "pathfinder", JWTExpiry: time.Hour})
	token, err := other.GenerateToken(uuid.New(), RoleUser, 0)
	require.NoError(t, err)

	_, err = newTestAuth().ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RejectsExpired(t *testing.T) {
	auth := newTestAuth()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "pathfinder",
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Role: RoleUser,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RejectsNonUUIDSubject(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "pathfinder",
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Role: RoleUser,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = newTestAuth().ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
