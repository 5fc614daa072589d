package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realty/backend/internal/infrastructure/config"
)

func testJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests-only",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "realty-test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := testJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID: userID,
		Email:  "agent@example.com",
		Role:   "agent",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "agent@example.com", claims.Email)
	assert.Equal(t, "agent", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)

	// tokens are not interchangeable across types
	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	refreshClaims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refreshClaims.Role)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	svc := testJWTService()
	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New(), Email: "a@b.com", Role: "client"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWTService(config.JWTConfig{
		Secret:                 "a-different-secret-entirely-here",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "realty-test",
	})
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests-only",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "realty-test",
	})
	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New(), Email: "a@b.com", Role: "client"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRefreshTokenChecksTokenType(t *testing.T) {
	svc := testJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: userID, Email: "a@b.com", Role: "agent"})
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.NotEmpty(t, claims.ID)

	// an access token must not pass as a refresh token, and vice versa
	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}
