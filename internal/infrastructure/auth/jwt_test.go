package auth

import (
	"testing"
	"time"

	"github.com/billbook/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	})
}

// sharedSecretService signs both token types with one key so type checks,
// not signatures, reject a swapped token
func sharedSecretService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	})
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                 "test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	}

	svc := NewJWTService(cfg)

	assert.Equal(t, []byte(cfg.Secret), svc.accessSecret)
	assert.Equal(t, []byte(cfg.Secret), svc.refreshSecret, "refresh secret falls back to the access secret")
	assert.Equal(t, cfg.AccessTokenExpiration, svc.GetAccessTokenExpiration())
	assert.Equal(t, cfg.RefreshTokenExpiration, svc.GetRefreshTokenExpiration())
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(uuid.New(), "asha@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.AccessTokenExpiresAt.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(userID, "asha@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)

	got, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Greater(t, claims.GetRemainingTTL(), 14*time.Minute)
	assert.False(t, claims.GetIssuedAtTime().IsZero())
}

func TestValidateAccessToken_Errors(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(uuid.New(), "asha@example.com")
	require.NoError(t, err)

	expired := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  -time.Hour,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test-issuer",
	})
	expiredPair, err := expired.GenerateTokenPair(uuid.New(), "")
	require.NoError(t, err)

	otherSecret := NewJWTService(config.JWTConfig{
		Secret:                 "different-secret-key-32-chars!",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test-issuer",
	})

	otherIssuer := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "someone-else",
	})

	tests := []struct {
		name  string
		svc   *JWTService
		token string
		want  error
	}{
		{"garbage", svc, "invalid-token", ErrInvalidToken},
		{"expired", expired, expiredPair.AccessToken, ErrExpiredToken},
		{"different secret", otherSecret, pair.AccessToken, ErrInvalidToken},
		{"different issuer", otherIssuer, pair.AccessToken, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateToken_WrongType(t *testing.T) {
	svc := sharedSecretService()
	pair, err := svc.GenerateTokenPair(uuid.New(), "asha@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateRefreshToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(userID, "asha@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Empty(t, claims.Email)
}

func TestValidateToken_MissingUser(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TokenType: TokenTypeAccess,
	}
	token, err := svc.sign(claims, svc.accessSecret)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrMissingUserID)

	claims.UserID = "not-a-uuid"
	token, err = svc.sign(claims, svc.accessSecret)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestGenerateTokenPair_UniqueIDs(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	first, err := svc.GenerateTokenPair(userID, "")
	require.NoError(t, err)
	second, err := svc.GenerateTokenPair(userID, "")
	require.NoError(t, err)

	a, err := svc.ValidateRefreshToken(first.RefreshToken)
	require.NoError(t, err)
	b, err := svc.ValidateRefreshToken(second.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
