package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/billbook/backend/internal/infrastructure/auth"
	"github.com/billbook/backend/internal/infrastructure/config"
	"github.com/billbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	})
}

func newTestTokenPair(t *testing.T, jwtService *auth.JWTService) (*auth.TokenPair, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(userID, "owner@example.com")
	require.NoError(t, err)
	return pair, userID
}

func newProtectedRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/api/v1/invoices", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func doRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

// ============ JWTAuthMiddleware Tests ============

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair, userID := newTestTokenPair(t, jwtService)

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "owner@example.com", claims.Email)
		assert.Equal(t, userID.String(), GetJWTUserID(c))
		c.Status(http.StatusOK)
	})

	rec := doRequest(router, http.MethodGet, "/test", "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := newTestTokenPair(t, jwtService)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeTokenInvalid},
		{"wrong scheme", "Basic abc", dto.ErrCodeTokenInvalid},
		{"empty token", "Bearer ", dto.ErrCodeTokenInvalid},
		{"garbage token", "Bearer not.a.jwt", dto.ErrCodeTokenInvalid},
		{"refresh token as access", "Bearer " + pair.RefreshToken, dto.ErrCodeTokenInvalid},
	}

	router := newProtectedRouter(DefaultJWTConfig(jwtService))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodGet, "/api/v1/invoices", tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test-issuer",
	})
	pair, _ := newTestTokenPair(t, jwtService)

	rec := doRequest(newProtectedRouter(DefaultJWTConfig(jwtService)), http.MethodGet, "/api/v1/invoices", "Bearer "+pair.AccessToken)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenExpired, errorCode(t, rec))
}

func TestJWTAuthMiddleware_PublicPaths(t *testing.T) {
	router := newProtectedRouter(DefaultJWTConfig(newTestJWTService()))

	rec := doRequest(router, http.MethodPost, "/api/v1/auth/login", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_SkipPathPrefixes(t *testing.T) {
	cfg := DefaultJWTConfig(newTestJWTService())
	cfg.SkipPathPrefixes = []string{"/api/v1/inv"}

	rec := doRequest(newProtectedRouter(cfg), http.MethodGet, "/api/v1/invoices", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_BlacklistedToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := newTestTokenPair(t, jwtService)
	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	blacklist := auth.NewInMemoryTokenBlacklist()
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

	cfg := DefaultJWTConfig(jwtService)
	cfg.TokenBlacklist = blacklist
	rec := doRequest(newProtectedRouter(cfg), http.MethodGet, "/api/v1/invoices", "Bearer "+pair.AccessToken)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, rec))
}

func TestJWTAuthMiddleware_UserTokensInvalidated(t *testing.T) {
	jwtService := newTestJWTService()
	pair, userID := newTestTokenPair(t, jwtService)

	// the cut-off has second precision, so move past the token's iat
	time.Sleep(1100 * time.Millisecond)
	blacklist := auth.NewInMemoryTokenBlacklist()
	require.NoError(t, blacklist.AddUserTokensToBlacklist(context.Background(), userID.String(), time.Hour))

	cfg := DefaultJWTConfig(jwtService)
	cfg.TokenBlacklist = blacklist
	rec := doRequest(newProtectedRouter(cfg), http.MethodGet, "/api/v1/invoices", "Bearer "+pair.AccessToken)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, rec))
}

func TestJWTAuthMiddleware_CustomOnError(t *testing.T) {
	var got error
	cfg := DefaultJWTConfig(newTestJWTService())
	cfg.OnError = func(c *gin.Context, err error) {
		got = err
		c.AbortWithStatus(http.StatusTeapot)
	}

	rec := doRequest(newProtectedRouter(cfg), http.MethodGet, "/api/v1/invoices", "")

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.ErrorIs(t, got, auth.ErrInvalidToken)
}

// ============ Context Helper Tests ============

func TestGetJWTClaims_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
}

func TestGetJWTUserID_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetJWTUserID(c))
}
