package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	appidentity "github.com/billbook/backend/internal/application/identity"
	"github.com/billbook/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============ Register Tests ============

func TestAuthHandler_Register(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":      "asha@example.com",
		"first_name": "Asha",
		"mobile":     "+91 98765 43210",
		"password":   "secret123",
		"password2":  "secret123",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp appidentity.AuthResponse
	decodeData(t, w, &resp)
	assert.Equal(t, "asha@example.com", resp.User.Email)
	assert.Equal(t, "9876543210", resp.User.Mobile)
	assert.NotEmpty(t, resp.Tokens.Access)
	assert.NotEmpty(t, resp.Tokens.Refresh)
}

func TestAuthHandler_Register_Rejections(t *testing.T) {
	valid := func() map[string]string {
		return map[string]string{
			"email":      "asha@example.com",
			"first_name": "Asha",
			"mobile":     "9876543210",
			"password":   "secret123",
			"password2":  "secret123",
		}
	}

	tests := []struct {
		name       string
		mutate     func(map[string]string)
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{
			name:       "missing email",
			mutate:     func(b map[string]string) { delete(b, "email") },
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
			wantField:  "email",
		},
		{
			name:       "bad mobile",
			mutate:     func(b map[string]string) { b["mobile"] = "12345" },
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
			wantField:  "mobile",
		},
		{
			name:       "password mismatch",
			mutate:     func(b map[string]string) { b["password2"] = "secret124" },
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
			wantField:  "password",
		},
		{
			name:       "duplicate email",
			mutate:     func(b map[string]string) {},
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.wantStatus == http.StatusConflict {
				env.register(t, "asha@example.com")
			}
			body := valid()
			tt.mutate(body)

			w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", body)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			errInfo := decodeError(t, w)
			assert.Equal(t, tt.wantCode, errInfo.Code)
			if tt.wantField != "" {
				require.NotEmpty(t, errInfo.Details)
				assert.Equal(t, tt.wantField, errInfo.Details[0].Field)
			}
		})
	}
}

// ============ Login / Me Tests ============

func TestAuthHandler_LoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")

	t.Run("wrong password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "asha@example.com", "password": "wrong-pass1",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidCredentials, decodeError(t, w).Code)
	})

	t.Run("login then me", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "asha@example.com", "password": "secret123",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var login appidentity.AuthResponse
		decodeData(t, w, &login)

		w = env.do(t, http.MethodGet, "/api/v1/auth/me", login.Tokens.Access, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var me appidentity.UserResponse
		decodeData(t, w, &me)
		assert.Equal(t, login.User.ID, me.ID)
		assert.Equal(t, "Asha", me.FirstName)
	})

	t.Run("me without token", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// ============ Refresh / Logout Tests ============

func TestAuthHandler_RefreshAndLogout(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "asha@example.com", "first_name": "Asha", "mobile": "9876543210",
		"password": "secret123", "password2": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var reg appidentity.AuthResponse
	decodeData(t, w, &reg)

	w = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh": reg.Tokens.Refresh})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rotated appidentity.TokenResponse
	decodeData(t, w, &rotated)
	assert.NotEmpty(t, rotated.Access)

	w = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh": rotated.Access})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "access token is not a refresh token")

	w = env.do(t, http.MethodPost, "/api/v1/auth/logout", rotated.Access, map[string]string{"refresh": rotated.Refresh})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/auth/me", rotated.Access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, w).Code)

	w = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh": rotated.Refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ============ Password Reset Tests ============

func TestAuthHandler_PasswordReset(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")

	t.Run("unknown email gets the same answer", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/otp/request", "", map[string]string{"email": "nobody@example.com"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, env.mailer.sent)
	})

	t.Run("wrong code", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/otp/request", "", map[string]string{"email": "asha@example.com"})
		require.Equal(t, http.StatusOK, w.Code)
		code := env.mailer.lastCode(t)
		wrong := "000000"
		if code == wrong {
			wrong = "111111"
		}

		w = env.do(t, http.MethodPost, "/api/v1/auth/otp/verify", "", map[string]string{
			"email": "asha@example.com", "otp": wrong,
			"new_password": "newsecret1", "confirm_password": "newsecret1",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeOTPInvalid, decodeError(t, w).Code)
	})

	t.Run("reset and sign in with new password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/otp/request", "", map[string]string{"email": "asha@example.com"})
		require.Equal(t, http.StatusOK, w.Code)
		code := env.mailer.lastCode(t)

		w = env.do(t, http.MethodPost, "/api/v1/auth/otp/verify", "", map[string]string{
			"email": "asha@example.com", "otp": code,
			"new_password": "newsecret1", "confirm_password": "newsecret1",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "asha@example.com", "password": "newsecret1",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodPost, "/api/v1/auth/otp/verify", "", map[string]string{
			"email": "asha@example.com", "otp": code,
			"new_password": "another12", "confirm_password": "another12",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "a code works once")
	})
}

func TestAuthHandler_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email": `)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
}
