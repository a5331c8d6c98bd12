package identity

import (
	"time"

	"github.com/billbook/backend/internal/domain/identity"
	"github.com/billbook/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// RegisterRequest creates an account
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	Mobile    string `json:"mobile" binding:"required,in_mobile"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	Password2 string `json:"password2" binding:"required"`
}

// LoginRequest signs in with email and password
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh" binding:"required"`
}

// LogoutInput identifies the tokens to revoke
type LogoutInput struct {
	UserID       uuid.UUID
	AccessJTI    string        // JWT ID of the presented access token
	AccessTTL    time.Duration // remaining lifetime of the access token
	RefreshToken string        // optional; revoked too when valid
}

// OTPRequest asks for a password reset code
type OTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest verifies a reset code and sets a new password
type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	OTP             string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	Mobile    string    `json:"mobile"`
}

// ToUserResponse converts a domain User
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, FirstName: u.FirstName, Mobile: u.Mobile}
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	Access           string    `json:"access"`
	Refresh          string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	TokenType        string    `json:"token_type"`
}

func toTokenResponse(p *auth.TokenPair) TokenResponse {
	return TokenResponse{
		Access:           p.AccessToken,
		Refresh:          p.RefreshToken,
		AccessExpiresAt:  p.AccessTokenExpiresAt,
		RefreshExpiresAt: p.RefreshTokenExpiresAt,
		TokenType:        p.TokenType,
	}
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}
