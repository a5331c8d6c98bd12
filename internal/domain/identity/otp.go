package identity

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
)

const (
	// OTPLength is the number of digits in a password reset code
	OTPLength = 6
	// OTPTTL is how long a code stays valid after it is issued
	OTPTTL = 10 * time.Minute
)

var (
	ErrOTPExpired  = shared.NewDomainError("OTP_EXPIRED", "OTP has expired")
	ErrOTPInvalid  = shared.NewDomainError("OTP_INVALID", "Invalid OTP")
	ErrOTPConsumed = shared.NewDomainError("OTP_ALREADY_USED", "OTP has already been used")
)

// PasswordResetOTP is a one-time code mailed to a user who forgot the password
type PasswordResetOTP struct {
	shared.BaseEntity
	Email      string
	Code       string
	ExpiresAt  time.Time
	IsVerified bool
}

// NewPasswordResetOTP issues a fresh random code for email
func NewPasswordResetOTP(email string, now time.Time) (*PasswordResetOTP, error) {
	code, err := generateOTPCode()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	otp := &PasswordResetOTP{
		BaseEntity: shared.NewBaseEntity(),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Code:       code,
		ExpiresAt:  now.Add(OTPTTL),
	}
	otp.CreatedAt = now
	otp.UpdatedAt = now
	return otp, nil
}

// IsExpired reports whether the code can no longer be used at now
func (o *PasswordResetOTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// Verify checks code and marks the OTP used
func (o *PasswordResetOTP) Verify(code string, now time.Time) error {
	if o.IsVerified {
		return ErrOTPConsumed
	}
	if o.IsExpired(now) {
		return ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(code)), []byte(o.Code)) != 1 {
		return ErrOTPInvalid
	}
	o.IsVerified = true
	o.UpdatedAt = now
	return nil
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", OTPLength, n.Int64()), nil
}
