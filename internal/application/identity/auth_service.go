package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billbook/backend/internal/domain/identity"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmailTaken      = shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	ErrAccountInactive = shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	ErrTokenRevoked    = shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
)

const otpMailSubject = "Your password reset code"

// AuthService handles registration, sign in and password reset
type AuthService struct {
	users      identity.UserRepository
	otps       identity.OTPRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	mailer     identity.Mailer
	publisher  shared.EventPublisher
	now        func() time.Time
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. blacklist and
// publisher may be nil.
func NewAuthService(
	users identity.UserRepository,
	otps identity.OTPRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	mailer identity.Mailer,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		otps:       otps,
		jwtService: jwtService,
		blacklist:  blacklist,
		mailer:     mailer,
		publisher:  publisher,
		now:        time.Now,
		logger:     logger,
	}
}

// Register creates an account and signs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.Password2 {
		return nil, shared.NewValidationError().Add("password", "Password fields didn't match.")
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user, err := identity.NewUser(req.Email, req.FirstName, req.Mobile, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return nil, err
	}
	s.publish(ctx, user)

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return &AuthResponse{User: ToUserResponse(user), Tokens: toTokenResponse(pair)}, nil
}

// Login authenticates with email and password
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email", zap.String("email", req.Email))
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, identity.ErrInvalidCredentials
	}
	if !user.CanLogin() {
		return nil, ErrAccountInactive
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	user.RecordLogin()
	if err := s.users.Update(ctx, user); err != nil {
		// the sign in stands even if the timestamp is lost
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return &AuthResponse{User: ToUserResponse(user), Tokens: toTokenResponse(pair)}, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, mapTokenError(auth.ErrInvalidClaims)
	}

	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, ErrAccountInactive
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	if s.blacklist != nil {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Error("Failed to revoke rotated refresh token", zap.String("user_id", user.ID.String()), zap.Error(err))
			return nil, err
		}
	}

	resp := toTokenResponse(pair)
	return &resp, nil
}

// Logout revokes the caller's access token and, when given, its refresh token
func (s *AuthService) Logout(ctx context.Context, in LogoutInput) error {
	if s.blacklist == nil {
		return nil
	}
	if in.AccessJTI != "" {
		if err := s.blacklist.AddToBlacklist(ctx, in.AccessJTI, in.AccessTTL); err != nil {
			return err
		}
	}
	if in.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(in.RefreshToken)
		if err == nil && claims.UserID == in.UserID.String() {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				return err
			}
		}
	}
	s.logger.Info("User logged out", zap.String("user_id", in.UserID.String()))
	return nil
}

// Me returns the signed-in user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// RequestOTP mails a password reset code. Unknown emails succeed silently
// so the endpoint cannot be used to discover accounts.
func (s *AuthService) RequestOTP(ctx context.Context, req OTPRequest) error {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Password reset requested for unknown email", zap.String("email", req.Email))
			return nil
		}
		return err
	}

	otp, err := identity.NewPasswordResetOTP(user.Email, s.now())
	if err != nil {
		return err
	}
	if err := s.otps.DeleteByEmail(ctx, user.Email); err != nil {
		return err
	}
	if err := s.otps.Create(ctx, otp); err != nil {
		return err
	}

	body := fmt.Sprintf("Hello %s,\n\nYour password reset code is %s. It expires in %d minutes.\n",
		user.FirstName, otp.Code, int(identity.OTPTTL/time.Minute))
	if err := s.mailer.Send(ctx, otpMailSubject, body, user.Email); err != nil {
		s.logger.Error("Failed to send password reset mail", zap.String("user_id", user.ID.String()), zap.Error(err))
		return err
	}
	return nil
}

// ResetPassword checks the latest code for the email and sets a new
// password. Every token issued to the user before the reset is revoked.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return shared.NewValidationError().Add("confirm_password", "Password fields didn't match.")
	}

	otp, err := s.otps.FindLatestByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.ErrOTPInvalid
		}
		return err
	}
	if err := otp.Verify(req.OTP, s.now()); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, otp.Email)
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.otps.Update(ctx, otp); err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if err := s.otps.DeleteByEmail(ctx, otp.Email); err != nil {
		s.logger.Warn("Failed to clear reset codes", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	if s.blacklist != nil {
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
			s.logger.Error("Failed to revoke tokens after password reset", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}
	s.publish(ctx, user)

	s.logger.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return err
	}
	if invalidated {
		return ErrTokenRevoked
	}
	return nil
}

func (s *AuthService) publish(ctx context.Context, user *identity.User) {
	events := user.GetDomainEvents()
	user.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish user events", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrInvalidClaims):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
