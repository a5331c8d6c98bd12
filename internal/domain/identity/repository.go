package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create inserts a new user. Returns ErrAlreadyExists for a taken email.
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// OTPRepository stores password reset codes
type OTPRepository interface {
	// Create stores a newly issued code
	Create(ctx context.Context, otp *PasswordResetOTP) error

	// FindLatestByEmail returns the most recently issued code for email
	FindLatestByEmail(ctx context.Context, email string) (*PasswordResetOTP, error)

	// Update persists the verified flag
	Update(ctx context.Context, otp *PasswordResetOTP) error

	// DeleteByEmail removes every code issued for email
	DeleteByEmail(ctx context.Context, email string) error
}

// Mailer delivers outbound mail
type Mailer interface {
	Send(ctx context.Context, subject, body string, to ...string) error
}
