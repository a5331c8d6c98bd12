package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hasLetterRegex = regexp.MustCompile(`[a-zA-Z]`)
	hasNumberRegex = regexp.MustCompile(`[0-9]`)
)

// ErrInvalidCredentials is returned by login for unknown emails and wrong
// passwords alike
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// User is an account that owns invoices, settings and transactions.
// Users sign in with their email address.
type User struct {
	shared.BaseAggregateRoot
	Email        string
	FirstName    string
	Mobile       string
	PasswordHash string
	IsActive     bool
	LastLoginAt  *time.Time
}

// NewUser registers a new active user
func NewUser(email, firstName, mobile, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return nil, shared.NewDomainError("INVALID_FIRST_NAME", "First name cannot be empty")
	}
	if len(firstName) > 100 {
		return nil, shared.NewDomainError("INVALID_FIRST_NAME", "First name cannot exceed 100 characters")
	}
	national, err := NormalizeMobile(mobile)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FirstName:         firstName,
		Mobile:            national,
		PasswordHash:      passwordHash,
		IsActive:          true,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// VerifyPassword checks password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetPassword replaces the password
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.Touch()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserPasswordResetEvent(u))

	return nil
}

// CanLogin reports whether the account may sign in
func (u *User) CanLogin() bool {
	return u.IsActive
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Deactivate disables sign in
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
	u.IncrementVersion()
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !hasLetterRegex.MatchString(password) || !hasNumberRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 254 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// UserIDFromString parses a user id, mapping failures to ErrInvalidInput
func UserIDFromString(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, shared.ErrInvalidInput
	}
	return id, nil
}
