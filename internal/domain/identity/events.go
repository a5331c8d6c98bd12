package identity

import (
	"github.com/billbook/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserRegistered    = "UserRegistered"
	EventTypeUserPasswordReset = "UserPasswordReset"
)

// UserRegisteredEvent is published when an account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID, user.ID),
		Email:           user.Email,
		FirstName:       user.FirstName,
	}
}

// UserPasswordResetEvent is published when a password is replaced
type UserPasswordResetEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserPasswordResetEvent creates a new UserPasswordResetEvent
func NewUserPasswordResetEvent(user *User) *UserPasswordResetEvent {
	return &UserPasswordResetEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordReset, AggregateTypeUser, user.ID, user.ID),
		Email:           user.Email,
	}
}
