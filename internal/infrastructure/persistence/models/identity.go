package models

import (
	"time"

	"github.com/billbook/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	AggregateModel
	Email        string     `gorm:"type:varchar(254);not null;uniqueIndex"`
	FirstName    string     `gorm:"type:varchar(150);not null"`
	Mobile       string     `gorm:"type:varchar(10);not null"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	IsActive     bool       `gorm:"not null;default:true"`
	LastLoginAt  *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Email:             m.Email,
		FirstName:         m.FirstName,
		Mobile:            m.Mobile,
		PasswordHash:      m.PasswordHash,
		IsActive:          m.IsActive,
		LastLoginAt:       m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.FirstName = u.FirstName
	m.Mobile = u.Mobile
	m.PasswordHash = u.PasswordHash
	m.IsActive = u.IsActive
	m.LastLoginAt = u.LastLoginAt
}

// PasswordResetOTPModel stores issued password reset codes
type PasswordResetOTPModel struct {
	BaseModel
	Email      string    `gorm:"type:varchar(254);not null;index"`
	Code       string    `gorm:"column:otp;type:varchar(6);not null"`
	ExpiresAt  time.Time `gorm:"not null"`
	IsVerified bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PasswordResetOTPModel) TableName() string {
	return "password_reset_otps"
}

// ToDomain converts the persistence model to a domain PasswordResetOTP
func (m *PasswordResetOTPModel) ToDomain() *identity.PasswordResetOTP {
	return &identity.PasswordResetOTP{
		BaseEntity: m.BaseModel.ToDomain(),
		Email:      m.Email,
		Code:       m.Code,
		ExpiresAt:  m.ExpiresAt,
		IsVerified: m.IsVerified,
	}
}

// FromDomain populates the persistence model from a domain PasswordResetOTP
func (m *PasswordResetOTPModel) FromDomain(o *identity.PasswordResetOTP) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Email = o.Email
	m.Code = o.Code
	m.ExpiresAt = o.ExpiresAt
	m.IsVerified = o.IsVerified
}
