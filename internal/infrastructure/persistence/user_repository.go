package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/billbook/backend/internal/domain/identity"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user. A taken email maps to ErrAlreadyExists.
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	var model models.UserModel
	model.FromDomain(user)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update saves every mutable column
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	var model models.UserModel
	model.FromDomain(user)
	result := r.db.WithContext(ctx).
		Model(&model).
		Select("*").
		Omit("id", "created_at", "email").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks if an email is already registered
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormOTPRepository implements identity.OTPRepository using GORM
type GormOTPRepository struct {
	db *gorm.DB
}

// NewGormOTPRepository creates a new GormOTPRepository
func NewGormOTPRepository(db *gorm.DB) *GormOTPRepository {
	return &GormOTPRepository{db: db}
}

// Create stores a newly issued code
func (r *GormOTPRepository) Create(ctx context.Context, otp *identity.PasswordResetOTP) error {
	var model models.PasswordResetOTPModel
	model.FromDomain(otp)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindLatestByEmail returns the most recently issued code for email
func (r *GormOTPRepository) FindLatestByEmail(ctx context.Context, email string) (*identity.PasswordResetOTP, error) {
	var model models.PasswordResetOTPModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Update persists the verified flag
func (r *GormOTPRepository) Update(ctx context.Context, otp *identity.PasswordResetOTP) error {
	return r.db.WithContext(ctx).
		Model(&models.PasswordResetOTPModel{}).
		Where("id = ?", otp.ID).
		Update("is_verified", otp.IsVerified).Error
}

// DeleteByEmail removes every code issued for email
func (r *GormOTPRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).Delete(&models.PasswordResetOTPModel{}).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	_ identity.UserRepository = (*GormUserRepository)(nil)
	_ identity.OTPRepository  = (*GormOTPRepository)(nil)
)
