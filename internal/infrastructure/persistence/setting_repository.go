package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/billbook/backend/internal/domain/settings"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSettingRepository implements settings.Repository
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// FindByUser returns ErrNotFound when the user has no setting yet
func (r *GormSettingRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*settings.Setting, error) {
	var model models.SettingModel
	if err := r.db.WithContext(ctx).Scopes(OwnerScope(userID)).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// GetOrCreate returns the user's setting, inserting an empty one if absent.
// Two concurrent first reads both end up with the single stored row.
func (r *GormSettingRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*settings.Setting, error) {
	s, err := r.FindByUser(ctx, userID)
	if !errors.Is(err, shared.ErrNotFound) {
		return s, err
	}

	var model models.SettingModel
	model.FromDomain(settings.NewSetting(userID))
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.FindByUser(ctx, userID)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveWithLock updates with optimistic locking. Setting.Update has already
// bumped the version, so the stored row must hold the previous one.
func (r *GormSettingRepository) SaveWithLock(ctx context.Context, s *settings.Setting) error {
	expected := s.Version - 1

	var model models.SettingModel
	model.FromDomain(s)
	model.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&models.SettingModel{}).
		Where("id = ? AND user_id = ? AND version = ?", s.ID, s.UserID, expected).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	s.UpdatedAt = model.UpdatedAt
	return nil
}

// DeleteByUser removes the user's setting
func (r *GormSettingRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(OwnerScope(userID)).Delete(&models.SettingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ settings.Repository = (*GormSettingRepository)(nil)
