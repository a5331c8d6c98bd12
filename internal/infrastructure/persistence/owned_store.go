package persistence

import (
	"context"
	"errors"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnerScope restricts a query to rows owned by userID
func OwnerScope(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// ownedModel is a persistence model pointer that maps to domain type T and
// belongs to a single user
type ownedModel[T any, M any] interface {
	*M
	ToDomain() *T
	FromDomain(*T)
	Owner() uuid.UUID
}

// GormOwnedStore is a user-scoped GORM repository for simple records: every
// read, update and delete carries the owner in its WHERE clause.
type GormOwnedStore[T any, M any, PM ownedModel[T, M]] struct {
	db    *gorm.DB
	order string
}

func newOwnedStore[T any, M any, PM ownedModel[T, M]](db *gorm.DB, order string) *GormOwnedStore[T, M, PM] {
	return &GormOwnedStore[T, M, PM]{db: db, order: order}
}

func (s *GormOwnedStore[T, M, PM]) scoped(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).Model(PM(new(M))).Scopes(OwnerScope(userID))
}

// Create inserts a new record
func (s *GormOwnedStore[T, M, PM]) Create(ctx context.Context, entity *T) error {
	model := PM(new(M))
	model.FromDomain(entity)
	return s.db.WithContext(ctx).Create(model).Error
}

// Update saves every column except the owner and creation time
func (s *GormOwnedStore[T, M, PM]) Update(ctx context.Context, entity *T) error {
	model := PM(new(M))
	model.FromDomain(entity)
	result := s.db.WithContext(ctx).
		Model(model).
		Scopes(OwnerScope(model.Owner())).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByIDForUser returns ErrNotFound for missing rows and other users' rows
func (s *GormOwnedStore[T, M, PM]) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*T, error) {
	return s.first(s.scoped(ctx, userID).Where("id = ?", id))
}

// FindAllForUser lists the user's records, newest first
func (s *GormOwnedStore[T, M, PM]) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]T, error) {
	query := s.scoped(ctx, userID).Order(s.order).Order("created_at DESC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return s.find(query)
}

// DeleteForUser removes a record
func (s *GormOwnedStore[T, M, PM]) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(PM(new(M)))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (s *GormOwnedStore[T, M, PM]) first(query *gorm.DB) (*T, error) {
	model := PM(new(M))
	if err := query.First(model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (s *GormOwnedStore[T, M, PM]) find(query *gorm.DB) ([]T, error) {
	var rows []M
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]T, len(rows))
	for i := range rows {
		out[i] = *PM(&rows[i]).ToDomain()
	}
	return out, nil
}
