package persistence

import (
	"errors"

	"github.com/billbook/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// notFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
