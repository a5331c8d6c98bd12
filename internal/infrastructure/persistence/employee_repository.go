package persistence

import (
	"github.com/billbook/backend/internal/domain/staff"
	"github.com/billbook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements staff.Repository
type GormEmployeeRepository = GormOwnedStore[staff.Employee, models.EmployeeModel, *models.EmployeeModel]

// NewGormEmployeeRepository creates the employee repository, ordered by name
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return newOwnedStore[staff.Employee, models.EmployeeModel](db, "name ASC")
}

var _ staff.Repository = (*GormEmployeeRepository)(nil)
