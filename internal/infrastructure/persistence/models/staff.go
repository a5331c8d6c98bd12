package models

import (
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/domain/staff"
	"github.com/shopspring/decimal"
)

// EmployeeModel is the persistence model for employees
type EmployeeModel struct {
	OwnedModel
	Name        string          `gorm:"type:varchar(100);not null"`
	JoiningDate time.Time       `gorm:"type:date;not null"`
	Salary      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Email       string          `gorm:"type:varchar(255);not null"`
	Number      string          `gorm:"type:varchar(15);not null"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee
func (m *EmployeeModel) ToDomain() *staff.Employee {
	return &staff.Employee{
		OwnedEntity: m.ToOwnedEntity(),
		Name:        m.Name,
		JoiningDate: shared.CalendarDate(m.JoiningDate),
		Salary:      m.Salary,
		Email:       m.Email,
		Number:      m.Number,
	}
}

// FromDomain populates the persistence model from a domain Employee
func (m *EmployeeModel) FromDomain(e *staff.Employee) {
	m.FromDomainOwnedEntity(e.OwnedEntity)
	m.Name = e.Name
	m.JoiningDate = e.JoiningDate
	m.Salary = e.Salary
	m.Email = e.Email
	m.Number = e.Number
}
