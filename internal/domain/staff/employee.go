// Package staff keeps the seller's employee register
package staff

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeInput carries the caller's fields for an employee
type EmployeeInput struct {
	Name        string
	JoiningDate *time.Time
	Salary      *decimal.Decimal
	Email       string
	Number      string
}

// Employee is a person on the seller's payroll
type Employee struct {
	shared.OwnedEntity
	Name        string
	JoiningDate time.Time
	Salary      decimal.Decimal
	Email       string
	Number      string
}

// NewEmployee validates input and creates an employee
func NewEmployee(userID uuid.UUID, in EmployeeInput) (*Employee, error) {
	e := &Employee{OwnedEntity: shared.NewOwnedEntity(userID)}
	if err := e.apply(in); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces every field
func (e *Employee) Update(in EmployeeInput) error {
	if err := e.apply(in); err != nil {
		return err
	}
	e.Touch()
	return nil
}

func (e *Employee) apply(in EmployeeInput) error {
	v := shared.NewValidationError()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		v.Add("name", "This field is required.")
	}
	if in.JoiningDate == nil || in.JoiningDate.IsZero() {
		v.Add("joining_date", "This field is required.")
	}
	if in.Salary == nil {
		v.Add("salary", "This field is required.")
	} else if in.Salary.IsNegative() {
		v.Add("salary", "Must not be negative.")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		v.Add("email", "This field is required.")
	} else if _, err := mail.ParseAddress(email); err != nil {
		v.Add("email", "Enter a valid email address.")
	}
	number := strings.TrimSpace(in.Number)
	if number == "" {
		v.Add("number", "This field is required.")
	} else if len(number) > 15 {
		v.Add("number", "Number cannot exceed 15 characters.")
	}
	if err := v.OrNil(); err != nil {
		return err
	}

	e.Name = name
	e.JoiningDate = *in.JoiningDate
	e.Salary = valueobject.RoundAmount(*in.Salary)
	e.Email = email
	e.Number = number
	return nil
}

// Repository persists employees
type Repository interface {
	shared.OwnedRepository[Employee]

	// Update saves changed fields
	Update(ctx context.Context, employee *Employee) error
}
