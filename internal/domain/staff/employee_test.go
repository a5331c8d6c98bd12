package staff

import (
	"errors"
	"testing"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() EmployeeInput {
	joined := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	salary := decimal.RequireFromString("45000")
	return EmployeeInput{Name: "Ravi Patel", JoiningDate: &joined, Salary: &salary, Email: "Ravi@Example.com", Number: "9876543210"}
}

func TestNewEmployee(t *testing.T) {
	e, err := NewEmployee(uuid.New(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", e.Email)
	assert.Equal(t, "45000.00", e.Salary.StringFixed(2))
}

func TestEmployee_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *EmployeeInput)
		field  string
	}{
		{"name", func(in *EmployeeInput) { in.Name = "" }, "name"},
		{"joining date", func(in *EmployeeInput) { in.JoiningDate = nil }, "joining_date"},
		{"negative salary", func(in *EmployeeInput) { s := decimal.NewFromInt(-1); in.Salary = &s }, "salary"},
		{"email", func(in *EmployeeInput) { in.Email = "nope" }, "email"},
		{"number", func(in *EmployeeInput) { in.Number = "1234567890123456" }, "number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := NewEmployee(uuid.New(), in)
			var verr *shared.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, []string{tt.field}, verr.FieldNames())
		})
	}
}

func TestEmployee_Update(t *testing.T) {
	e, err := NewEmployee(uuid.New(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Ravi K. Patel"
	require.NoError(t, e.Update(in))
	assert.Equal(t, "Ravi K. Patel", e.Name)

	in.Email = ""
	assert.Error(t, e.Update(in))
	assert.Equal(t, "Ravi K. Patel", e.Name)
}
