package staff

import (
	"context"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/domain/staff"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EmployeeRequest creates or replaces an employee
type EmployeeRequest struct {
	Name        string           `json:"name" binding:"required,max=255"`
	JoiningDate string           `json:"joining_date" binding:"required"`
	Salary      *decimal.Decimal `json:"salary" binding:"required"`
	Email       string           `json:"email" binding:"required,email"`
	Number      string           `json:"number" binding:"required,max=15"`
}

func (r EmployeeRequest) toInput() (staff.EmployeeInput, error) {
	v := shared.NewValidationError()
	date := shared.ParseDateField(v, "joining_date", r.JoiningDate)
	if err := v.OrNil(); err != nil {
		return staff.EmployeeInput{}, err
	}
	return staff.EmployeeInput{
		Name:        r.Name,
		JoiningDate: date,
		Salary:      r.Salary,
		Email:       r.Email,
		Number:      r.Number,
	}, nil
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	JoiningDate string          `json:"joining_date"`
	Salary      decimal.Decimal `json:"salary"`
	Email       string          `json:"email"`
	Number      string          `json:"number"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToEmployeeResponse converts a domain Employee
func ToEmployeeResponse(e *staff.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          e.ID,
		Name:        e.Name,
		JoiningDate: shared.FormatDate(e.JoiningDate),
		Salary:      e.Salary,
		Email:       e.Email,
		Number:      e.Number,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// EmployeeService handles the employee register
type EmployeeService struct {
	repo   staff.Repository
	logger *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(repo staff.Repository, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, logger: logger}
}

// Create adds an employee
func (s *EmployeeService) Create(ctx context.Context, userID uuid.UUID, req EmployeeRequest) (*EmployeeResponse, error) {
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	e, err := staff.NewEmployee(userID, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("Failed to create employee", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// List returns the user's employees
func (s *EmployeeService) List(ctx context.Context, userID uuid.UUID) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAllForUser(ctx, userID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	out := make([]EmployeeResponse, len(employees))
	for i := range employees {
		out[i] = ToEmployeeResponse(&employees[i])
	}
	return out, nil
}

// GetByID returns one employee
func (s *EmployeeService) GetByID(ctx context.Context, userID, id uuid.UUID) (*EmployeeResponse, error) {
	e, err := s.repo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// Update replaces an employee's fields
func (s *EmployeeService) Update(ctx context.Context, userID, id uuid.UUID, req EmployeeRequest) (*EmployeeResponse, error) {
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	e, err := s.repo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := e.Update(in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// Delete removes an employee
func (s *EmployeeService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteForUser(ctx, userID, id)
}
