package services

import (
	"context"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
	"github.com/BuildPass/site_personnel_app/internal/dto"
)

// EmployeeReaderSvc defines read operations for employee data
type EmployeeReaderSvc interface {
	// GetEmployee retrieves an employee visible to the actor.
	GetEmployee(ctx context.Context, actor domain.User, employeeID string) (*domain.Employee, error)

	// ListEmployees retrieves employees mapped to a counterparty together
	// with their current statuses.
	ListEmployees(ctx context.Context, actor domain.User, counterpartyID string, limit, offset int) ([]dto.EmployeeWithStatuses, error)
}

// EmployeeWriterSvc defines write operations for employee data
type EmployeeWriterSvc interface {
	// CreateEmployee creates the record, its counterparty mapping, the
	// creator's actor link (shared counterparty only) and the initial
	// statuses, then runs the first completeness recompute.
	CreateEmployee(ctx context.Context, actor domain.User, req dto.CreateEmployeeRequest) (*domain.Employee, error)

	// UpdateEmployee applies a field update, recomputes derived statuses and
	// reconciles the activity group with the submitted fired/inactive flags.
	UpdateEmployee(ctx context.Context, actor domain.User, employeeID string, req dto.UpdateEmployeeRequest) (*domain.Employee, error)

	// DeleteEmployee removes the employee with cascading cleanup.
	DeleteEmployee(ctx context.Context, actor domain.User, employeeID string) error
}

// EmployeeSvcFacade combines all employee-related service interfaces
type EmployeeSvcFacade interface {
	EmployeeReaderSvc
	EmployeeWriterSvc
}
