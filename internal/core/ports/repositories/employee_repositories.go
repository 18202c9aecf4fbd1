package repositories

import (
	"context"
	"time"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
)

// EmployeeReader defines read operations for employee data
type EmployeeReader interface {
	// FindEmployeeByID retrieves an employee with its citizenship resolved.
	FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)

	// ListEmployeesByCounterparty retrieves a paginated list of employees
	// mapped to the counterparty.
	ListEmployeesByCounterparty(ctx context.Context, counterpartyID string, limit int, offset int) ([]domain.Employee, error)

	// FindByDocumentNumbers returns employees already holding any of the given
	// document identifiers (tax, insurance, patent, passport number). Used for
	// the global-uniqueness check; empty arguments are skipped.
	FindByDocumentNumbers(ctx context.Context, taxNumber, insuranceNumber, patentNumber, passportNumber *string) ([]domain.Employee, error)
}

// EmployeeWriter defines write operations for employee data
type EmployeeWriter interface {
	// SaveEmployee inserts a new employee record.
	SaveEmployee(ctx context.Context, employee domain.Employee) error

	// UpdateEmployee updates all mutable fields of an employee record.
	UpdateEmployee(ctx context.Context, employee domain.Employee) error

	// DeleteEmployee removes the employee together with its counterparty
	// mappings, actor links and status rows in one transaction.
	DeleteEmployee(ctx context.Context, employeeID string, deletedBy string, deletedAt time.Time) error
}

// EmployeeRepositoryFacade combines all employee repository interfaces.
type EmployeeRepositoryFacade interface {
	EmployeeReader
	EmployeeWriter
}
