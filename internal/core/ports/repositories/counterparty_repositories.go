package repositories

import (
	"context"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
)

// CounterpartyReader defines read operations for counterparty data
type CounterpartyReader interface {
	// FindCounterpartyByID retrieves a counterparty, field config included.
	FindCounterpartyByID(ctx context.Context, counterpartyID string) (*domain.Counterparty, error)

	// ListCounterparties retrieves a paginated list of counterparties.
	ListCounterparties(ctx context.Context, limit int, offset int) ([]domain.Counterparty, error)

	// HasEmployeeMapping reports whether the employee is mapped to the
	// counterparty.
	HasEmployeeMapping(ctx context.Context, employeeID, counterpartyID string) (bool, error)

	// HasActorLink reports whether a shared-counterparty ownership link exists
	// between the user and the employee (counterparty_id IS NULL sentinel).
	HasActorLink(ctx context.Context, userID, employeeID string) (bool, error)
}

// CounterpartyWriter defines write operations for counterparty data
type CounterpartyWriter interface {
	// SaveCounterparty inserts or updates a counterparty.
	SaveCounterparty(ctx context.Context, counterparty domain.Counterparty) error

	// UpdateFieldConfig replaces the counterparty's required-field configuration.
	UpdateFieldConfig(ctx context.Context, counterpartyID string, cfg domain.FieldConfig, updatedBy string) error

	// SaveEmployeeMapping associates an employee with a counterparty.
	SaveEmployeeMapping(ctx context.Context, mapping domain.EmployeeCounterpartyMapping) error

	// SaveActorLink records shared-counterparty ownership of an employee draft.
	SaveActorLink(ctx context.Context, link domain.ActorEmployeeLink) error
}

// CounterpartyRepositoryFacade combines all counterparty repository interfaces.
type CounterpartyRepositoryFacade interface {
	CounterpartyReader
	CounterpartyWriter
}
