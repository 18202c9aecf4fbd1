package services

import (
	"context"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
)

// CounterpartyReaderSvc defines read operations for counterparty data
type CounterpartyReaderSvc interface {
	// FindCounterpartyByID retrieves a counterparty by its ID.
	FindCounterpartyByID(ctx context.Context, counterpartyID string) (*domain.Counterparty, error)

	// ListCounterparties retrieves a paginated list of counterparties.
	ListCounterparties(ctx context.Context, limit, offset int) ([]domain.Counterparty, error)

	// ResolveFieldConfig returns the required-field configuration the actor's
	// counterparty operates under (the default counterparty and all others
	// are configured independently).
	ResolveFieldConfig(ctx context.Context, counterpartyID string) (domain.FieldConfig, error)
}

// CounterpartyWriterSvc defines write operations for counterparty data
type CounterpartyWriterSvc interface {
	// CreateCounterparty persists a new counterparty.
	CreateCounterparty(ctx context.Context, name string, creatorUserID string) (*domain.Counterparty, error)

	// UpdateFieldConfig replaces a counterparty's required-field configuration.
	UpdateFieldConfig(ctx context.Context, counterpartyID string, cfg domain.FieldConfig, actorID string) error
}

// CounterpartySvcFacade combines all counterparty-related service interfaces
type CounterpartySvcFacade interface {
	CounterpartyReaderSvc
	CounterpartyWriterSvc
}
