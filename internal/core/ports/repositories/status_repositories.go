package repositories

import (
	"context"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// StatusCatalogReader provides read-only access to the status catalog.
// The catalog is seeded by migration and never written at runtime.
type StatusCatalogReader interface {
	// FindStatusByName resolves a catalog entry by its unique name.
	// Returns apperrors.ErrNotFound when the name is not in the catalog;
	// callers treat that as a configuration error.
	FindStatusByName(ctx context.Context, name string) (*domain.Status, error)

	// ListStatuses returns the whole catalog.
	ListStatuses(ctx context.Context) ([]domain.Status, error)
}

// StatusMappingReader defines the read side of the status group store.
type StatusMappingReader interface {
	// FindActiveByGroup returns the single active mapping of the employee in
	// the given group, or apperrors.ErrNotFound when the group has no active row.
	FindActiveByGroup(ctx context.Context, employeeID string, group domain.StatusGroup) (*domain.StatusMapping, error)

	// FindAllActive returns every active mapping of the employee across groups.
	FindAllActive(ctx context.Context, employeeID string) ([]domain.StatusMapping, error)

	// FindActiveByEmployeeIDs returns active mappings for many employees at
	// once, grouped by employee ID. IDs without active rows are absent from
	// the result.
	FindActiveByEmployeeIDs(ctx context.Context, employeeIDs []string) (map[string][]domain.StatusMapping, error)
}

// StatusMappingTxWriter defines the write primitives of the status group
// store. Every method runs against a caller-owned transaction so that one
// logical transition applies atomically; the transition engine brackets the
// calls with Begin/Commit from TransactionManager.
type StatusMappingTxWriter interface {
	// LockEmployeeStatuses takes row-level locks on all of the employee's
	// status rows for the duration of the transaction. Transitions call it
	// first so concurrent actions on the same employee serialize.
	LockEmployeeStatuses(ctx context.Context, tx pgx.Tx, employeeID string) error

	// FindActiveByGroupTx is FindActiveByGroup inside the transaction.
	FindActiveByGroupTx(ctx context.Context, tx pgx.Tx, employeeID string, group domain.StatusGroup) (*domain.StatusMapping, error)

	// DeactivateGroup flips is_active to false (and always clears is_upload)
	// on every active row of the group. A non-nil exceptStatusID leaves that
	// one status untouched.
	DeactivateGroup(ctx context.Context, tx pgx.Tx, employeeID string, group domain.StatusGroup, exceptStatusID *string, actorID string) error

	// DeactivateMapping deactivates one specific row, clearing is_upload.
	DeactivateMapping(ctx context.Context, tx pgx.Tx, mappingID string, actorID string) error

	// Activate activates the (employee, status) row: when a history row for
	// that exact pair exists it is reactivated in place (original creation
	// audit preserved), otherwise a new row is inserted. It does NOT touch
	// sibling rows of the group; pair it with DeactivateGroup for the
	// single-active invariant. A nil upload preserves the row's current flag.
	Activate(ctx context.Context, tx pgx.Tx, employeeID string, statusID string, actorID string, upload *bool) (*domain.StatusMapping, error)
}

// StatusRepositoryFacade combines catalog and mapping access.
type StatusRepositoryFacade interface {
	StatusCatalogReader
	StatusMappingReader
	StatusMappingTxWriter
}

// StatusRepositoryWithTx extends the facade with transaction control.
type StatusRepositoryWithTx interface {
	StatusRepositoryFacade
	TransactionManager
}
