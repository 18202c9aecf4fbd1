package services

import (
	"context"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
)

// StatusReaderSvc defines read operations over status mappings
type StatusReaderSvc interface {
	// GetCurrent returns the active status mapping of one group for the employee.
	GetCurrent(ctx context.Context, employeeID string, group domain.StatusGroup) (*domain.StatusMapping, error)

	// GetAllCurrent returns the active mappings of every group for the employee.
	GetAllCurrent(ctx context.Context, employeeID string) ([]domain.StatusMapping, error)

	// GetBatch returns active mappings for many employees, grouped by employee
	// ID. The call degrades gracefully: a failed chunk yields no statuses for
	// its members instead of failing the whole batch.
	GetBatch(ctx context.Context, employeeIDs []string) (map[string][]domain.StatusMapping, error)
}

// StatusTransitionSvc defines the lifecycle transitions of the engine.
// Every method applies its status writes as one atomic transaction.
type StatusTransitionSvc interface {
	// InitializeStatuses seeds the status groups of a freshly created employee:
	// lifecycle and card start as draft, activity as employed, clearance as allow.
	InitializeStatuses(ctx context.Context, employeeID string, actorID string) error

	// RecomputeOnEdit re-derives completeness-driven statuses and applies the
	// HR-edit coupling after any field-affecting write. Completion transitions
	// are one-directional: an edit never demotes new/completed back to draft.
	RecomputeOnEdit(ctx context.Context, employee domain.Employee, cfg domain.FieldConfig, actorID string) error

	// ApplyEdit combines RecomputeOnEdit and SyncActiveFlags into a single
	// transaction. It is the entry point for profile updates, where both
	// halves must commit or roll back together.
	ApplyEdit(ctx context.Context, employee domain.Employee, cfg domain.FieldConfig, fired bool, inactive bool, actorID string) error

	// Fire marks the employee as fired and resets pending HR sync state.
	Fire(ctx context.Context, employeeID string, actorID string) error

	// Reinstate returns a fired employee to employed, leaving
	// status_hr_fired_off as the surviving HR row.
	Reinstate(ctx context.Context, employeeID string, actorID string) error

	// Activate returns the employee to employed from any activity status.
	Activate(ctx context.Context, employeeID string, actorID string) error

	// Deactivate marks the employee inactive.
	Deactivate(ctx context.Context, employeeID string, actorID string) error

	// SyncActiveFlags reconciles the activity group with the fired/inactive
	// flags submitted on a profile update, including the fired-with-pending-
	// upload undo sequence.
	SyncActiveFlags(ctx context.Context, employeeID string, fired bool, inactive bool, actorID string) error

	// MarkEdited activates status_hr_edited with the given upload flag.
	// Skipped when the employee's HR status is status_hr_fired_off.
	MarkEdited(ctx context.Context, employeeID string, actorID string, upload bool) error
}

// StatusSvcFacade combines all status-related service interfaces
type StatusSvcFacade interface {
	StatusReaderSvc
	StatusTransitionSvc
}
