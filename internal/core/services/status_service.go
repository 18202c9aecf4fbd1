package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BuildPass/site_personnel_app/internal/apperrors"
	"github.com/BuildPass/site_personnel_app/internal/core/domain"
	portsrepo "github.com/BuildPass/site_personnel_app/internal/core/ports/repositories"
	portssvc "github.com/BuildPass/site_personnel_app/internal/core/ports/services"
	"github.com/BuildPass/site_personnel_app/internal/utils/completeness"
	"github.com/jackc/pgx/v5"
)

// batchChunkSize caps how many employee IDs go into one batch-status query.
const batchChunkSize = 500

// statusService is the lifecycle transition engine. Every public mutation
// applies its status writes inside one database transaction with the
// employee's status rows locked, so concurrent actions on the same employee
// serialize and a failure leaves either the old or the fully-new state.
type statusService struct {
	BaseService
	statusRepo portsrepo.StatusRepositoryWithTx
}

// NewStatusService creates the status transition engine.
func NewStatusService(statusRepo portsrepo.StatusRepositoryWithTx) portssvc.StatusSvcFacade {
	return &statusService{statusRepo: statusRepo}
}

// Ensure statusService implements the facade.
var _ portssvc.StatusSvcFacade = (*statusService)(nil)

// --- Read path ---

func (s *statusService) GetCurrent(ctx context.Context, employeeID string, group domain.StatusGroup) (*domain.StatusMapping, error) {
	return s.statusRepo.FindActiveByGroup(ctx, employeeID, group)
}

func (s *statusService) GetAllCurrent(ctx context.Context, employeeID string) ([]domain.StatusMapping, error) {
	return s.statusRepo.FindAllActive(ctx, employeeID)
}

// GetBatch fans out over chunks of IDs. A failed chunk is logged and treated
// as "no statuses" for its members; the rest of the batch still succeeds.
func (s *statusService) GetBatch(ctx context.Context, employeeIDs []string) (map[string][]domain.StatusMapping, error) {
	result := make(map[string][]domain.StatusMapping, len(employeeIDs))
	for start := 0; start < len(employeeIDs); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(employeeIDs) {
			end = len(employeeIDs)
		}
		chunk := employeeIDs[start:end]

		partial, err := s.statusRepo.FindActiveByEmployeeIDs(ctx, chunk)
		if err != nil {
			s.LogError(ctx, err, "Batch status chunk failed, returning no statuses for its members",
				slog.Int("chunk_start", start),
				slog.Int("chunk_size", len(chunk)))
			continue
		}
		for employeeID, mappings := range partial {
			result[employeeID] = mappings
		}
	}
	return result, nil
}

// --- Transition path ---

// InitializeStatuses seeds the automated groups plus the clearance default
// for a freshly created employee.
func (s *statusService) InitializeStatuses(ctx context.Context, employeeID string, actorID string) error {
	return s.inTransition(ctx, employeeID, func(tx pgx.Tx) error {
		for _, name := range []string{
			domain.StatusDraft,
			domain.StatusCardDraft,
			domain.StatusActiveEmployed,
			domain.StatusSecureAllow,
		} {
			if _, err := s.setActive(ctx, tx, employeeID, name, actorID, nil); err != nil {
				return err
			}
		}
		s.LogInfo(ctx, "Employee statuses initialized", slog.String("employee_id", employeeID))
		return nil
	})
}

// RecomputeOnEdit derives completeness transitions and applies the HR-edit
// coupling. Completion is one-directional: a record that regressed to
// incomplete keeps its new/completed statuses.
func (s *statusService) RecomputeOnEdit(ctx context.Context, employee domain.Employee, cfg domain.FieldConfig, actorID string) error {
	complete := completeness.IsComplete(employee, cfg)

	return s.inTransition(ctx, employee.EmployeeID, func(tx pgx.Tx) error {
		return s.recomputeSteps(ctx, tx, employee.EmployeeID, complete, actorID)
	})
}

// ApplyEdit runs the full status consequence of a profile update, recompute
// plus activity-flag reconciliation, inside one transaction. A failure in
// either half rolls back both, so a saved edit never leaves promotions
// committed with the activity group unreconciled.
func (s *statusService) ApplyEdit(ctx context.Context, employee domain.Employee, cfg domain.FieldConfig, fired bool, inactive bool, actorID string) error {
	complete := completeness.IsComplete(employee, cfg)

	return s.inTransition(ctx, employee.EmployeeID, func(tx pgx.Tx) error {
		if err := s.recomputeSteps(ctx, tx, employee.EmployeeID, complete, actorID); err != nil {
			return err
		}
		return s.syncFlagSteps(ctx, tx, employee.EmployeeID, fired, inactive, actorID)
	})
}

func (s *statusService) recomputeSteps(ctx context.Context, tx pgx.Tx, employeeID string, complete bool, actorID string) error {
	if complete {
		if err := s.promoteIfDraft(ctx, tx, employeeID, domain.GroupStatus, domain.StatusDraft, domain.StatusNew, actorID); err != nil {
			return err
		}
		if err := s.promoteIfDraft(ctx, tx, employeeID, domain.GroupCard, domain.StatusCardDraft, domain.StatusCardCompleted, actorID); err != nil {
			return err
		}
	}
	return s.applyHREditCoupling(ctx, tx, employeeID, actorID)
}

// promoteIfDraft moves the group from its draft status to the target status,
// leaving any other state untouched.
func (s *statusService) promoteIfDraft(ctx context.Context, tx pgx.Tx, employeeID string, group domain.StatusGroup, draftName, targetName, actorID string) error {
	current, err := s.statusRepo.FindActiveByGroupTx(ctx, tx, employeeID, group)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if current.StatusName != draftName {
		return nil
	}
	_, err = s.setActive(ctx, tx, employeeID, targetName, actorID, nil)
	return err
}

// applyHREditCoupling signals "changed since last export" on the HR group.
// A pending upload anywhere in the group wins over the new-complete rule so
// the employee is never double-marked.
func (s *statusService) applyHREditCoupling(ctx context.Context, tx pgx.Tx, employeeID string, actorID string) error {
	hr, err := s.statusRepo.FindActiveByGroupTx(ctx, tx, employeeID, domain.GroupHR)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	uploadOff := false
	switch {
	case hr.IsUpload:
		// A prior HR status is still pending sync: supersede the whole group.
		if err := s.statusRepo.DeactivateGroup(ctx, tx, employeeID, domain.GroupHR, nil, actorID); err != nil {
			return err
		}
		if _, err := s.activateByName(ctx, tx, employeeID, domain.StatusHREdited, actorID, &uploadOff); err != nil {
			return err
		}
	case hr.StatusName == domain.StatusHRNewCompl:
		// Already-synced "new employee" state: any edit flips it to edited.
		if _, err := s.setActive(ctx, tx, employeeID, domain.StatusHREdited, actorID, &uploadOff); err != nil {
			return err
		}
	}
	return nil
}

// Fire marks the employee fired. The fired row itself is not an upload
// trigger here; marking it for export is a separate caller-driven step.
func (s *statusService) Fire(ctx context.Context, employeeID string, actorID string) error {
	return s.inTransition(ctx, employeeID, func(tx pgx.Tx) error {
		if err := s.fireSteps(ctx, tx, employeeID, actorID); err != nil {
			return err
		}
		s.LogInfo(ctx, "Employee fired", slog.String("employee_id", employeeID))
		return nil
	})
}

func (s *statusService) fireSteps(ctx context.Context, tx pgx.Tx, employeeID string, actorID string) error {
	if err := s.statusRepo.DeactivateGroup(ctx, tx, employeeID, domain.GroupHR, nil, actorID); err != nil {
		return err
	}
	uploadOff := false
	_, err := s.setActive(ctx, tx, employeeID, domain.StatusActiveFired, actorID, &uploadOff)
	return err
}

// Reinstate returns a fired employee to employed. status_hr_fired_off
// survives as the sole HR row; it is activated with the non-group-clearing
// variant so the hand-off never loses it.
func (s *statusService) Reinstate(ctx context.Context, employeeID string, actorID string) error {
	firedOff, err := s.resolveStatus(ctx, domain.StatusHRFiredOff)
	if err != nil {
		return err
	}

	return s.inTransition(ctx, employeeID, func(tx pgx.Tx) error {
		if err := s.statusRepo.DeactivateGroup(ctx, tx, employeeID, domain.GroupHR, &firedOff.StatusID, actorID); err != nil {
			return err
		}
		uploadOff := false
		if _, err := s.statusRepo.Activate(ctx, tx, employeeID, firedOff.StatusID, actorID, &uploadOff); err != nil {
			return err
		}

		active, err := s.statusRepo.FindActiveByGroupTx(ctx, tx, employeeID, domain.GroupActive)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if active != nil && active.StatusName == domain.StatusActiveFired {
			if err := s.statusRepo.DeactivateMapping(ctx, tx, active.MappingID, actorID); err != nil {
				return err
			}
			if _, err := s.setActive(ctx, tx, employeeID, domain.StatusActiveEmployed, actorID, nil); err != nil {
				return err
			}
		}
		s.LogInfo(ctx, "Employee reinstated", slog.String("employee_id", employeeID))
		return nil
	})
}

// Activate returns the employee to employed from any activity status.
func (s *statusService) Activate(ctx context.Context, employeeID string, actorID string) error {
	return s.inTransition(ctx, employeeID, func(tx pgx.Tx) error {
		return s.activateSteps(ctx, tx, employeeID, actorID)
	})
}

// activateSteps deactivates the current activity row explicitly before
// activating employed. The deactivate runs even when the row is already
// employed: reactivating it drops any stale upload flag the row carried.
func (s *statusService) activateSteps(ctx context.Context, tx pgx.Tx, employeeID string, actorID string) error {
	active, err := s.statusRepo.FindActiveByGroupTx(ctx, tx, employeeID, domain.GroupActive)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if active != nil {
		if err := s.statusRepo.DeactivateMapping(ctx, tx, active.MappingID, actorID); err != nil {
			return err
		}
	}
	_, err = s.setActive(ctx, tx, employeeID, domain.StatusActiveEmployed, actorID, nil)
	return err
}

// Deactivate marks the employee inactive.
func (s *statusService) Deactivate(ctx context.Context, employeeID string, actorID string) error {
	return s.inTransition(ctx, employeeID, func(tx pgx.Tx) error {
		_, err := s.setActive(ctx, tx, employeeID, domain.StatusActiveInactive, actorID, nil)
		return err
	})
}

// SyncActiveFlags reconciles the activity group with the fired/inactive
// checkboxes submitted on a profile update.
//
// The no-flags branch carries the fired-undo sequence: an employee who was
// fired with the firing still pending export, then un-fired before the sync
// happened, is treated as retroactively reinstated. The sub-steps are order
// dependent; later steps read state written by earlier ones.
func (s *statusService) SyncActiveFlags(ctx context.Context, employeeID string, fired bool, inactive bool, actorID string) error {
	return s.inTransition(ctx, employeeID, func(tx pgx.Tx) error {
		return s.syncFlagSteps(ctx, tx, employeeID, fired, inactive, actorID)
	})
}

func (s *statusService) syncFlagSteps(ctx context.Context, tx pgx.Tx, employeeID string, fired bool, inactive bool, actorID string) error {
	switch {
	case fired:
		return s.fireSteps(ctx, tx, employeeID, actorID)
	case inactive:
		_, err := s.setActive(ctx, tx, employeeID, domain.StatusActiveInactive, actorID, nil)
		return err
	}

	active, err := s.statusRepo.FindActiveByGroupTx(ctx, tx, employeeID, domain.GroupActive)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	if active != nil && active.StatusName == domain.StatusActiveFired && active.IsUpload {
		// Step 1: retire the pending fired row.
		if err := s.statusRepo.DeactivateMapping(ctx, tx, active.MappingID, actorID); err != nil {
			return err
		}
		// Step 2: an edited marker loses to the reinstatement it implies.
		hr, err := s.statusRepo.FindActiveByGroupTx(ctx, tx, employeeID, domain.GroupHR)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if hr != nil && hr.StatusName == domain.StatusHREdited {
			if err := s.statusRepo.DeactivateMapping(ctx, tx, hr.MappingID, actorID); err != nil {
				return err
			}
		}
		// Step 3: record the retroactive reinstatement (keep siblings).
		firedOff, err := s.resolveStatus(ctx, domain.StatusHRFiredOff)
		if err != nil {
			return err
		}
		uploadOff := false
		if _, err := s.statusRepo.Activate(ctx, tx, employeeID, firedOff.StatusID, actorID, &uploadOff); err != nil {
			return err
		}
		// Step 4: back to employed.
		_, err = s.setActive(ctx, tx, employeeID, domain.StatusActiveEmployed, actorID, nil)
		return err
	}

	return s.activateSteps(ctx, tx, employeeID, actorID)
}

// MarkEdited activates status_hr_edited with the caller-supplied upload flag.
// Reinstated employees (active status_hr_fired_off) are not re-marked.
func (s *statusService) MarkEdited(ctx context.Context, employeeID string, actorID string, upload bool) error {
	return s.inTransition(ctx, employeeID, func(tx pgx.Tx) error {
		hr, err := s.statusRepo.FindActiveByGroupTx(ctx, tx, employeeID, domain.GroupHR)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if hr != nil && hr.StatusName == domain.StatusHRFiredOff {
			return nil
		}
		_, err = s.setActive(ctx, tx, employeeID, domain.StatusHREdited, actorID, &upload)
		return err
	})
}

// --- Internals ---

// inTransition brackets fn with Begin/Commit and locks the employee's status
// rows first. On any error the transaction rolls back, leaving the old state.
func (s *statusService) inTransition(ctx context.Context, employeeID string, fn func(tx pgx.Tx) error) error {
	tx, err := s.statusRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.statusRepo.Rollback(ctx, tx)
	}()

	if err := s.statusRepo.LockEmployeeStatuses(ctx, tx, employeeID); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if errors.Is(err, apperrors.ErrConfiguration) {
			s.LogError(ctx, err, "Status transition aborted by configuration error",
				slog.String("employee_id", employeeID))
		}
		return err
	}
	return s.statusRepo.Commit(ctx, tx)
}

// resolveStatus looks a status up in the catalog, translating absence into a
// configuration error.
func (s *statusService) resolveStatus(ctx context.Context, name string) (*domain.Status, error) {
	status, err := s.statusRepo.FindStatusByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: status %q missing from catalog", apperrors.ErrConfiguration, name)
		}
		return nil, err
	}
	return status, nil
}

// setActive implements the single-active-per-group write: every other row of
// the status's group is deactivated (upload cleared), then the target row is
// activated or reactivated in place.
func (s *statusService) setActive(ctx context.Context, tx pgx.Tx, employeeID string, statusName string, actorID string, upload *bool) (*domain.StatusMapping, error) {
	status, err := s.resolveStatus(ctx, statusName)
	if err != nil {
		return nil, err
	}
	if err := s.statusRepo.DeactivateGroup(ctx, tx, employeeID, status.Group, &status.StatusID, actorID); err != nil {
		return nil, err
	}
	return s.statusRepo.Activate(ctx, tx, employeeID, status.StatusID, actorID, upload)
}

// activateByName is the non-group-clearing variant keyed by name.
func (s *statusService) activateByName(ctx context.Context, tx pgx.Tx, employeeID string, statusName string, actorID string, upload *bool) (*domain.StatusMapping, error) {
	status, err := s.resolveStatus(ctx, statusName)
	if err != nil {
		return nil, err
	}
	return s.statusRepo.Activate(ctx, tx, employeeID, status.StatusID, actorID, upload)
}
