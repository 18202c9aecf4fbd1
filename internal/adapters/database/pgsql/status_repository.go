package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BuildPass/site_personnel_app/internal/apperrors"
	"github.com/BuildPass/site_personnel_app/internal/core/domain"
	portsrepo "github.com/BuildPass/site_personnel_app/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatusRepository persists the status catalog and the per-employee status
// mapping rows. Mapping rows are append-only history: supersession flips
// is_active (always clearing is_upload), it never deletes.
type StatusRepository struct {
	BaseRepository
}

// NewStatusRepository creates a new repository for status data.
func NewStatusRepository(pool *pgxpool.Pool) *StatusRepository {
	return &StatusRepository{BaseRepository{Pool: pool}}
}

// Ensure StatusRepository implements the port.
var _ portsrepo.StatusRepositoryWithTx = (*StatusRepository)(nil)

const statusMappingColumns = `
	sm.mapping_id, sm.employee_id, sm.status_id, s.name, s.status_group,
	sm.is_active, sm.is_upload,
	sm.created_at, sm.created_by, sm.last_updated_at, sm.last_updated_by`

// FindStatusByName resolves a catalog entry by name.
func (r *StatusRepository) FindStatusByName(ctx context.Context, name string) (*domain.Status, error) {
	query := `
		SELECT status_id, name, status_group
		FROM statuses
		WHERE name = $1;
	`
	var status domain.Status
	err := r.Pool.QueryRow(ctx, query, name).Scan(&status.StatusID, &status.Name, &status.Group)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find status by name %s: %w", name, err)
	}
	return &status, nil
}

// ListStatuses returns the whole catalog.
func (r *StatusRepository) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	query := `SELECT status_id, name, status_group FROM statuses ORDER BY status_group, name;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses: %w", err)
	}
	defer rows.Close()

	statuses := []domain.Status{}
	for rows.Next() {
		var s domain.Status
		if err := rows.Scan(&s.StatusID, &s.Name, &s.Group); err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		statuses = append(statuses, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating status rows: %w", rows.Err())
	}
	return statuses, nil
}

// FindActiveByGroup returns the single active mapping of the group.
func (r *StatusRepository) FindActiveByGroup(ctx context.Context, employeeID string, group domain.StatusGroup) (*domain.StatusMapping, error) {
	return findActiveByGroup(ctx, r.Pool, employeeID, group)
}

// FindActiveByGroupTx is FindActiveByGroup against a caller-owned transaction.
func (r *StatusRepository) FindActiveByGroupTx(ctx context.Context, tx pgx.Tx, employeeID string, group domain.StatusGroup) (*domain.StatusMapping, error) {
	return findActiveByGroup(ctx, tx, employeeID, group)
}

// querier abstracts pool and transaction for shared read paths.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func findActiveByGroup(ctx context.Context, q querier, employeeID string, group domain.StatusGroup) (*domain.StatusMapping, error) {
	query := `
		SELECT ` + statusMappingColumns + `
		FROM status_mappings sm
		JOIN statuses s ON s.status_id = sm.status_id
		WHERE sm.employee_id = $1 AND s.status_group = $2 AND sm.is_active;
	`
	var m domain.StatusMapping
	err := q.QueryRow(ctx, query, employeeID, group).Scan(
		&m.MappingID, &m.EmployeeID, &m.StatusID, &m.StatusName, &m.Group,
		&m.IsActive, &m.IsUpload,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active status for employee %s group %s: %w", employeeID, group, err)
	}
	return &m, nil
}

// FindAllActive returns every active mapping of the employee.
func (r *StatusRepository) FindAllActive(ctx context.Context, employeeID string) ([]domain.StatusMapping, error) {
	query := `
		SELECT ` + statusMappingColumns + `
		FROM status_mappings sm
		JOIN statuses s ON s.status_id = sm.status_id
		WHERE sm.employee_id = $1 AND sm.is_active
		ORDER BY s.status_group;
	`
	rows, err := r.Pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active statuses for employee %s: %w", employeeID, err)
	}
	defer rows.Close()
	return scanStatusMappings(rows)
}

// FindActiveByEmployeeIDs returns active mappings for many employees in one
// query, grouped by employee ID.
func (r *StatusRepository) FindActiveByEmployeeIDs(ctx context.Context, employeeIDs []string) (map[string][]domain.StatusMapping, error) {
	result := make(map[string][]domain.StatusMapping, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT ` + statusMappingColumns + `
		FROM status_mappings sm
		JOIN statuses s ON s.status_id = sm.status_id
		WHERE sm.employee_id = ANY($1) AND sm.is_active
		ORDER BY sm.employee_id, s.status_group;
	`
	rows, err := r.Pool.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch statuses: %w", err)
	}
	defer rows.Close()

	mappings, err := scanStatusMappings(rows)
	if err != nil {
		return nil, err
	}
	for _, m := range mappings {
		result[m.EmployeeID] = append(result[m.EmployeeID], m)
	}
	return result, nil
}

// LockEmployeeStatuses takes row-level locks on the employee's status rows so
// concurrent transitions on the same employee serialize for the duration of
// the transaction.
func (r *StatusRepository) LockEmployeeStatuses(ctx context.Context, tx pgx.Tx, employeeID string) error {
	query := `
		SELECT mapping_id FROM status_mappings
		WHERE employee_id = $1
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, employeeID)
	if err != nil {
		return fmt.Errorf("failed to lock status rows for employee %s: %w", employeeID, err)
	}
	rows.Close()
	if rows.Err() != nil {
		return fmt.Errorf("failed to lock status rows for employee %s: %w", employeeID, rows.Err())
	}
	return nil
}

// DeactivateGroup flips is_active to false on every active row of the group,
// always clearing is_upload. A non-nil exceptStatusID leaves that status
// untouched (used by the reinstate hand-off).
func (r *StatusRepository) DeactivateGroup(ctx context.Context, tx pgx.Tx, employeeID string, group domain.StatusGroup, exceptStatusID *string, actorID string) error {
	query := `
		UPDATE status_mappings sm
		SET is_active = FALSE, is_upload = FALSE, last_updated_at = $4, last_updated_by = $3
		FROM statuses s
		WHERE s.status_id = sm.status_id
		  AND sm.employee_id = $1
		  AND s.status_group = $2
		  AND sm.is_active
		  AND ($5::text IS NULL OR sm.status_id <> $5);
	`
	_, err := tx.Exec(ctx, query, employeeID, group, actorID, time.Now(), exceptStatusID)
	if err != nil {
		return fmt.Errorf("failed to deactivate group %s for employee %s: %w", group, employeeID, err)
	}
	return nil
}

// DeactivateMapping deactivates one specific row, clearing is_upload.
func (r *StatusRepository) DeactivateMapping(ctx context.Context, tx pgx.Tx, mappingID string, actorID string) error {
	query := `
		UPDATE status_mappings
		SET is_active = FALSE, is_upload = FALSE, last_updated_at = $3, last_updated_by = $2
		WHERE mapping_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, mappingID, actorID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to deactivate mapping %s: %w", mappingID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Activate activates the (employee, status) row. An existing history row for
// the exact pair is reactivated in place, keeping its original creation
// audit; otherwise a new row is inserted. Sibling rows of the group are not
// touched. A nil upload preserves the current flag on reactivation (and
// defaults to false on insert).
func (r *StatusRepository) Activate(ctx context.Context, tx pgx.Tx, employeeID string, statusID string, actorID string, upload *bool) (*domain.StatusMapping, error) {
	now := time.Now()

	query := `
		UPDATE status_mappings
		SET is_active = TRUE,
		    is_upload = COALESCE($4, is_upload),
		    last_updated_at = $5,
		    last_updated_by = $3
		WHERE employee_id = $1 AND status_id = $2
		RETURNING mapping_id;
	`
	var mappingID string
	err := tx.QueryRow(ctx, query, employeeID, statusID, actorID, upload, now).Scan(&mappingID)
	if errors.Is(err, pgx.ErrNoRows) {
		mappingID = uuid.NewString()
		insert := `
			INSERT INTO status_mappings (mapping_id, employee_id, status_id, is_active, is_upload, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, TRUE, COALESCE($6, FALSE), $5, $4, $5, $4);
		`
		if _, err := tx.Exec(ctx, insert, mappingID, employeeID, statusID, actorID, now, upload); err != nil {
			return nil, fmt.Errorf("failed to insert status mapping for employee %s: %w", employeeID, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to reactivate status mapping for employee %s: %w", employeeID, err)
	}

	return findMappingByIDTx(ctx, tx, mappingID)
}

func findMappingByIDTx(ctx context.Context, tx pgx.Tx, mappingID string) (*domain.StatusMapping, error) {
	query := `
		SELECT ` + statusMappingColumns + `
		FROM status_mappings sm
		JOIN statuses s ON s.status_id = sm.status_id
		WHERE sm.mapping_id = $1;
	`
	var m domain.StatusMapping
	err := tx.QueryRow(ctx, query, mappingID).Scan(
		&m.MappingID, &m.EmployeeID, &m.StatusID, &m.StatusName, &m.Group,
		&m.IsActive, &m.IsUpload,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load status mapping %s: %w", mappingID, err)
	}
	return &m, nil
}

func scanStatusMappings(rows pgx.Rows) ([]domain.StatusMapping, error) {
	mappings := []domain.StatusMapping{}
	for rows.Next() {
		var m domain.StatusMapping
		err := rows.Scan(
			&m.MappingID, &m.EmployeeID, &m.StatusID, &m.StatusName, &m.Group,
			&m.IsActive, &m.IsUpload,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status mapping row: %w", err)
		}
		mappings = append(mappings, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating status mapping rows: %w", rows.Err())
	}
	return mappings, nil
}
