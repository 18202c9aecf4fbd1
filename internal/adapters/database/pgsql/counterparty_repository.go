package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BuildPass/site_personnel_app/internal/apperrors"
	"github.com/BuildPass/site_personnel_app/internal/core/domain"
	portsrepo "github.com/BuildPass/site_personnel_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CounterpartyRepository struct {
	BaseRepository
}

// NewCounterpartyRepository creates a new repository for counterparty data.
func NewCounterpartyRepository(pool *pgxpool.Pool) *CounterpartyRepository {
	return &CounterpartyRepository{BaseRepository{Pool: pool}}
}

// Ensure CounterpartyRepository implements the port.
var _ portsrepo.CounterpartyRepositoryFacade = (*CounterpartyRepository)(nil)

func (r *CounterpartyRepository) FindCounterpartyByID(ctx context.Context, counterpartyID string) (*domain.Counterparty, error) {
	query := `
		SELECT counterparty_id, name, field_config, created_at, created_by, last_updated_at, last_updated_by
		FROM counterparties
		WHERE counterparty_id = $1;
	`
	var c domain.Counterparty
	var rawConfig []byte
	err := r.Pool.QueryRow(ctx, query, counterpartyID).Scan(
		&c.CounterpartyID, &c.Name, &rawConfig,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find counterparty by ID %s: %w", counterpartyID, err)
	}
	if len(rawConfig) > 0 {
		if err := json.Unmarshal(rawConfig, &c.FieldConfig); err != nil {
			return nil, fmt.Errorf("%w: malformed field config for counterparty %s: %v", apperrors.ErrConfiguration, counterpartyID, err)
		}
	}
	return &c, nil
}

func (r *CounterpartyRepository) ListCounterparties(ctx context.Context, limit int, offset int) ([]domain.Counterparty, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT counterparty_id, name, field_config, created_at, created_by, last_updated_at, last_updated_by
		FROM counterparties
		ORDER BY name
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query counterparties: %w", err)
	}
	defer rows.Close()

	counterparties := []domain.Counterparty{}
	for rows.Next() {
		var c domain.Counterparty
		var rawConfig []byte
		err := rows.Scan(
			&c.CounterpartyID, &c.Name, &rawConfig,
			&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan counterparty row: %w", err)
		}
		if len(rawConfig) > 0 {
			if err := json.Unmarshal(rawConfig, &c.FieldConfig); err != nil {
				return nil, fmt.Errorf("%w: malformed field config for counterparty %s: %v", apperrors.ErrConfiguration, c.CounterpartyID, err)
			}
		}
		counterparties = append(counterparties, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating counterparty rows: %w", rows.Err())
	}
	return counterparties, nil
}

func (r *CounterpartyRepository) HasEmployeeMapping(ctx context.Context, employeeID, counterpartyID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM employee_counterparty_mappings
			WHERE employee_id = $1 AND counterparty_id = $2
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, employeeID, counterpartyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check employee mapping: %w", err)
	}
	return exists, nil
}

func (r *CounterpartyRepository) HasActorLink(ctx context.Context, userID, employeeID string) (bool, error) {
	// counterparty_id IS NULL is the sentinel for the shared counterparty.
	query := `
		SELECT EXISTS (
			SELECT 1 FROM actor_employee_links
			WHERE user_id = $1 AND employee_id = $2 AND counterparty_id IS NULL
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, userID, employeeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check actor link: %w", err)
	}
	return exists, nil
}

func (r *CounterpartyRepository) SaveCounterparty(ctx context.Context, counterparty domain.Counterparty) error {
	rawConfig, err := json.Marshal(counterparty.FieldConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal field config: %w", err)
	}

	query := `
		INSERT INTO counterparties (counterparty_id, name, field_config, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (counterparty_id) DO UPDATE SET
			name = EXCLUDED.name,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err = r.Pool.Exec(ctx, query,
		counterparty.CounterpartyID, counterparty.Name, rawConfig,
		counterparty.CreatedAt, counterparty.CreatedBy, counterparty.LastUpdatedAt, counterparty.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save counterparty: %w", err)
	}
	return nil
}

func (r *CounterpartyRepository) UpdateFieldConfig(ctx context.Context, counterpartyID string, cfg domain.FieldConfig, updatedBy string) error {
	rawConfig, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal field config: %w", err)
	}

	query := `
		UPDATE counterparties
		SET field_config = $2, last_updated_at = $3, last_updated_by = $4
		WHERE counterparty_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, counterpartyID, rawConfig, time.Now(), updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update field config for counterparty %s: %w", counterpartyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CounterpartyRepository) SaveEmployeeMapping(ctx context.Context, mapping domain.EmployeeCounterpartyMapping) error {
	query := `
		INSERT INTO employee_counterparty_mappings (mapping_id, employee_id, counterparty_id, department, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id, counterparty_id) DO UPDATE SET
			department = EXCLUDED.department,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		mapping.MappingID, mapping.EmployeeID, mapping.CounterpartyID, mapping.Department,
		mapping.CreatedAt, mapping.CreatedBy, mapping.LastUpdatedAt, mapping.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save employee mapping: %w", err)
	}
	return nil
}

func (r *CounterpartyRepository) SaveActorLink(ctx context.Context, link domain.ActorEmployeeLink) error {
	query := `
		INSERT INTO actor_employee_links (link_id, user_id, employee_id, counterparty_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, employee_id) DO NOTHING;
	`
	_, err := r.Pool.Exec(ctx, query,
		link.LinkID, link.UserID, link.EmployeeID, link.CounterpartyID,
		link.CreatedAt, link.CreatedBy, link.LastUpdatedAt, link.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save actor link: %w", err)
	}
	return nil
}
