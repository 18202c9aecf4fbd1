package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BuildPass/site_personnel_app/internal/apperrors"
	"github.com/BuildPass/site_personnel_app/internal/core/domain"
	portsrepo "github.com/BuildPass/site_personnel_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EmployeeRepository struct {
	BaseRepository
}

// NewEmployeeRepository creates a new repository for employee data.
func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{BaseRepository{Pool: pool}}
}

// Ensure EmployeeRepository implements the port.
var _ portsrepo.EmployeeRepositoryFacade = (*EmployeeRepository)(nil)

const employeeColumns = `
	e.employee_id, e.last_name, e.first_name, e.middle_name,
	e.birth_date, e.birth_place, e.citizenship_id,
	e.phone, e.email, e.position,
	e.tax_number, e.insurance_number,
	e.passport_type, e.passport_series, e.passport_number,
	e.passport_issued_by, e.passport_issue_date, e.passport_expiry,
	e.patent_number, e.patent_expiry, e.patent_issue_date, e.patent_blank_number,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by,
	c.citizenship_id, c.name, c.requires_patent`

const uniqueViolationCode = "23505"

func (r *EmployeeRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	query := `
		INSERT INTO employees (
			employee_id, last_name, first_name, middle_name,
			birth_date, birth_place, citizenship_id,
			phone, email, position,
			tax_number, insurance_number,
			passport_type, passport_series, passport_number,
			passport_issued_by, passport_issue_date, passport_expiry,
			patent_number, patent_expiry, patent_issue_date, patent_blank_number,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26);
	`
	_, err := r.Pool.Exec(ctx, query,
		employee.EmployeeID, employee.LastName, employee.FirstName, employee.MiddleName,
		employee.BirthDate, employee.BirthPlace, employee.CitizenshipID,
		employee.Phone, employee.Email, employee.Position,
		employee.TaxNumber, employee.InsuranceNumber,
		employee.PassportType, employee.PassportSeries, employee.PassportNumber,
		employee.PassportIssuedBy, employee.PassportIssueDate, employee.PassportExpiry,
		employee.PatentNumber, employee.PatentExpiry, employee.PatentIssueDate, employee.PatentBlankNumber,
		employee.CreatedAt, employee.CreatedBy, employee.LastUpdatedAt, employee.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("%w: document identifier already registered", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN citizenships c ON c.citizenship_id = e.citizenship_id
		WHERE e.employee_id = $1;
	`
	employee, err := scanEmployee(r.Pool.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find employee by ID %s: %w", employeeID, err)
	}
	return employee, nil
}

func (r *EmployeeRepository) ListEmployeesByCounterparty(ctx context.Context, counterpartyID string, limit int, offset int) ([]domain.Employee, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN citizenships c ON c.citizenship_id = e.citizenship_id
		JOIN employee_counterparty_mappings m ON m.employee_id = e.employee_id
		WHERE m.counterparty_id = $1
		ORDER BY e.last_name, e.first_name
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, counterpartyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}
		employees = append(employees, *employee)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating employee rows: %w", rows.Err())
	}
	return employees, nil
}

func (r *EmployeeRepository) FindByDocumentNumbers(ctx context.Context, taxNumber, insuranceNumber, patentNumber, passportNumber *string) ([]domain.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN citizenships c ON c.citizenship_id = e.citizenship_id
		WHERE ($1::text IS NOT NULL AND e.tax_number = $1)
		   OR ($2::text IS NOT NULL AND e.insurance_number = $2)
		   OR ($3::text IS NOT NULL AND e.patent_number = $3)
		   OR ($4::text IS NOT NULL AND e.passport_number = $4);
	`
	rows, err := r.Pool.Query(ctx, query, taxNumber, insuranceNumber, patentNumber, passportNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees by document numbers: %w", err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}
		employees = append(employees, *employee)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating employee rows: %w", rows.Err())
	}
	return employees, nil
}

func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, employee domain.Employee) error {
	query := `
		UPDATE employees SET
			last_name = $2, first_name = $3, middle_name = $4,
			birth_date = $5, birth_place = $6, citizenship_id = $7,
			phone = $8, email = $9, position = $10,
			tax_number = $11, insurance_number = $12,
			passport_type = $13, passport_series = $14, passport_number = $15,
			passport_issued_by = $16, passport_issue_date = $17, passport_expiry = $18,
			patent_number = $19, patent_expiry = $20, patent_issue_date = $21, patent_blank_number = $22,
			last_updated_at = $23, last_updated_by = $24
		WHERE employee_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		employee.EmployeeID,
		employee.LastName, employee.FirstName, employee.MiddleName,
		employee.BirthDate, employee.BirthPlace, employee.CitizenshipID,
		employee.Phone, employee.Email, employee.Position,
		employee.TaxNumber, employee.InsuranceNumber,
		employee.PassportType, employee.PassportSeries, employee.PassportNumber,
		employee.PassportIssuedBy, employee.PassportIssueDate, employee.PassportExpiry,
		employee.PatentNumber, employee.PatentExpiry, employee.PatentIssueDate, employee.PatentBlankNumber,
		employee.LastUpdatedAt, employee.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("%w: document identifier already registered", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update employee %s: %w", employee.EmployeeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteEmployee removes the employee and everything hanging off it in one
// transaction, so no mapping or status row is ever orphaned.
func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, employeeID string, deletedBy string, deletedAt time.Time) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	statements := []string{
		`DELETE FROM status_mappings WHERE employee_id = $1;`,
		`DELETE FROM actor_employee_links WHERE employee_id = $1;`,
		`DELETE FROM employee_counterparty_mappings WHERE employee_id = $1;`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, employeeID); err != nil {
			return fmt.Errorf("failed to cascade delete for employee %s: %w", employeeID, err)
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM employees WHERE employee_id = $1;`, employeeID)
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", employeeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit employee delete: %w", err)
	}
	return nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	var citizenshipID, citizenshipName *string
	var requiresPatent *bool
	err := row.Scan(
		&e.EmployeeID, &e.LastName, &e.FirstName, &e.MiddleName,
		&e.BirthDate, &e.BirthPlace, &e.CitizenshipID,
		&e.Phone, &e.Email, &e.Position,
		&e.TaxNumber, &e.InsuranceNumber,
		&e.PassportType, &e.PassportSeries, &e.PassportNumber,
		&e.PassportIssuedBy, &e.PassportIssueDate, &e.PassportExpiry,
		&e.PatentNumber, &e.PatentExpiry, &e.PatentIssueDate, &e.PatentBlankNumber,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
		&citizenshipID, &citizenshipName, &requiresPatent,
	)
	if err != nil {
		return nil, err
	}
	if citizenshipID != nil {
		e.Citizenship = &domain.Citizenship{
			CitizenshipID:  *citizenshipID,
			Name:           derefOrEmpty(citizenshipName),
			RequiresPatent: requiresPatent,
		}
	}
	return &e, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
