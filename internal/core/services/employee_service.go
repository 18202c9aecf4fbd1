package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BuildPass/site_personnel_app/internal/apperrors"
	"github.com/BuildPass/site_personnel_app/internal/core/domain"
	portsrepo "github.com/BuildPass/site_personnel_app/internal/core/ports/repositories"
	portssvc "github.com/BuildPass/site_personnel_app/internal/core/ports/services"
	"github.com/BuildPass/site_personnel_app/internal/dto"
	"github.com/google/uuid"
)

// employeeService orchestrates employee CRUD around the access gate and the
// status transition engine.
type employeeService struct {
	BaseService
	employeeRepo          portsrepo.EmployeeRepositoryFacade
	counterpartyRepo      portsrepo.CounterpartyRepositoryFacade
	statusSvc             portssvc.StatusSvcFacade
	counterpartySvc       portssvc.CounterpartyReaderSvc
	accessSvc             portssvc.AccessAuthorizerSvc
	defaultCounterpartyID string
}

// NewEmployeeService creates a new employee service with the provided dependencies.
func NewEmployeeService(
	employeeRepo portsrepo.EmployeeRepositoryFacade,
	counterpartyRepo portsrepo.CounterpartyRepositoryFacade,
	statusSvc portssvc.StatusSvcFacade,
	counterpartySvc portssvc.CounterpartyReaderSvc,
	accessSvc portssvc.AccessAuthorizerSvc,
	defaultCounterpartyID string,
) portssvc.EmployeeSvcFacade {
	return &employeeService{
		employeeRepo:          employeeRepo,
		counterpartyRepo:      counterpartyRepo,
		statusSvc:             statusSvc,
		counterpartySvc:       counterpartySvc,
		accessSvc:             accessSvc,
		defaultCounterpartyID: defaultCounterpartyID,
	}
}

// Ensure employeeService implements the facade.
var _ portssvc.EmployeeSvcFacade = (*employeeService)(nil)

// GetEmployee retrieves an employee after the gate allows the read.
func (s *employeeService) GetEmployee(ctx context.Context, actor domain.User, employeeID string) (*domain.Employee, error) {
	if err := s.accessSvc.Authorize(ctx, actor, employeeID, domain.OperationRead); err != nil {
		return nil, err
	}
	return s.employeeRepo.FindEmployeeByID(ctx, employeeID)
}

// ListEmployees returns the counterparty's employees together with their
// current statuses, fetched through the batch reader to avoid N+1 lookups.
func (s *employeeService) ListEmployees(ctx context.Context, actor domain.User, counterpartyID string, limit, offset int) ([]dto.EmployeeWithStatuses, error) {
	if !actor.IsAdmin {
		if actor.CounterpartyID == nil || *actor.CounterpartyID != counterpartyID {
			// Back-office users list through the shared counterparty only.
			if actor.CounterpartyID == nil || *actor.CounterpartyID != s.defaultCounterpartyID || counterpartyID != s.defaultCounterpartyID {
				return nil, fmt.Errorf("%w: cannot list another organization's employees", apperrors.ErrForbidden)
			}
		}
	}

	employees, err := s.employeeRepo.ListEmployeesByCounterparty(ctx, counterpartyID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list employees",
			slog.String("counterparty_id", counterpartyID))
		return nil, err
	}

	ids := make([]string, len(employees))
	for i, e := range employees {
		ids[i] = e.EmployeeID
	}
	statuses, err := s.statusSvc.GetBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]dto.EmployeeWithStatuses, len(employees))
	for i, e := range employees {
		result[i] = dto.EmployeeWithStatuses{
			Employee: e,
			Statuses: statuses[e.EmployeeID],
		}
	}
	return result, nil
}

// CreateEmployee creates the draft record, its counterparty mapping, the
// creator's ownership link (shared counterparty only) and the initial
// statuses, then runs the first completeness recompute.
func (s *employeeService) CreateEmployee(ctx context.Context, actor domain.User, req dto.CreateEmployeeRequest) (*domain.Employee, error) {
	if !actor.IsAdmin && (actor.CounterpartyID == nil ||
		(*actor.CounterpartyID != req.CounterpartyID && *actor.CounterpartyID != s.defaultCounterpartyID)) {
		return nil, fmt.Errorf("%w: cannot create employees for another organization", apperrors.ErrForbidden)
	}

	if err := s.checkDocumentUniqueness(ctx, "", req.TaxNumber, req.InsuranceNumber, req.PatentNumber, req.PassportNumber); err != nil {
		return nil, err
	}

	now := time.Now()
	employee := domain.Employee{
		EmployeeID: uuid.NewString(),
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	applyEmployeeFields(&employee, req.EmployeeFields)

	if err := s.employeeRepo.SaveEmployee(ctx, employee); err != nil {
		s.LogError(ctx, err, "Failed to save employee")
		return nil, err
	}

	mapping := domain.EmployeeCounterpartyMapping{
		MappingID:      uuid.NewString(),
		EmployeeID:     employee.EmployeeID,
		CounterpartyID: req.CounterpartyID,
		Department:     req.Department,
		AuditFields:    employee.AuditFields,
	}
	if err := s.counterpartyRepo.SaveEmployeeMapping(ctx, mapping); err != nil {
		s.LogError(ctx, err, "Failed to save employee mapping",
			slog.String("employee_id", employee.EmployeeID))
		return nil, err
	}

	// Back-office drafts are owned by their creator; without the link other
	// shared-counterparty users can read but never write this record.
	if actor.CounterpartyID != nil && *actor.CounterpartyID == s.defaultCounterpartyID {
		link := domain.ActorEmployeeLink{
			LinkID:      uuid.NewString(),
			UserID:      actor.UserID,
			EmployeeID:  employee.EmployeeID,
			AuditFields: employee.AuditFields,
		}
		if err := s.counterpartyRepo.SaveActorLink(ctx, link); err != nil {
			s.LogError(ctx, err, "Failed to save actor link",
				slog.String("employee_id", employee.EmployeeID))
			return nil, err
		}
	}

	if err := s.statusSvc.InitializeStatuses(ctx, employee.EmployeeID, actor.UserID); err != nil {
		return nil, err
	}

	cfg, err := s.counterpartySvc.ResolveFieldConfig(ctx, req.CounterpartyID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.employeeRepo.FindEmployeeByID(ctx, employee.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := s.statusSvc.RecomputeOnEdit(ctx, *snapshot, cfg, actor.UserID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Employee created",
		slog.String("employee_id", employee.EmployeeID),
		slog.String("counterparty_id", req.CounterpartyID))
	return snapshot, nil
}

// UpdateEmployee applies a field update, recomputes derived statuses and
// reconciles the activity group with the submitted fired/inactive flags.
func (s *employeeService) UpdateEmployee(ctx context.Context, actor domain.User, employeeID string, req dto.UpdateEmployeeRequest) (*domain.Employee, error) {
	if err := s.accessSvc.Authorize(ctx, actor, employeeID, domain.OperationWrite); err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	if req.LastName != nil {
		employee.LastName = *req.LastName
	}
	if req.FirstName != nil {
		employee.FirstName = *req.FirstName
	}
	if req.MiddleName != nil {
		employee.MiddleName = req.MiddleName
	}
	applyEmployeeFields(employee, req.EmployeeFields)
	employee.LastUpdatedAt = time.Now()
	employee.LastUpdatedBy = actor.UserID

	if err := s.checkDocumentUniqueness(ctx, employeeID, employee.TaxNumber, employee.InsuranceNumber, employee.PatentNumber, employee.PassportNumber); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.UpdateEmployee(ctx, *employee); err != nil {
		s.LogError(ctx, err, "Failed to update employee",
			slog.String("employee_id", employeeID))
		return nil, err
	}

	counterpartyID := s.defaultCounterpartyID
	if actor.CounterpartyID != nil {
		counterpartyID = *actor.CounterpartyID
	}
	cfg, err := s.counterpartySvc.ResolveFieldConfig(ctx, counterpartyID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.employeeRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	// One transaction for the whole status consequence of the update, so the
	// recompute never commits without the flag reconciliation.
	if err := s.statusSvc.ApplyEdit(ctx, *snapshot, cfg, req.Fired, req.Inactive, actor.UserID); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// DeleteEmployee removes the employee with cascading cleanup of mappings,
// links and status history.
func (s *employeeService) DeleteEmployee(ctx context.Context, actor domain.User, employeeID string) error {
	if err := s.accessSvc.Authorize(ctx, actor, employeeID, domain.OperationWrite); err != nil {
		return err
	}
	if err := s.employeeRepo.DeleteEmployee(ctx, employeeID, actor.UserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to delete employee",
			slog.String("employee_id", employeeID))
		return err
	}
	s.LogInfo(ctx, "Employee deleted", slog.String("employee_id", employeeID))
	return nil
}

// checkDocumentUniqueness rejects the mutation when any supplied document
// identifier is already registered to a different employee.
func (s *employeeService) checkDocumentUniqueness(ctx context.Context, selfID string, taxNumber, insuranceNumber, patentNumber, passportNumber *string) error {
	if taxNumber == nil && insuranceNumber == nil && patentNumber == nil && passportNumber == nil {
		return nil
	}
	holders, err := s.employeeRepo.FindByDocumentNumbers(ctx, taxNumber, insuranceNumber, patentNumber, passportNumber)
	if err != nil {
		return err
	}
	for _, h := range holders {
		if h.EmployeeID != selfID {
			return fmt.Errorf("%w: document identifier already registered to another employee", apperrors.ErrDuplicate)
		}
	}
	return nil
}

// applyEmployeeFields copies the optional document/contact fields of a
// request onto the employee. Only supplied (non-nil) values overwrite.
func applyEmployeeFields(e *domain.Employee, f dto.EmployeeFields) {
	if f.BirthDate != nil {
		e.BirthDate = f.BirthDate
	}
	if f.BirthPlace != nil {
		e.BirthPlace = f.BirthPlace
	}
	if f.CitizenshipID != nil {
		e.CitizenshipID = f.CitizenshipID
	}
	if f.Phone != nil {
		e.Phone = f.Phone
	}
	if f.Email != nil {
		e.Email = f.Email
	}
	if f.Position != nil {
		e.Position = f.Position
	}
	if f.TaxNumber != nil {
		e.TaxNumber = f.TaxNumber
	}
	if f.InsuranceNumber != nil {
		e.InsuranceNumber = f.InsuranceNumber
	}
	if f.PassportType != nil {
		e.PassportType = f.PassportType
	}
	if f.PassportSeries != nil {
		e.PassportSeries = f.PassportSeries
	}
	if f.PassportNumber != nil {
		e.PassportNumber = f.PassportNumber
	}
	if f.PassportIssuedBy != nil {
		e.PassportIssuedBy = f.PassportIssuedBy
	}
	if f.PassportIssueDate != nil {
		e.PassportIssueDate = f.PassportIssueDate
	}
	if f.PassportExpiry != nil {
		e.PassportExpiry = f.PassportExpiry
	}
	if f.PatentNumber != nil {
		e.PatentNumber = f.PatentNumber
	}
	if f.PatentExpiry != nil {
		e.PatentExpiry = f.PatentExpiry
	}
	if f.PatentIssueDate != nil {
		e.PatentIssueDate = f.PatentIssueDate
	}
	if f.PatentBlankNumber != nil {
		e.PatentBlankNumber = f.PatentBlankNumber
	}
}
