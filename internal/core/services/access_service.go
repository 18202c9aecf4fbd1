package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BuildPass/site_personnel_app/internal/apperrors"
	"github.com/BuildPass/site_personnel_app/internal/core/domain"
	portsrepo "github.com/BuildPass/site_personnel_app/internal/core/ports/repositories"
	portssvc "github.com/BuildPass/site_personnel_app/internal/core/ports/services"
)

// accessService is the tenant access-control gate. The default counterparty
// ID is injected at construction; it is deployment configuration, never
// ambient global state.
type accessService struct {
	BaseService
	counterpartyRepo      portsrepo.CounterpartyReader
	defaultCounterpartyID string
}

// NewAccessService creates the access gate for the given default (shared)
// counterparty.
func NewAccessService(counterpartyRepo portsrepo.CounterpartyReader, defaultCounterpartyID string) portssvc.AccessAuthorizerSvc {
	return &accessService{
		counterpartyRepo:      counterpartyRepo,
		defaultCounterpartyID: defaultCounterpartyID,
	}
}

// Ensure accessService implements the authorizer interface.
var _ portssvc.AccessAuthorizerSvc = (*accessService)(nil)

// Authorize decides whether the actor may read or mutate the employee.
//
// Admins are always allowed. Default-counterparty actors read any employee
// the back office knows (mapped to the shared counterparty) but write only
// employees they own through an actor link. Actors of every other
// counterparty read and write exactly the employees mapped to their
// organization.
func (s *accessService) Authorize(ctx context.Context, actor domain.User, employeeID string, op domain.Operation) error {
	if actor.IsAdmin {
		return nil
	}

	if s.defaultCounterpartyID == "" {
		return fmt.Errorf("%w: default counterparty is not configured", apperrors.ErrConfiguration)
	}

	if actor.CounterpartyID == nil {
		s.LogDebug(ctx, "Actor has no counterparty, access denied",
			slog.String("user_id", actor.UserID))
		return fmt.Errorf("%w: user belongs to no counterparty", apperrors.ErrForbidden)
	}

	if *actor.CounterpartyID == s.defaultCounterpartyID {
		return s.authorizeSharedActor(ctx, actor, employeeID, op)
	}

	mapped, err := s.counterpartyRepo.HasEmployeeMapping(ctx, employeeID, *actor.CounterpartyID)
	if err != nil {
		return err
	}
	if !mapped {
		s.LogDebug(ctx, "Employee not mapped to actor's counterparty",
			slog.String("user_id", actor.UserID),
			slog.String("employee_id", employeeID))
		return fmt.Errorf("%w: employee is not assigned to your organization", apperrors.ErrForbidden)
	}
	return nil
}

// authorizeSharedActor handles the back-office rules: visibility flows
// through the shared-counterparty mapping, write rights through the actor's
// own link only.
func (s *accessService) authorizeSharedActor(ctx context.Context, actor domain.User, employeeID string, op domain.Operation) error {
	visible, err := s.counterpartyRepo.HasEmployeeMapping(ctx, employeeID, s.defaultCounterpartyID)
	if err != nil {
		return err
	}
	if !visible {
		return fmt.Errorf("%w: employee is not registered with the back office", apperrors.ErrForbidden)
	}
	if op == domain.OperationRead {
		return nil
	}

	owned, err := s.counterpartyRepo.HasActorLink(ctx, actor.UserID, employeeID)
	if err != nil {
		return err
	}
	if !owned {
		s.LogDebug(ctx, "Shared-counterparty actor does not own employee",
			slog.String("user_id", actor.UserID),
			slog.String("employee_id", employeeID))
		return fmt.Errorf("%w: employee belongs to another back-office user", apperrors.ErrForbidden)
	}
	return nil
}
