package services

import (
	portsrepo "github.com/BuildPass/site_personnel_app/internal/core/ports/repositories"
	portssvc "github.com/BuildPass/site_personnel_app/internal/core/ports/services"
	"github.com/BuildPass/site_personnel_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Status and access come first since employee management depends on both.
	container.Status = NewStatusService(repos.StatusRepo)
	container.Access = NewAccessService(repos.CounterpartyRepo, cfg.DefaultCounterpartyID)

	container.Counterparty = NewCounterpartyService(repos.CounterpartyRepo, cfg.DefaultCounterpartyID)
	container.Employee = NewEmployeeService(
		repos.EmployeeRepo,
		repos.CounterpartyRepo,
		container.Status,
		container.Counterparty,
		container.Access,
		cfg.DefaultCounterpartyID,
	)

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg, container.User)

	return container
}
