package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	EmployeeRepo     EmployeeRepositoryFacade
	CounterpartyRepo CounterpartyRepositoryFacade
	StatusRepo       StatusRepositoryWithTx
	UserRepo         UserRepositoryFacade
}
