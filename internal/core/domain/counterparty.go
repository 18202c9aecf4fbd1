package domain

// Counterparty is a contracting organization whose users manage a slice of the
// employee population. One counterparty is designated by configuration as the
// default (shared back office); its visibility rules differ from all others.
type Counterparty struct {
	CounterpartyID string `json:"counterpartyID"`
	Name           string `json:"name"`
	// FieldConfig is this counterparty's required-field configuration,
	// externally edited as JSON.
	FieldConfig FieldConfig `json:"fieldConfig,omitempty"`
	AuditFields
}

// EmployeeCounterpartyMapping associates an employee with a counterparty and
// optionally a department/site. An employee may be mapped to several
// counterparties at once.
type EmployeeCounterpartyMapping struct {
	MappingID      string  `json:"mappingID"`
	EmployeeID     string  `json:"employeeID"`
	CounterpartyID string  `json:"counterpartyID"`
	Department     *string `json:"department,omitempty"`
	AuditFields
}

// ActorEmployeeLink ties one back-office user to one employee. It exists only
// for the default counterparty: without it a default-counterparty user may
// read an employee but never write it. A nil CounterpartyID is the sentinel
// for "the shared counterparty".
type ActorEmployeeLink struct {
	LinkID         string  `json:"linkID"`
	UserID         string  `json:"userID"`
	EmployeeID     string  `json:"employeeID"`
	CounterpartyID *string `json:"counterpartyID,omitempty"`
	AuditFields
}

// Operation is the access kind the gate decides on.
type Operation string

const (
	OperationRead  Operation = "READ"
	OperationWrite Operation = "WRITE"
)
