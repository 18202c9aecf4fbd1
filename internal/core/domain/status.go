package domain

// StatusGroup partitions the status catalog. Each group is an independent
// per-employee state dimension; at most one mapping row per (employee, group)
// may be active at a time.
type StatusGroup string

const (
	GroupStatus StatusGroup = "status"        // lifecycle: draft / new
	GroupCard   StatusGroup = "status_card"   // completeness: draft / completed
	GroupActive StatusGroup = "status_active" // employed / fired / inactive
	GroupHR     StatusGroup = "status_hr"     // HR sync state
	GroupSecure StatusGroup = "status_secure" // security clearance
)

// Catalog status names. The catalog is seeded by migration; a name missing at
// runtime is a configuration error, not a user error.
const (
	StatusDraft = "status_draft"
	StatusNew   = "status_new"

	StatusCardDraft     = "status_card_draft"
	StatusCardCompleted = "status_card_completed"

	StatusActiveEmployed = "status_active_employed"
	StatusActiveFired    = "status_active_fired"
	StatusActiveInactive = "status_active_inactive"

	StatusHRNew        = "status_hr_new"
	StatusHRNewCompl   = "status_hr_new_compl"
	StatusHREdited     = "status_hr_edited"
	StatusHRFiredOff   = "status_hr_fired_off"
	StatusHRFiredCompl = "status_hr_fired_compl"

	StatusSecureAllow = "status_secure_allow"
	StatusSecureBlock = "status_secure_block"
)

// IsKnownStatusGroup reports whether g names one of the five status groups.
func IsKnownStatusGroup(g StatusGroup) bool {
	switch g {
	case GroupStatus, GroupCard, GroupActive, GroupHR, GroupSecure:
		return true
	}
	return false
}

// Status is an immutable catalog entry.
type Status struct {
	StatusID string      `json:"statusID"`
	Name     string      `json:"name"`
	Group    StatusGroup `json:"group"`
}

// StatusMapping is one state-machine row: the assignment of a catalog status
// to an employee. History rows are kept forever; deactivation only flips
// IsActive (and always clears IsUpload).
type StatusMapping struct {
	MappingID  string `json:"mappingID"`
	EmployeeID string `json:"employeeID"`
	StatusID   string `json:"statusID"`
	// StatusName and Group are resolved from the catalog on read.
	StatusName string      `json:"statusName"`
	Group      StatusGroup `json:"group"`
	IsActive   bool        `json:"isActive"`
	// IsUpload marks the row as pending export to the external HR system.
	// It is cleared whenever the row is deactivated.
	IsUpload bool `json:"isUpload"`
	AuditFields
}
