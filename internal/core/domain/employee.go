package domain

import "time"

// PassportType distinguishes the identity document kind an employee holds.
type PassportType string

const (
	PassportNational PassportType = "NATIONAL"
	PassportForeign  PassportType = "FOREIGN"
)

// Citizenship is reference data. RequiresPatent is tri-state: nil means
// "unknown, assume a work patent is required".
type Citizenship struct {
	CitizenshipID  string `json:"citizenshipID"`
	Name           string `json:"name"`
	RequiresPatent *bool  `json:"requiresPatent"`
}

// PatentRequired reports whether patent document fields apply to this
// citizenship. Only an explicit false turns the requirement off.
func (c *Citizenship) PatentRequired() bool {
	if c == nil || c.RequiresPatent == nil {
		return true
	}
	return *c.RequiresPatent
}

// Employee is a construction-site worker record. Document identifiers
// (tax number, insurance number, patent number, passport number) are globally
// unique when present but may be absent while the record is a draft.
type Employee struct {
	EmployeeID string `json:"employeeID"`

	LastName   string  `json:"lastName"`
	FirstName  string  `json:"firstName"`
	MiddleName *string `json:"middleName,omitempty"`

	BirthDate  *time.Time `json:"birthDate,omitempty"`
	BirthPlace *string    `json:"birthPlace,omitempty"`

	CitizenshipID *string      `json:"citizenshipID,omitempty"`
	Citizenship   *Citizenship `json:"citizenship,omitempty"` // resolved on read

	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Position *string `json:"position,omitempty"`

	TaxNumber       *string `json:"taxNumber,omitempty"`       // INN
	InsuranceNumber *string `json:"insuranceNumber,omitempty"` // SNILS

	PassportType      *PassportType `json:"passportType,omitempty"`
	PassportSeries    *string       `json:"passportSeries,omitempty"`
	PassportNumber    *string       `json:"passportNumber,omitempty"`
	PassportIssuedBy  *string       `json:"passportIssuedBy,omitempty"`
	PassportIssueDate *time.Time    `json:"passportIssueDate,omitempty"`
	PassportExpiry    *time.Time    `json:"passportExpiry,omitempty"` // foreign passports only

	PatentNumber      *string    `json:"patentNumber,omitempty"`
	PatentExpiry      *time.Time `json:"patentExpiry,omitempty"`
	PatentIssueDate   *time.Time `json:"patentIssueDate,omitempty"`
	PatentBlankNumber *string    `json:"patentBlankNumber,omitempty"`

	AuditFields
}

// HasForeignPassport reports whether the foreign-passport expiry field applies.
func (e *Employee) HasForeignPassport() bool {
	return e.PassportType != nil && *e.PassportType == PassportForeign
}
