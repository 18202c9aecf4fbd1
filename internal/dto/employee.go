package dto

import (
	"time"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
)

// --- Employee DTOs ---

// CreateEmployeeRequest defines data for creating a new employee draft.
// Only the name parts are mandatory; everything else may arrive later.
type CreateEmployeeRequest struct {
	CounterpartyID string  `json:"counterpartyID" binding:"required,uuid"`
	Department     *string `json:"department"`

	LastName   string  `json:"lastName" binding:"required"`
	FirstName  string  `json:"firstName" binding:"required"`
	MiddleName *string `json:"middleName"`

	EmployeeFields
}

// UpdateEmployeeRequest defines the data allowed for updating an employee.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateEmployeeRequest struct {
	LastName   *string `json:"lastName"`
	FirstName  *string `json:"firstName"`
	MiddleName *string `json:"middleName"`

	EmployeeFields

	// Fired/Inactive mirror the HR checkboxes of the profile form; the
	// activity status group is reconciled against them on every update.
	Fired    bool `json:"fired"`
	Inactive bool `json:"inactive"`
}

// EmployeeFields groups the optional document/contact fields shared by the
// create and update requests.
type EmployeeFields struct {
	BirthDate  *time.Time `json:"birthDate"`
	BirthPlace *string    `json:"birthPlace"`

	CitizenshipID *string `json:"citizenshipID"`

	Phone    *string `json:"phone"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Position *string `json:"position"`

	TaxNumber       *string `json:"taxNumber"`
	InsuranceNumber *string `json:"insuranceNumber"`

	PassportType      *domain.PassportType `json:"passportType" binding:"omitempty,oneof=NATIONAL FOREIGN"`
	PassportSeries    *string              `json:"passportSeries"`
	PassportNumber    *string              `json:"passportNumber"`
	PassportIssuedBy  *string              `json:"passportIssuedBy"`
	PassportIssueDate *time.Time           `json:"passportIssueDate"`
	PassportExpiry    *time.Time           `json:"passportExpiry"`

	PatentNumber      *string    `json:"patentNumber"`
	PatentExpiry      *time.Time `json:"patentExpiry"`
	PatentIssueDate   *time.Time `json:"patentIssueDate"`
	PatentBlankNumber *string    `json:"patentBlankNumber"`
}

// ListEmployeesParams defines query parameters for listing employees.
type ListEmployeesParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// EmployeeResponse defines data returned for an employee.
type EmployeeResponse struct {
	EmployeeID string  `json:"employeeID"`
	LastName   string  `json:"lastName"`
	FirstName  string  `json:"firstName"`
	MiddleName *string `json:"middleName,omitempty"`

	BirthDate  *time.Time `json:"birthDate,omitempty"`
	BirthPlace *string    `json:"birthPlace,omitempty"`

	CitizenshipID *string `json:"citizenshipID,omitempty"`
	Citizenship   *string `json:"citizenship,omitempty"`

	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Position *string `json:"position,omitempty"`

	TaxNumber       *string `json:"taxNumber,omitempty"`
	InsuranceNumber *string `json:"insuranceNumber,omitempty"`

	PassportType      *domain.PassportType `json:"passportType,omitempty"`
	PassportSeries    *string              `json:"passportSeries,omitempty"`
	PassportNumber    *string              `json:"passportNumber,omitempty"`
	PassportIssuedBy  *string              `json:"passportIssuedBy,omitempty"`
	PassportIssueDate *time.Time           `json:"passportIssueDate,omitempty"`
	PassportExpiry    *time.Time           `json:"passportExpiry,omitempty"`

	PatentNumber      *string    `json:"patentNumber,omitempty"`
	PatentExpiry      *time.Time `json:"patentExpiry,omitempty"`
	PatentIssueDate   *time.Time `json:"patentIssueDate,omitempty"`
	PatentBlankNumber *string    `json:"patentBlankNumber,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// EmployeeWithStatuses pairs an employee with its current per-group statuses,
// as returned by listing views.
type EmployeeWithStatuses struct {
	Employee domain.Employee        `json:"employee"`
	Statuses []domain.StatusMapping `json:"statuses"`
}

// ListEmployeesResponse wraps the employee list for the API.
type ListEmployeesResponse struct {
	Employees []EmployeeListItem `json:"employees"`
}

// EmployeeListItem is one row of the listing view.
type EmployeeListItem struct {
	EmployeeResponse
	Statuses []StatusMappingResponse `json:"statuses"`
}
