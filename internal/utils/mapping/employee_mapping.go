package mapping

import (
	"github.com/BuildPass/site_personnel_app/internal/core/domain"
	"github.com/BuildPass/site_personnel_app/internal/dto"
)

// ToEmployeeResponse converts a domain Employee to its API representation.
func ToEmployeeResponse(e *domain.Employee) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		EmployeeID: e.EmployeeID,
		LastName:   e.LastName,
		FirstName:  e.FirstName,
		MiddleName: e.MiddleName,

		BirthDate:  e.BirthDate,
		BirthPlace: e.BirthPlace,

		CitizenshipID: e.CitizenshipID,

		Phone:    e.Phone,
		Email:    e.Email,
		Position: e.Position,

		TaxNumber:       e.TaxNumber,
		InsuranceNumber: e.InsuranceNumber,

		PassportType:      e.PassportType,
		PassportSeries:    e.PassportSeries,
		PassportNumber:    e.PassportNumber,
		PassportIssuedBy:  e.PassportIssuedBy,
		PassportIssueDate: e.PassportIssueDate,
		PassportExpiry:    e.PassportExpiry,

		PatentNumber:      e.PatentNumber,
		PatentExpiry:      e.PatentExpiry,
		PatentIssueDate:   e.PatentIssueDate,
		PatentBlankNumber: e.PatentBlankNumber,

		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
		LastUpdatedAt: e.LastUpdatedAt,
		LastUpdatedBy: e.LastUpdatedBy,
	}
	if e.Citizenship != nil {
		resp.Citizenship = &e.Citizenship.Name
	}
	return resp
}

// ToEmployeeListItem pairs the employee representation with its statuses.
func ToEmployeeListItem(item dto.EmployeeWithStatuses) dto.EmployeeListItem {
	return dto.EmployeeListItem{
		EmployeeResponse: ToEmployeeResponse(&item.Employee),
		Statuses:         dto.ToStatusMappingResponses(item.Statuses),
	}
}
