package completeness

import (
	"strings"
	"time"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
)

// MissingFields returns the field keys that are required and visible for the
// given configuration but not filled on the employee record. The result is
// deterministic: keys come back in the fixed evaluation order below.
//
// Two conditional groups are suppressed regardless of configuration:
// patent document fields when the employee's citizenship does not require a
// work patent, and the foreign-passport expiry unless the passport type is
// foreign.
func MissingFields(employee domain.Employee, cfg domain.FieldConfig) []domain.FieldKey {
	patentApplies := employee.Citizenship.PatentRequired()

	var missing []domain.FieldKey
	for _, key := range evaluationOrder {
		if !cfg.RequiredVisible(key) {
			continue
		}
		if isPatentField(key) && !patentApplies {
			continue
		}
		if key == domain.FieldPassportExpiry && !employee.HasForeignPassport() {
			continue
		}
		if !isFilled(employee, key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// IsComplete reports whether the employee satisfies every applicable
// required field of the configuration.
func IsComplete(employee domain.Employee, cfg domain.FieldConfig) bool {
	return len(MissingFields(employee, cfg)) == 0
}

var evaluationOrder = []domain.FieldKey{
	domain.FieldLastName,
	domain.FieldFirstName,
	domain.FieldMiddleName,
	domain.FieldBirthDate,
	domain.FieldBirthPlace,
	domain.FieldCitizenship,
	domain.FieldPhone,
	domain.FieldEmail,
	domain.FieldPosition,
	domain.FieldTaxNumber,
	domain.FieldInsuranceNumber,
	domain.FieldPassportType,
	domain.FieldPassportSeries,
	domain.FieldPassportNumber,
	domain.FieldPassportIssuedBy,
	domain.FieldPassportIssueDate,
	domain.FieldPassportExpiry,
	domain.FieldPatentNumber,
	domain.FieldPatentExpiry,
	domain.FieldPatentIssueDate,
	domain.FieldPatentBlankNumber,
}

func isPatentField(key domain.FieldKey) bool {
	for _, pf := range domain.PatentFields {
		if key == pf {
			return true
		}
	}
	return false
}

// isFilled treats nil pointers as missing and, for strings, values that are
// empty after trimming whitespace.
func isFilled(e domain.Employee, key domain.FieldKey) bool {
	switch key {
	case domain.FieldLastName:
		return filledString(&e.LastName)
	case domain.FieldFirstName:
		return filledString(&e.FirstName)
	case domain.FieldMiddleName:
		return filledString(e.MiddleName)
	case domain.FieldBirthDate:
		return filledTime(e.BirthDate)
	case domain.FieldBirthPlace:
		return filledString(e.BirthPlace)
	case domain.FieldCitizenship:
		return filledString(e.CitizenshipID)
	case domain.FieldPhone:
		return filledString(e.Phone)
	case domain.FieldEmail:
		return filledString(e.Email)
	case domain.FieldPosition:
		return filledString(e.Position)
	case domain.FieldTaxNumber:
		return filledString(e.TaxNumber)
	case domain.FieldInsuranceNumber:
		return filledString(e.InsuranceNumber)
	case domain.FieldPassportType:
		if e.PassportType == nil {
			return false
		}
		s := string(*e.PassportType)
		return filledString(&s)
	case domain.FieldPassportSeries:
		return filledString(e.PassportSeries)
	case domain.FieldPassportNumber:
		return filledString(e.PassportNumber)
	case domain.FieldPassportIssuedBy:
		return filledString(e.PassportIssuedBy)
	case domain.FieldPassportIssueDate:
		return filledTime(e.PassportIssueDate)
	case domain.FieldPassportExpiry:
		return filledTime(e.PassportExpiry)
	case domain.FieldPatentNumber:
		return filledString(e.PatentNumber)
	case domain.FieldPatentExpiry:
		return filledTime(e.PatentExpiry)
	case domain.FieldPatentIssueDate:
		return filledTime(e.PatentIssueDate)
	case domain.FieldPatentBlankNumber:
		return filledString(e.PatentBlankNumber)
	default:
		// Unknown keys in external config are ignored rather than
		// blocking completeness.
		return true
	}
}

func filledString(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func filledTime(t *time.Time) bool {
	return t != nil && !t.IsZero()
}
