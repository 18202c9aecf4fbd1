package domain

// FieldKey names one configurable employee field in the per-counterparty
// required-field configuration.
type FieldKey string

const (
	FieldLastName   FieldKey = "lastName"
	FieldFirstName  FieldKey = "firstName"
	FieldMiddleName FieldKey = "middleName"
	FieldBirthDate  FieldKey = "birthDate"
	FieldBirthPlace FieldKey = "birthPlace"

	FieldCitizenship FieldKey = "citizenship"
	FieldPhone       FieldKey = "phone"
	FieldEmail       FieldKey = "email"
	FieldPosition    FieldKey = "position"

	FieldTaxNumber       FieldKey = "taxNumber"
	FieldInsuranceNumber FieldKey = "insuranceNumber"

	FieldPassportType      FieldKey = "passportType"
	FieldPassportSeries    FieldKey = "passportSeries"
	FieldPassportNumber    FieldKey = "passportNumber"
	FieldPassportIssuedBy  FieldKey = "passportIssuedBy"
	FieldPassportIssueDate FieldKey = "passportIssueDate"
	FieldPassportExpiry    FieldKey = "passportExpiry"

	FieldPatentNumber      FieldKey = "patentNumber"
	FieldPatentExpiry      FieldKey = "patentExpiry"
	FieldPatentIssueDate   FieldKey = "patentIssueDate"
	FieldPatentBlankNumber FieldKey = "patentBlankNumber"
)

// PatentFields is the work-permit document group. These keys are evaluated
// only when the employee's citizenship requires a patent.
var PatentFields = []FieldKey{
	FieldPatentNumber,
	FieldPatentExpiry,
	FieldPatentIssueDate,
	FieldPatentBlankNumber,
}

var knownFieldKeys = map[FieldKey]struct{}{
	FieldLastName: {}, FieldFirstName: {}, FieldMiddleName: {},
	FieldBirthDate: {}, FieldBirthPlace: {},
	FieldCitizenship: {}, FieldPhone: {}, FieldEmail: {}, FieldPosition: {},
	FieldTaxNumber: {}, FieldInsuranceNumber: {},
	FieldPassportType: {}, FieldPassportSeries: {}, FieldPassportNumber: {},
	FieldPassportIssuedBy: {}, FieldPassportIssueDate: {}, FieldPassportExpiry: {},
	FieldPatentNumber: {}, FieldPatentExpiry: {}, FieldPatentIssueDate: {},
	FieldPatentBlankNumber: {},
}

// IsKnownFieldKey reports whether the key names a configurable employee field.
func IsKnownFieldKey(key FieldKey) bool {
	_, ok := knownFieldKeys[key]
	return ok
}

// FieldRule is one entry of a counterparty's field configuration.
type FieldRule struct {
	Visible  bool `json:"visible"`
	Required bool `json:"required"`
}

// FieldConfig maps field keys to their visibility/requirement rules. It is
// loaded by the caller (per counterparty) and passed into the completeness
// evaluator as a plain value.
type FieldConfig map[FieldKey]FieldRule

// RequiredVisible reports whether a key participates in completeness checks.
func (fc FieldConfig) RequiredVisible(key FieldKey) bool {
	rule, ok := fc[key]
	return ok && rule.Visible && rule.Required
}
