package completeness_test

import (
	"testing"
	"time"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
	"github.com/BuildPass/site_personnel_app/internal/utils/completeness"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func boolPtr(b bool) *bool { return &b }

func baseConfig() domain.FieldConfig {
	return domain.FieldConfig{
		domain.FieldLastName:       {Visible: true, Required: true},
		domain.FieldFirstName:      {Visible: true, Required: true},
		domain.FieldBirthDate:      {Visible: true, Required: true},
		domain.FieldTaxNumber:      {Visible: true, Required: true},
		domain.FieldPatentNumber:   {Visible: true, Required: true},
		domain.FieldPatentExpiry:   {Visible: true, Required: true},
		domain.FieldPassportExpiry: {Visible: true, Required: true},
	}
}

func filledEmployee() domain.Employee {
	patType := domain.PassportNational
	return domain.Employee{
		LastName:     "Petrov",
		FirstName:    "Ivan",
		BirthDate:    timePtr(time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC)),
		TaxNumber:    strPtr("500100732259"),
		PassportType: &patType,
		PatentNumber: strPtr("77-0001234"),
		PatentExpiry: timePtr(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)),
		Citizenship:  &domain.Citizenship{CitizenshipID: "uz", Name: "Uzbekistan"},
	}
}

func TestIsComplete_AllFilled(t *testing.T) {
	emp := filledEmployee()
	assert.True(t, completeness.IsComplete(emp, baseConfig()))
	assert.Empty(t, completeness.MissingFields(emp, baseConfig()))
}

func TestMissingFields_ReportsEmptyValues(t *testing.T) {
	emp := filledEmployee()
	emp.TaxNumber = nil
	emp.FirstName = "   " // whitespace only counts as missing

	missing := completeness.MissingFields(emp, baseConfig())
	assert.Equal(t, []domain.FieldKey{domain.FieldFirstName, domain.FieldTaxNumber}, missing)
	assert.False(t, completeness.IsComplete(emp, baseConfig()))
}

func TestMissingFields_SkipsFieldsNotRequiredOrHidden(t *testing.T) {
	emp := filledEmployee()
	emp.TaxNumber = nil

	cfg := baseConfig()
	cfg[domain.FieldTaxNumber] = domain.FieldRule{Visible: true, Required: false}
	assert.True(t, completeness.IsComplete(emp, cfg))

	cfg[domain.FieldTaxNumber] = domain.FieldRule{Visible: false, Required: true}
	assert.True(t, completeness.IsComplete(emp, cfg))
}

func TestMissingFields_PatentGroupSuppression(t *testing.T) {
	emp := filledEmployee()
	emp.PatentNumber = nil
	emp.PatentExpiry = nil

	// Citizenship without explicit requiresPatent=false keeps the group in play.
	missing := completeness.MissingFields(emp, baseConfig())
	assert.Contains(t, missing, domain.FieldPatentNumber)
	assert.Contains(t, missing, domain.FieldPatentExpiry)

	// Nil citizenship also keeps the group in play (unknown means required).
	emp.Citizenship = nil
	assert.Contains(t, completeness.MissingFields(emp, baseConfig()), domain.FieldPatentNumber)

	// Explicit requiresPatent=false suppresses every patent field.
	emp.Citizenship = &domain.Citizenship{CitizenshipID: "ru", Name: "Russia", RequiresPatent: boolPtr(false)}
	assert.True(t, completeness.IsComplete(emp, baseConfig()))
}

func TestMissingFields_ForeignPassportExpiry(t *testing.T) {
	emp := filledEmployee()
	emp.PassportExpiry = nil

	// National passport: expiry not evaluated even though configured required.
	assert.True(t, completeness.IsComplete(emp, baseConfig()))

	foreign := domain.PassportForeign
	emp.PassportType = &foreign
	missing := completeness.MissingFields(emp, baseConfig())
	assert.Contains(t, missing, domain.FieldPassportExpiry)

	emp.PassportExpiry = timePtr(time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, completeness.IsComplete(emp, baseConfig()))
}

func TestMissingFields_UnknownConfigKeysIgnored(t *testing.T) {
	emp := filledEmployee()
	cfg := baseConfig()
	cfg[domain.FieldKey("totallyUnknown")] = domain.FieldRule{Visible: true, Required: true}
	assert.True(t, completeness.IsComplete(emp, cfg))
}
