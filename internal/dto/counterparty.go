package dto

import (
	"time"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
)

// CreateCounterpartyRequest defines data for creating a counterparty.
type CreateCounterpartyRequest struct {
	Name string `json:"name" binding:"required"`
}

// CounterpartyResponse defines data returned for a counterparty.
type CounterpartyResponse struct {
	CounterpartyID string             `json:"counterpartyID"`
	Name           string             `json:"name"`
	FieldConfig    domain.FieldConfig `json:"fieldConfig,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
}

// ToCounterpartyResponse converts domain.Counterparty to DTO.
func ToCounterpartyResponse(c *domain.Counterparty) CounterpartyResponse {
	return CounterpartyResponse{
		CounterpartyID: c.CounterpartyID,
		Name:           c.Name,
		FieldConfig:    c.FieldConfig,
		CreatedAt:      c.CreatedAt,
		LastUpdatedAt:  c.LastUpdatedAt,
	}
}

// ListCounterpartiesResponse wraps a list of counterparties.
type ListCounterpartiesResponse struct {
	Counterparties []CounterpartyResponse `json:"counterparties"`
}

// UpdateFieldConfigRequest replaces a counterparty's required-field config.
type UpdateFieldConfigRequest struct {
	FieldConfig domain.FieldConfig `json:"fieldConfig" binding:"required"`
}

// ListCounterpartiesParams defines query parameters for listing counterparties.
type ListCounterpartiesParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}
