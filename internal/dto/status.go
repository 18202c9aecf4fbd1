package dto

import (
	"time"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
)

// StatusMappingResponse defines data returned for one status assignment.
type StatusMappingResponse struct {
	MappingID  string             `json:"mappingID"`
	EmployeeID string             `json:"employeeID"`
	StatusName string             `json:"statusName"`
	Group      domain.StatusGroup `json:"group"`
	IsActive   bool               `json:"isActive"`
	IsUpload   bool               `json:"isUpload"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// ToStatusMappingResponse converts domain.StatusMapping to DTO.
func ToStatusMappingResponse(m domain.StatusMapping) StatusMappingResponse {
	return StatusMappingResponse{
		MappingID:  m.MappingID,
		EmployeeID: m.EmployeeID,
		StatusName: m.StatusName,
		Group:      m.Group,
		IsActive:   m.IsActive,
		IsUpload:   m.IsUpload,
		UpdatedAt:  m.LastUpdatedAt,
	}
}

// ToStatusMappingResponses converts a slice of mappings to DTOs.
func ToStatusMappingResponses(ms []domain.StatusMapping) []StatusMappingResponse {
	out := make([]StatusMappingResponse, len(ms))
	for i, m := range ms {
		out[i] = ToStatusMappingResponse(m)
	}
	return out
}

// MarkEditedRequest carries the optional upload flag for the mark-edited
// action. A nil Upload defaults to true.
type MarkEditedRequest struct {
	Upload *bool `json:"upload"`
}

// BatchStatusRequest asks for the current statuses of many employees at once.
type BatchStatusRequest struct {
	EmployeeIDs []string `json:"employeeIDs" binding:"required,min=1,dive,uuid"`
}

// BatchStatusResponse groups current statuses by employee ID.
type BatchStatusResponse struct {
	Statuses map[string][]StatusMappingResponse `json:"statuses"`
}
