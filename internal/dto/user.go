package dto

import (
	"time"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
)

// CreateUserRequest defines data for creating a new user.
type CreateUserRequest struct {
	Username       string  `json:"username" binding:"required,min=3"`
	Password       string  `json:"password" binding:"required,min=8"`
	Name           string  `json:"name" binding:"required"`
	CounterpartyID *string `json:"counterpartyID" binding:"omitempty,uuid"`
	IsAdmin        bool    `json:"isAdmin"`
}

// LoginRequest defines the credentials for a login attempt.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RefreshTokenResponse represents the response for a successful token refresh.
type RefreshTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID         string    `json:"userID"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	IsAdmin        bool      `json:"isAdmin"`
	CounterpartyID *string   `json:"counterpartyID,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:         u.UserID,
		Username:       u.Username,
		Name:           u.Name,
		IsAdmin:        u.IsAdmin,
		CounterpartyID: u.CounterpartyID,
		CreatedAt:      u.CreatedAt,
	}
}
