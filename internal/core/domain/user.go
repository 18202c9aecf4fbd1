package domain

import (
	"database/sql"
	"time"
)

// User is an acting principal. CounterpartyID links the user to the
// organization they act for; admins bypass the access gate entirely.
type User struct {
	UserID         string  `json:"userID"`
	Username       string  `json:"username"`
	PasswordHash   string  `json:"-"`
	Name           string  `json:"name"`
	IsAdmin        bool    `json:"isAdmin"`
	CounterpartyID *string `json:"counterpartyID,omitempty"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`

	// Refresh token fields (hash only, never the raw token)
	RefreshTokenHash       sql.NullString `json:"-"`
	RefreshTokenExpiryTime sql.NullTime   `json:"-"`
}
