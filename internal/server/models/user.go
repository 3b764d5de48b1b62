// Package models contains the persistent domain types of the identity store.
package models

import "time"

// User statuses. Status and IsActive move together: a DELETED user always has
// IsActive=false.
const (
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusDeleted   = "DELETED"
)

// Address is the structured postal address stored with every user. All parts
// default to the empty string.
type Address struct {
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
}

// User is an identity record. Rows are never physically removed; deletion is
// a transition to IsActive=false, StatusDeleted.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Address      Address   `json:"address"`
	Status       string    `json:"status"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserWithRoles is the listing row of active users with their aggregated role
// names.
type UserWithRoles struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Roles     []string  `json:"roles"`
}
