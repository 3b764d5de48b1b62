package models

import "time"

// DefaultRoleName is the role assigned to users created without explicit
// roles. It is resolved by name at creation time; if the seed data does not
// contain it, the user is created with zero roles.
const DefaultRoleName = "Regular User"

// Role is reference data seeded by migrations, not created through the API.
type Role struct {
	ID          int64  `json:"role_id"`
	Name        string `json:"role_name"`
	Description string `json:"description"`
}

// RoleAssignment links a user to a role. The (user, role) pair is unique;
// re-assigning an already held role is a no-op. An assignment whose ExpiresAt
// lies in the past is excluded from permission resolution and login-time role
// listing but stays in place until explicitly revoked.
type RoleAssignment struct {
	RoleID      int64      `json:"role_id"`
	RoleName    string     `json:"role_name"`
	Description string     `json:"description"`
	AssignedBy  *int64     `json:"assigned_by,omitempty"`
	AssignedAt  time.Time  `json:"assigned_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the assignment has a past expiry.
func (a *RoleAssignment) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}
