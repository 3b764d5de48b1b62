package models

// Permission is reference data granted to roles via role_permissions.
type Permission struct {
	ID           int64  `json:"permission_id"`
	Name         string `json:"permission_name"`
	ResourceType string `json:"resource_type"`
	Description  string `json:"description"`
}
