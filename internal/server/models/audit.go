package models

import "time"

// Audit operation kinds, matching the SQL verbs the triggers observe.
const (
	AuditInsert = "INSERT"
	AuditUpdate = "UPDATE"
	AuditDelete = "DELETE"
)

// AuditLogEntry is an immutable record of a committed mutation. Rows are
// appended by database triggers inside the mutating transaction and are never
// updated or deleted.
type AuditLogEntry struct {
	LogID     int64     `json:"log_id"`
	TableName string    `json:"table_name"`
	Operation string    `json:"operation"`
	UserID    *int64    `json:"user_id,omitempty"`
	Username  string    `json:"username"`
	ChangedAt time.Time `json:"changed_at"`
}
