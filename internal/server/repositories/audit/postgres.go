package audit

import (
	"context"
	"fmt"

	"github.com/mkalvans/userhub/internal/dbx"
	"github.com/mkalvans/userhub/internal/server/models"
)

// PostgresRepository reads the bounded recent-history view of the audit log.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Recent returns up to limit entries, newest first. The backing view is
// itself bounded, so full-history scans are not reachable from here.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	query := `SELECT log_id, table_name, operation, user_id, username, changed_at
		 FROM v_recent_audit_log
		 LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.AuditLogEntry{}
	for rows.Next() {
		entry := &models.AuditLogEntry{}
		if err := rows.Scan(&entry.LogID, &entry.TableName, &entry.Operation, &entry.UserID, &entry.Username, &entry.ChangedAt); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
