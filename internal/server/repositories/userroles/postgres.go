package userroles

import (
	"context"
	"fmt"

	"github.com/mkalvans/userhub/internal/dbx"
	"github.com/mkalvans/userhub/internal/server/models"
	"github.com/mkalvans/userhub/internal/server/repositories/pgerr"
)

// PostgresRepository manages the user_roles join table.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Assign records a role assignment. The (user, role) pair is unique and the
// insert is idempotent: re-assigning a held role affects zero rows and
// succeeds. A missing user or role surfaces as common.ErrIntegrity via the
// foreign keys; the user is deliberately not pre-checked.
func (r *PostgresRepository) Assign(ctx context.Context, userID, roleID int64, assignedBy *int64) error {
	query := `INSERT INTO user_roles (user_id, role_id, assigned_by)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, role_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, roleID, assignedBy); err != nil {
		if mapped := pgerr.Classify(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListForUser returns every assignment held by the user, expired ones
// included; expiry is a resolution-time filter, not a deletion trigger.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64) ([]*models.RoleAssignment, error) {
	query := `SELECT r.role_id, r.role_name, r.description, ur.assigned_by, ur.assigned_at, ur.expires_at
		 FROM user_roles ur
		 JOIN roles r ON r.role_id = ur.role_id
		 WHERE ur.user_id = $1
		 ORDER BY r.role_name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.RoleAssignment
	for rows.Next() {
		a := &models.RoleAssignment{}
		if err := rows.Scan(&a.RoleID, &a.RoleName, &a.Description, &a.AssignedBy, &a.AssignedAt, &a.ExpiresAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ActiveRoleNames returns the names of the user's non-expired roles, the set
// a login token carries.
func (r *PostgresRepository) ActiveRoleNames(ctx context.Context, userID int64) ([]string, error) {
	query := `SELECT r.role_name
		 FROM user_roles ur
		 JOIN roles r ON r.role_id = ur.role_id
		 WHERE ur.user_id = $1 AND (ur.expires_at IS NULL OR ur.expires_at > now())
		 ORDER BY r.role_name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
