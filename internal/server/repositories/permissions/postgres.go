package permissions

import (
	"context"
	"fmt"

	"github.com/mkalvans/userhub/internal/dbx"
	"github.com/mkalvans/userhub/internal/server/models"
)

// PostgresRepository resolves permissions through the role_permissions grants.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ResolveForUser computes the distinct permissions reachable through the
// user's non-expired role assignments. A user with no assignments, or no user
// at all, yields an empty set rather than an error.
func (r *PostgresRepository) ResolveForUser(ctx context.Context, userID int64) ([]*models.Permission, error) {
	query := `SELECT DISTINCT p.permission_id, p.permission_name, p.resource_type, p.description
		 FROM permissions p
		 JOIN role_permissions rp ON rp.permission_id = p.permission_id
		 JOIN user_roles ur ON ur.role_id = rp.role_id
		 WHERE ur.user_id = $1 AND (ur.expires_at IS NULL OR ur.expires_at > now())
		 ORDER BY p.permission_name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Permission{}
	for rows.Next() {
		p := &models.Permission{}
		if err := rows.Scan(&p.ID, &p.Name, &p.ResourceType, &p.Description); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
