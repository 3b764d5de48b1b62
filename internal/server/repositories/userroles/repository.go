package userroles

import (
	"context"

	"github.com/mkalvans/userhub/internal/server/models"
)

type Repository interface {
	Assign(ctx context.Context, userID, roleID int64, assignedBy *int64) error
	ListForUser(ctx context.Context, userID int64) ([]*models.RoleAssignment, error)
	ActiveRoleNames(ctx context.Context, userID int64) ([]string, error)
}
