package permissions

import (
	"context"

	"github.com/mkalvans/userhub/internal/server/models"
)

type Repository interface {
	ResolveForUser(ctx context.Context, userID int64) ([]*models.Permission, error)
}
