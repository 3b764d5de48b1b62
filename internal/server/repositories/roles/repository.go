package roles

import (
	"context"

	"github.com/mkalvans/userhub/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
}
