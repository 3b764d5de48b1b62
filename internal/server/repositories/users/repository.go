package users

import (
	"context"

	"github.com/mkalvans/userhub/internal/server/models"
)

// Patch enumerates the only user columns the update path may touch. A nil
// field leaves the column unchanged.
type Patch struct {
	Username *string
	Email    *string
	Status   *string
}

// Empty reports whether the patch carries no recognized field.
func (p Patch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Status == nil
}

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetActiveByUsername(ctx context.Context, username string) (*models.User, error)
	ListActive(ctx context.Context) ([]*models.User, error)
	ListActiveWithRoles(ctx context.Context) ([]*models.UserWithRoles, error)
	Update(ctx context.Context, id int64, patch Patch) (*models.User, error)
	SoftDelete(ctx context.Context, id int64) error
}
