package pictures

import (
	"context"

	"github.com/mkalvans/userhub/internal/server/models"
)

// Repository stores at most one profile asset per user id. Put replaces any
// existing asset atomically; Get treats an absent row and an empty asset the
// same way (common.ErrNotFound); Delete reports whether an asset existed.
type Repository interface {
	Put(ctx context.Context, picture *models.ProfilePicture) error
	Get(ctx context.Context, userID int64) (*models.ProfilePicture, error)
	Exists(ctx context.Context, userID int64) (bool, error)
	Delete(ctx context.Context, userID int64) error
}
