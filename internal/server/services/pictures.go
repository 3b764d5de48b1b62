package services

import (
	"context"
	"fmt"

	"github.com/mkalvans/userhub/internal/common"
	"github.com/mkalvans/userhub/internal/server/models"
	"github.com/mkalvans/userhub/internal/server/repositories/pictures"
)

// PictureService manages the single profile asset a user may have. The
// backing store is chosen at wiring time: PostgreSQL rows by default, an
// S3-compatible bucket when configured.
type PictureService struct {
	store pictures.Repository
}

func NewPictureService(store pictures.Repository) *PictureService {
	return &PictureService{store: store}
}

// Put stores or replaces the user's asset. Empty content or a missing
// content type never reaches the store.
func (s *PictureService) Put(ctx context.Context, userID int64, data []byte, contentType string) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty image data", common.ErrValidation)
	}
	if contentType == "" {
		return fmt.Errorf("%w: missing content type", common.ErrValidation)
	}

	err := s.store.Put(ctx, &models.ProfilePicture{
		UserID:      userID,
		Data:        data,
		ContentType: contentType,
	})
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// Get returns the asset; absence and empty content are both ErrNotFound.
func (s *PictureService) Get(ctx context.Context, userID int64) (*models.ProfilePicture, error) {
	picture, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return picture, nil
}

// Delete removes the asset; deleting a nonexistent one is ErrNotFound, not a
// silent success.
func (s *PictureService) Delete(ctx context.Context, userID int64) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return storeErr(err)
	}
	return nil
}
