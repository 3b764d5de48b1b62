package pictures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkalvans/userhub/internal/common"
	"github.com/mkalvans/userhub/internal/dbx"
	"github.com/mkalvans/userhub/internal/server/models"
	"github.com/mkalvans/userhub/internal/server/repositories/pgerr"
)

// PostgresRepository keeps profile assets as bytea rows keyed by user id.
// This is the default backend and the only one covered by the audit triggers.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Put upserts the user's asset. The replace is a single statement, so a
// concurrent reader sees either the old bytes or the new ones, never a mix.
func (r *PostgresRepository) Put(ctx context.Context, picture *models.ProfilePicture) error {
	query := `INSERT INTO profile_pictures (user_id, image_data, image_type, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET image_data = EXCLUDED.image_data,
		               image_type = EXCLUDED.image_type,
		               updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, picture.UserID, picture.Data, picture.ContentType); err != nil {
		if mapped := pgerr.Classify(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Get returns the stored asset. Empty content counts as absent.
func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.ProfilePicture, error) {
	query := `SELECT user_id, image_data, image_type, updated_at
		 FROM profile_pictures
		 WHERE user_id = $1 AND octet_length(image_data) > 0`

	picture := &models.ProfilePicture{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&picture.UserID, &picture.Data, &picture.ContentType, &picture.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return picture, nil
}

// Exists reports whether the user has a non-empty asset, without pulling the
// bytes.
func (r *PostgresRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM profile_pictures
		WHERE user_id = $1 AND octet_length(image_data) > 0)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Delete removes the asset and reports common.ErrNotFound when none existed;
// existence is checked by the delete itself, not a prior round trip.
func (r *PostgresRepository) Delete(ctx context.Context, userID int64) error {
	query := `DELETE FROM profile_pictures WHERE user_id = $1 RETURNING user_id`

	var deleted int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
