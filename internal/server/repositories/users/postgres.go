package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mkalvans/userhub/internal/common"
	"github.com/mkalvans/userhub/internal/dbx"
	"github.com/mkalvans/userhub/internal/server/models"
	"github.com/mkalvans/userhub/internal/server/repositories/pgerr"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, password_hash,
	street, house_number, city, postal_code, country,
	status, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Address.Street, &u.Address.HouseNumber, &u.Address.City,
		&u.Address.PostalCode, &u.Address.Country,
		&u.Status, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user row. A username/email collision with an active
// user surfaces as common.ErrDuplicateIdentity.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (username, email, password_hash, street, house_number, city, postal_code, country)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash,
		user.Address.Street, user.Address.HouseNumber, user.Address.City,
		user.Address.PostalCode, user.Address.Country))
	if err != nil {
		if mapped := pgerr.Classify(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

// GetByID returns the user row regardless of its active flag; soft-deleted
// users remain retrievable by direct id lookup.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// GetActiveByUsername is the login lookup; it sees active users only.
func (r *PostgresRepository) GetActiveByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND is_active`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// ListActive returns all active users ordered by id.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListActiveWithRoles reads the v_users_with_roles view. Role names are
// aggregated server-side and split here; a user without valid assignments
// gets an empty role list.
func (r *PostgresRepository) ListActiveWithRoles(ctx context.Context) ([]*models.UserWithRoles, error) {
	query := `SELECT id, username, email, status, created_at, array_to_string(roles, ',')
		 FROM v_users_with_roles
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.UserWithRoles
	for rows.Next() {
		item := &models.UserWithRoles{}
		var joined string
		if err := rows.Scan(&item.ID, &item.Username, &item.Email, &item.Status, &item.CreatedAt, &joined); err != nil {
			return nil, err
		}
		item.Roles = []string{}
		if joined != "" {
			item.Roles = strings.Split(joined, ",")
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update applies the patch through one fixed statement; nil fields fall
// through to the current column value. Field names never come from the
// caller.
func (r *PostgresRepository) Update(ctx context.Context, id int64, patch Patch) (*models.User, error) {
	query := `UPDATE users
		 SET username = COALESCE($1, username),
		     email = COALESCE($2, email),
		     status = COALESCE($3, status)
		 WHERE id = $4
		 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query,
		nullable(patch.Username), nullable(patch.Email), nullable(patch.Status), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		if mapped := pgerr.Classify(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// SoftDelete deactivates an active user. The row, its role assignments and
// its audit history stay in place. Deleting an already-deleted user reports
// common.ErrNotFound.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE users
		 SET is_active = FALSE, status = 'DELETED'
		 WHERE id = $1 AND is_active
		 RETURNING id`

	var deleted int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
