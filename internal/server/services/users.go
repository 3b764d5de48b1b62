package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkalvans/userhub/internal/common"
	"github.com/mkalvans/userhub/internal/dbx"
	"github.com/mkalvans/userhub/internal/server/models"
	"github.com/mkalvans/userhub/internal/server/repositories/pictures"
	"github.com/mkalvans/userhub/internal/server/repositories/repomanager"
	"github.com/mkalvans/userhub/internal/server/repositories/users"
)

// CreateUserParams carries the validated input of user creation. Address
// parts default to the empty string; RoleIDs empty means "assign the default
// role".
type CreateUserParams struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Address  models.Address
	RoleIDs  []int64
}

// UpdateUserParams is the closed allow-list of updatable fields. A nil field
// is left untouched; all nil is a validation error, not a silent no-op.
type UpdateUserParams struct {
	Username *string `validate:"omitempty,min=1"`
	Email    *string `validate:"omitempty,email"`
	Status   *string `validate:"omitempty,oneof=ACTIVE SUSPENDED DELETED"`
}

// UserMetadata is the computed block attached to a user detail.
type UserMetadata struct {
	RoleCount         int  `json:"role_count"`
	PermissionCount   int  `json:"permission_count"`
	HasProfilePicture bool `json:"has_profile_picture"`
}

// UserDetail bundles a user record with its role assignments and metadata.
type UserDetail struct {
	User     *models.User             `json:"user"`
	Roles    []*models.RoleAssignment `json:"roles"`
	Metadata UserMetadata             `json:"metadata"`
}

// UserService is the lifecycle manager: the only component performing
// multi-statement writes against the identity store.
type UserService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	pictures pictures.Repository
	validate *validator.Validate
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, pictureStore pictures.Repository) *UserService {
	return &UserService{
		db:       db,
		repos:    m,
		pictures: pictureStore,
		validate: validator.New(),
	}
}

// storeErr passes known sentinels through and classifies everything else as
// a store availability failure.
func storeErr(err error) error {
	for _, sentinel := range []error{
		common.ErrNotFound, common.ErrDuplicateIdentity, common.ErrIntegrity,
		common.ErrRoleNotFound, common.ErrValidation,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
}

// Create inserts the user and its initial role assignments in one
// transaction; no reader observes the user without them. When no roles are
// requested the default role is resolved by name; if it is absent from the
// seed data the user is created with zero roles. A username/email collision
// with an active user rolls everything back with ErrDuplicateIdentity.
func (s *UserService) Create(ctx context.Context, params CreateUserParams) (*models.User, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repos.Users(tx).Create(ctx, &models.User{
			Username:     params.Username,
			Email:        params.Email,
			PasswordHash: string(hash),
			Address:      params.Address,
		})
		if err != nil {
			return err
		}

		roleIDs := params.RoleIDs
		if len(roleIDs) == 0 {
			role, err := s.repos.Roles(tx).GetByName(ctx, models.DefaultRoleName)
			switch {
			case err == nil:
				roleIDs = []int64{role.ID}
			case errors.Is(err, common.ErrNotFound):
				// Default role missing from seed data: proceed with zero roles.
			default:
				return err
			}
		}

		userRoles := s.repos.UserRoles(tx)
		for _, roleID := range roleIDs {
			if err := userRoles.Assign(ctx, created.ID, roleID, &created.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return created, nil
}

// Update applies the allow-listed patch. Supplying no recognized field fails
// before any write is attempted.
func (s *UserService) Update(ctx context.Context, id int64, params UpdateUserParams) (*models.User, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	patch := users.Patch{
		Username: params.Username,
		Email:    params.Email,
		Status:   params.Status,
	}
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no updatable field provided", common.ErrValidation)
	}

	updated, err := s.repos.Users(s.db).Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr(err)
	}
	return updated, nil
}

// Delete soft-deletes the user. Role assignments, audit history and the
// profile asset stay in place; re-deleting reports ErrNotFound.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repos.Users(s.db).SoftDelete(ctx, id); err != nil {
		return storeErr(err)
	}
	return nil
}

// ListActive returns active users ordered by id.
func (s *UserService) ListActive(ctx context.Context) ([]*models.User, error) {
	list, err := s.repos.Users(s.db).ListActive(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	if list == nil {
		list = []*models.User{}
	}
	return list, nil
}

// ListActiveWithRoles returns active users with their aggregated role names.
func (s *UserService) ListActiveWithRoles(ctx context.Context) ([]*models.UserWithRoles, error) {
	list, err := s.repos.Users(s.db).ListActiveWithRoles(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	if list == nil {
		list = []*models.UserWithRoles{}
	}
	return list, nil
}

// GetDetail returns the user row (soft-deleted ones included), its role
// assignments and the computed metadata block.
func (s *UserService) GetDetail(ctx context.Context, id int64) (*UserDetail, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}

	roles, err := s.repos.UserRoles(s.db).ListForUser(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if roles == nil {
		roles = []*models.RoleAssignment{}
	}

	perms, err := s.repos.Permissions(s.db).ResolveForUser(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}

	hasPicture, err := s.pictures.Exists(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}

	return &UserDetail{
		User:  user,
		Roles: roles,
		Metadata: UserMetadata{
			RoleCount:         len(roles),
			PermissionCount:   len(perms),
			HasProfilePicture: hasPicture,
		},
	}, nil
}
