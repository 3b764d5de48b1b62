package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkalvans/userhub/internal/common"
	"github.com/mkalvans/userhub/internal/server/models"
	"github.com/mkalvans/userhub/internal/server/repositories/repomanager"
)

// AddRoleParams identifies a role by id or by name; exactly one is needed,
// with the id taking precedence when both are present.
type AddRoleParams struct {
	RoleID     *int64
	RoleName   string
	AssignedBy *int64
}

// RoleService covers role listing, role assignment and permission
// resolution.
type RoleService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewRoleService(db *sql.DB, m repomanager.RepositoryManager) *RoleService {
	return &RoleService{db: db, repos: m}
}

// List returns all roles.
func (s *RoleService) List(ctx context.Context) ([]*models.Role, error) {
	roles, err := s.repos.Roles(s.db).List(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	if roles == nil {
		roles = []*models.Role{}
	}
	return roles, nil
}

// GetUserRoles returns every assignment the user holds, expired ones
// included.
func (s *RoleService) GetUserRoles(ctx context.Context, userID int64) ([]*models.RoleAssignment, error) {
	assignments, err := s.repos.UserRoles(s.db).ListForUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if assignments == nil {
		assignments = []*models.RoleAssignment{}
	}
	return assignments, nil
}

// AddRole assigns a role to a user. A role given by name is resolved first
// (ErrRoleNotFound when absent); the user id is not pre-checked — an absent
// user surfaces as the foreign-key integrity failure. Re-assigning a held
// role is a successful no-op.
func (s *RoleService) AddRole(ctx context.Context, userID int64, params AddRoleParams) error {
	if params.RoleID == nil && params.RoleName == "" {
		return fmt.Errorf("%w: role_id or role_name required", common.ErrValidation)
	}

	roleID := int64(0)
	if params.RoleID != nil {
		roleID = *params.RoleID
	} else {
		role, err := s.repos.Roles(s.db).GetByName(ctx, params.RoleName)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrRoleNotFound
			}
			return storeErr(err)
		}
		roleID = role.ID
	}

	if err := s.repos.UserRoles(s.db).Assign(ctx, userID, roleID, params.AssignedBy); err != nil {
		return storeErr(err)
	}
	return nil
}

// ResolvePermissions computes the union of permissions reachable through the
// user's non-expired role assignments. Unknown or roleless users yield an
// empty set, never an error; the caller checks existence separately when it
// cares.
func (s *RoleService) ResolvePermissions(ctx context.Context, userID int64) ([]*models.Permission, error) {
	perms, err := s.repos.Permissions(s.db).ResolveForUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if perms == nil {
		perms = []*models.Permission{}
	}
	return perms, nil
}
