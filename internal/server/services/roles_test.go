package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mkalvans/userhub/internal/common"
	"github.com/mkalvans/userhub/internal/server/models"
)

func newRoleService(t *testing.T, rm *fakeRepoManager) *RoleService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { _ = db.Close() })
	return NewRoleService(db, rm)
}

func TestRolesList_EmptyIsNotNil(t *testing.T) {
	s := newRoleService(t, &fakeRepoManager{roles: &fakeRolesRepo{}})

	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestRolesList_ErrorWrapped(t *testing.T) {
	s := newRoleService(t, &fakeRepoManager{roles: &fakeRolesRepo{listErr: errBoom{}}})

	_, err := s.List(context.Background())
	if !errors.Is(err, common.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
}

func TestAddRole_RequiresIDOrName(t *testing.T) {
	s := newRoleService(t, &fakeRepoManager{})

	err := s.AddRole(context.Background(), 7, AddRoleParams{})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestAddRole_ByName(t *testing.T) {
	rm := &fakeRepoManager{
		roles:     &fakeRolesRepo{byNameOut: &models.Role{ID: 3, Name: "Auditor"}},
		userRoles: &fakeUserRolesRepo{},
	}
	s := newRoleService(t, rm)

	assignedBy := int64(1)
	err := s.AddRole(context.Background(), 7, AddRoleParams{RoleName: "Auditor", AssignedBy: &assignedBy})
	if err != nil {
		t.Fatalf("AddRole error: %v", err)
	}

	calls := rm.userRoles.assignCalls
	if len(calls) != 1 || calls[0].userID != 7 || calls[0].roleID != 3 {
		t.Fatalf("unexpected assignment: %+v", calls)
	}
	if calls[0].assignedBy == nil || *calls[0].assignedBy != 1 {
		t.Fatalf("assigned_by not forwarded: %v", calls[0].assignedBy)
	}
}

func TestAddRole_UnknownName(t *testing.T) {
	rm := &fakeRepoManager{
		roles:     &fakeRolesRepo{byNameErr: common.ErrNotFound},
		userRoles: &fakeUserRolesRepo{},
	}
	s := newRoleService(t, rm)

	err := s.AddRole(context.Background(), 7, AddRoleParams{RoleName: "Ghost"})
	if !errors.Is(err, common.ErrRoleNotFound) {
		t.Fatalf("want ErrRoleNotFound, got %v", err)
	}
	if len(rm.userRoles.assignCalls) != 0 {
		t.Fatalf("no assignment expected, got %+v", rm.userRoles.assignCalls)
	}
}

func TestAddRole_IDTakesPrecedence(t *testing.T) {
	rm := &fakeRepoManager{
		roles:     &fakeRolesRepo{},
		userRoles: &fakeUserRolesRepo{},
	}
	s := newRoleService(t, rm)

	id := int64(5)
	err := s.AddRole(context.Background(), 7, AddRoleParams{RoleID: &id, RoleName: "Auditor"})
	if err != nil {
		t.Fatalf("AddRole error: %v", err)
	}
	if len(rm.roles.byNameCalls) != 0 {
		t.Fatalf("name must not be resolved when id is set, got %v", rm.roles.byNameCalls)
	}
	if len(rm.userRoles.assignCalls) != 1 || rm.userRoles.assignCalls[0].roleID != 5 {
		t.Fatalf("unexpected assignment: %+v", rm.userRoles.assignCalls)
	}
}

func TestAddRole_MissingUserIntegrity(t *testing.T) {
	rm := &fakeRepoManager{
		userRoles: &fakeUserRolesRepo{assignErr: common.ErrIntegrity},
	}
	s := newRoleService(t, rm)

	id := int64(2)
	err := s.AddRole(context.Background(), 404, AddRoleParams{RoleID: &id})
	if !errors.Is(err, common.ErrIntegrity) {
		t.Fatalf("want ErrIntegrity, got %v", err)
	}
}

func TestGetUserRoles_EmptyIsNotNil(t *testing.T) {
	s := newRoleService(t, &fakeRepoManager{userRoles: &fakeUserRolesRepo{}})

	got, err := s.GetUserRoles(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetUserRoles error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestResolvePermissions_Union(t *testing.T) {
	want := []*models.Permission{
		{ID: 4, Name: "audit:read", ResourceType: "audit_log"},
		{ID: 1, Name: "users:read", ResourceType: "users"},
	}
	s := newRoleService(t, &fakeRepoManager{perms: &fakePermissionsRepo{out: want}})

	got, err := s.ResolvePermissions(context.Background(), 7)
	if err != nil {
		t.Fatalf("ResolvePermissions error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("permissions mismatch (-want +got):\n%s", diff)
	}
}

func TestResolvePermissions_UnknownUserEmptySet(t *testing.T) {
	s := newRoleService(t, &fakeRepoManager{perms: &fakePermissionsRepo{}})

	got, err := s.ResolvePermissions(context.Background(), 404)
	if err != nil {
		t.Fatalf("ResolvePermissions error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil set, got %#v", got)
	}
}
