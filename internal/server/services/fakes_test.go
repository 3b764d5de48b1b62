package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mkalvans/userhub/internal/dbx"
	"github.com/mkalvans/userhub/internal/server/models"
	auditrepo "github.com/mkalvans/userhub/internal/server/repositories/audit"
	permissionsrepo "github.com/mkalvans/userhub/internal/server/repositories/permissions"
	picturesrepo "github.com/mkalvans/userhub/internal/server/repositories/pictures"
	rolesrepo "github.com/mkalvans/userhub/internal/server/repositories/roles"
	userrolesrepo "github.com/mkalvans/userhub/internal/server/repositories/userroles"
	usersrepo "github.com/mkalvans/userhub/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getByIDOut *models.User
	getByIDErr error

	getActiveOut *models.User
	getActiveErr error

	listOut []*models.User
	listErr error

	listWithRolesOut []*models.UserWithRoles
	listWithRolesErr error

	updateOut   *models.User
	updateErr   error
	updatePatch usersrepo.Patch

	softDeleteErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDOut, nil
}

func (f *fakeUsersRepo) GetActiveByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getActiveErr != nil {
		return nil, f.getActiveErr
	}
	return f.getActiveOut, nil
}

func (f *fakeUsersRepo) ListActive(ctx context.Context) ([]*models.User, error) {
	return f.listOut, f.listErr
}

func (f *fakeUsersRepo) ListActiveWithRoles(ctx context.Context) ([]*models.UserWithRoles, error) {
	return f.listWithRolesOut, f.listWithRolesErr
}

func (f *fakeUsersRepo) Update(ctx context.Context, id int64, patch usersrepo.Patch) (*models.User, error) {
	f.updatePatch = patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakeUsersRepo) SoftDelete(ctx context.Context, id int64) error {
	return f.softDeleteErr
}

type fakeRolesRepo struct {
	listOut []*models.Role
	listErr error

	byNameOut   *models.Role
	byNameErr   error
	byNameCalls []string
}

func (f *fakeRolesRepo) List(ctx context.Context) ([]*models.Role, error) {
	return f.listOut, f.listErr
}

func (f *fakeRolesRepo) GetByName(ctx context.Context, name string) (*models.Role, error) {
	f.byNameCalls = append(f.byNameCalls, name)
	if f.byNameErr != nil {
		return nil, f.byNameErr
	}
	return f.byNameOut, nil
}

type assignment struct {
	userID     int64
	roleID     int64
	assignedBy *int64
}

type fakeUserRolesRepo struct {
	assignErr   error
	assignCalls []assignment

	listOut []*models.RoleAssignment
	listErr error

	namesOut []string
	namesErr error
}

func (f *fakeUserRolesRepo) Assign(ctx context.Context, userID, roleID int64, assignedBy *int64) error {
	f.assignCalls = append(f.assignCalls, assignment{userID: userID, roleID: roleID, assignedBy: assignedBy})
	return f.assignErr
}

func (f *fakeUserRolesRepo) ListForUser(ctx context.Context, userID int64) ([]*models.RoleAssignment, error) {
	return f.listOut, f.listErr
}

func (f *fakeUserRolesRepo) ActiveRoleNames(ctx context.Context, userID int64) ([]string, error) {
	return f.namesOut, f.namesErr
}

type fakePermissionsRepo struct {
	out []*models.Permission
	err error
}

func (f *fakePermissionsRepo) ResolveForUser(ctx context.Context, userID int64) ([]*models.Permission, error) {
	return f.out, f.err
}

type fakeAuditRepo struct {
	out       []*models.AuditLogEntry
	err       error
	gotLimits []int
}

func (f *fakeAuditRepo) Recent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	f.gotLimits = append(f.gotLimits, limit)
	return f.out, f.err
}

type fakePictureStore struct {
	putErr error
	putIn  *models.ProfilePicture

	getErr error

	existsOut bool
	existsErr error

	deleteErr error
}

func (f *fakePictureStore) Put(ctx context.Context, picture *models.ProfilePicture) error {
	f.putIn = picture
	return f.putErr
}

func (f *fakePictureStore) Get(ctx context.Context, userID int64) (*models.ProfilePicture, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.ProfilePicture{UserID: userID, Data: []byte{1}, ContentType: "png"}, nil
}

func (f *fakePictureStore) Exists(ctx context.Context, userID int64) (bool, error) {
	return f.existsOut, f.existsErr
}

func (f *fakePictureStore) Delete(ctx context.Context, userID int64) error {
	return f.deleteErr
}

type fakeRepoManager struct {
	users     *fakeUsersRepo
	roles     *fakeRolesRepo
	userRoles *fakeUserRolesRepo
	perms     *fakePermissionsRepo
	audit     *fakeAuditRepo
	pictures  *fakePictureStore

	// usersOverride lets a test wrap the users repo while keeping the rest.
	usersOverride usersrepo.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository {
	if m.usersOverride != nil {
		return m.usersOverride
	}
	return m.users
}

func (m *fakeRepoManager) Roles(db dbx.DBTX) rolesrepo.Repository { return m.roles }

func (m *fakeRepoManager) UserRoles(db dbx.DBTX) userrolesrepo.Repository { return m.userRoles }

func (m *fakeRepoManager) Permissions(db dbx.DBTX) permissionsrepo.Repository { return m.perms }

func (m *fakeRepoManager) Audit(db dbx.DBTX) auditrepo.Repository { return m.audit }

func (m *fakeRepoManager) Pictures(db dbx.DBTX) picturesrepo.Repository { return m.pictures }
