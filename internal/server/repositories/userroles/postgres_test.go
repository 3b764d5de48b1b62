package userroles

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkalvans/userhub/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestAssign_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	assignedBy := int64(1)
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+user_roles\s*\(user_id,\s*role_id,\s*assigned_by\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*ON\s+CONFLICT\s*\(user_id,\s*role_id\)\s*DO\s+NOTHING\s*$`).
		WithArgs(int64(7), int64(2), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Assign(context.Background(), 7, 2, &assignedBy); err != nil {
		t.Fatalf("Assign error: %v", err)
	}
}

func TestAssign_IdempotentReassign(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// Conflict path: zero rows affected, still no error.
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+user_roles`).
		WithArgs(int64(7), int64(2), nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Assign(context.Background(), 7, 2, nil); err != nil {
		t.Fatalf("Assign error: %v", err)
	}
}

func TestAssign_MissingUserOrRole(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+user_roles`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "user_roles_user_id_fkey"})

	err := repo.Assign(context.Background(), 404, 2, nil)
	if !errors.Is(err, common.ErrIntegrity) {
		t.Fatalf("want common.ErrIntegrity, got %v", err)
	}
}

func TestAssign_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+user_roles`).
		WillReturnError(errors.New("db down"))

	err := repo.Assign(context.Background(), 7, 2, nil)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListForUser_IncludesExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	expired := now.Add(-time.Hour)
	assignedBy := int64(1)
	rows := sqlmock.NewRows([]string{"role_id", "role_name", "description", "assigned_by", "assigned_at", "expires_at"}).
		AddRow(int64(1), "Administrator", "full access", &assignedBy, now, nil).
		AddRow(int64(3), "Auditor", "read-only audit access", nil, now, &expired)

	mock.ExpectQuery(`(?s)^SELECT\s+r\.role_id,\s*r\.role_name,\s*r\.description,\s*ur\.assigned_by,\s*ur\.assigned_at,\s*ur\.expires_at\s+FROM\s+user_roles\s+ur\s+JOIN\s+roles\s+r`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.ListForUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListForUser error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected assignments: %+v", got)
	}
	if got[0].Expired(now) {
		t.Fatalf("assignment without expiry must not be expired")
	}
	if !got[1].Expired(now) {
		t.Fatalf("past expiry must be expired")
	}
}

func TestActiveRoleNames_EmptyWithoutRoles(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+r\.role_name\s+FROM\s+user_roles\s+ur\s+JOIN\s+roles\s+r.*expires_at\s+IS\s+NULL\s+OR\s+ur\.expires_at\s*>\s*now\(\)`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"role_name"}))

	got, err := repo.ActiveRoleNames(context.Background(), 7)
	if err != nil {
		t.Fatalf("ActiveRoleNames error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestActiveRoleNames_Ordered(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"role_name"}).
		AddRow("Administrator").
		AddRow("Regular User")

	mock.ExpectQuery(`(?s)^SELECT\s+r\.role_name`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.ActiveRoleNames(context.Background(), 7)
	if err != nil {
		t.Fatalf("ActiveRoleNames error: %v", err)
	}
	if len(got) != 2 || got[0] != "Administrator" || got[1] != "Regular User" {
		t.Fatalf("unexpected names: %v", got)
	}
}
