package audit

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mkalvans/userhub/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestRecent_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"log_id", "table_name", "operation", "user_id", "username", "changed_at"}).
		AddRow(int64(9), "users", models.AuditUpdate, int64(7), "bob", now).
		AddRow(int64(8), "user_roles", models.AuditInsert, int64(7), "bob", now.Add(-time.Minute))

	mock.ExpectQuery(`(?s)^SELECT\s+log_id,\s*table_name,\s*operation,\s*user_id,\s*username,\s*changed_at\s+FROM\s+v_recent_audit_log\s+LIMIT\s+\$1\s*$`).
		WithArgs(25).
		WillReturnRows(rows)

	got, err := repo.Recent(context.Background(), 25)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(got) != 2 || got[0].LogID != 9 || got[0].Operation != models.AuditUpdate {
		t.Fatalf("unexpected entries: %+v", got)
	}
	if got[0].UserID == nil || *got[0].UserID != 7 {
		t.Fatalf("unexpected user id: %v", got[0].UserID)
	}
}

func TestRecent_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+log_id`).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"log_id", "table_name", "operation", "user_id", "username", "changed_at"}))

	got, err := repo.Recent(context.Background(), 50)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestRecent_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+log_id`).
		WithArgs(50).
		WillReturnError(errors.New("db down"))

	_, err := repo.Recent(context.Background(), 50)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
