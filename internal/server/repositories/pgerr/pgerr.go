// Package pgerr translates PostgreSQL error codes into the sentinel errors of
// the service taxonomy.
package pgerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkalvans/userhub/internal/common"
)

const (
	uniqueViolation = "23505"
	integrityClass  = "23"
)

// Classify returns the sentinel matching a constraint violation, or nil when
// the error is not a recognized PostgreSQL error. Unique violations map to
// ErrDuplicateIdentity (the only unique constraints reachable through the
// write paths are the active-user username/email indexes and the (user, role)
// pair, which is absorbed by ON CONFLICT before it gets here); every other
// integrity-constraint violation, foreign keys included, maps to ErrIntegrity.
func Classify(err error) error {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch {
		case pgError.Code == uniqueViolation:
			return common.ErrDuplicateIdentity
		case len(pgError.Code) >= 2 && pgError.Code[:2] == integrityClass:
			return common.ErrIntegrity
		}
	}
	return nil
}
