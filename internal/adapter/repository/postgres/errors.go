package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adk/bankledger/internal/domain"
)

// PostgreSQL error codes the repositories translate.
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlock             = "40P01"
	pgErrLockNotAvailable     = "55P03"
	pgErrForeignKeyViolation  = "23503"
	pgErrUniqueViolation      = "23505"
)

// classifyError maps a driver error onto the domain error taxonomy. Callers
// translate pgx.ErrNoRows themselves, since only they know which record was
// missing.
func classifyError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlock, pgErrLockNotAvailable:
			return domain.NewStorageError(op, err, true)
		case pgErrForeignKeyViolation:
			return domain.ErrAccountNotFound
		case pgErrUniqueViolation:
			return domain.NewStorageError(op, err, false)
		}
	}

	return domain.NewStorageError(op, err, false)
}
