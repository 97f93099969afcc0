package postgresql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// translatePgError maps a unique violation to onUnique and a foreign key
// violation to onForeignKey. A nil target leaves that class untouched.
func translatePgError(err error, onUnique, onForeignKey error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == uniqueViolationCode && onUnique != nil:
		return onUnique
	case pgErr.Code == foreignKeyViolationCode && onForeignKey != nil:
		return onForeignKey
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
