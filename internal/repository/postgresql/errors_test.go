package postgresql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslatePgError(t *testing.T) {
	dup := errors.New("duplicate")
	missing := errors.New("missing")

	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationCode})
	assert.Equal(t, dup, translatePgError(unique, dup, missing))
	assert.True(t, isUniqueViolation(unique))

	fk := &pgconn.PgError{Code: foreignKeyViolationCode}
	assert.Equal(t, missing, translatePgError(fk, dup, missing))
	assert.Equal(t, fk, translatePgError(fk, dup, nil))

	other := errors.New("random")
	assert.Equal(t, other, translatePgError(other, dup, missing))
	assert.False(t, isUniqueViolation(other))
}
