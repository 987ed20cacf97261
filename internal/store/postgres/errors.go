package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE code Postgres raises when an insert breaks
// a unique index. The stores translate it into the appropriate domain
// conflict error, which makes the index the authority for every
// check-then-insert race.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
