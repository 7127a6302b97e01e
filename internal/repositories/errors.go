package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateInvoiceNumber surfaces the unique-constraint rejection when
// two concurrent creations computed the same next invoice number. The
// caller is expected to retry the numbering step; no retry happens here.
var ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")

// ErrCompanyNotFound is returned by SetDefault when the target company does
// not exist for the user, so the transaction rolls back with no default moved.
var ErrCompanyNotFound = errors.New("company not found")

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
