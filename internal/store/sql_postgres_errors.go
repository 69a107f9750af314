package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassificator decides whether a failed database operation is worth
// retrying. It is consulted by the connection bootstrap and is available to
// repositories through the embedded [*DB].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// ErrorClassification indicates whether a failed database operation should
// be retried or abandoned.
type ErrorClassification int

const (
	// NonRetryable is the default classification: unrecognised errors,
	// constraint violations, syntax errors, and data exceptions.
	NonRetryable ErrorClassification = iota

	// Retryable marks failures that may succeed on a later attempt, such as
	// a transient connection loss or a deadlock rollback.
	Retryable
)

// PostgresErrorClassifier implements [ErrorClassificator] by inspecting the
// pgconn error code reported by the pgx driver.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify unwraps err to a *pgconn.PgError and maps its code class. A nil
// error or one that did not come from the PostgreSQL driver is
// [NonRetryable].
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return NonRetryable
	}

	return ClassifyPgError(pgErr)
}

// ClassifyPgError maps a *pgconn.PgError to an [ErrorClassification] by the
// code class, per the PostgreSQL errcodes appendix.
//
// Retryable: class 08 (connection exceptions), class 40 (transaction
// rollback, including serialization failures and deadlocks), and 57P03
// "cannot connect now". Everything else, notably class 22 data exceptions,
// class 23 constraint violations, and class 42 syntax or access rule
// violations, is [NonRetryable].
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	code := pgErr.Code

	switch {
	case pgerrcode.IsConnectionException(code):
		return Retryable
	case pgerrcode.IsTransactionRollback(code):
		return Retryable
	case code == pgerrcode.CannotConnectNow:
		return Retryable
	}

	return NonRetryable
}
