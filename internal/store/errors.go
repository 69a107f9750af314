package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same email already exists in the database.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least one
	// user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrNoGuestWasFound is returned when a lookup by guest session identifier
	// matches no guest record. Guests are created lazily, so this is an
	// expected condition on first contact.
	ErrNoGuestWasFound = errors.New("no guest was found")

	// ErrNoSessionWasFound is returned when a session token does not match any
	// row in the sessions table. The token may have been swept after expiry,
	// so absence is treated as an expired session by callers.
	ErrNoSessionWasFound = errors.New("no session was found")

	// ErrNoExpirationWasFound is returned when a user has no recorded session
	// expiration lineage.
	ErrNoExpirationWasFound = errors.New("no session expiration was found")

	// ErrLinkNotFound is returned when an update or delete targets a link
	// (identified by link_id and user_id) that does not exist in the database.
	ErrLinkNotFound = errors.New("link was not found")

	// ErrLinkNotSaved is returned when an INSERT of one or more links completes
	// without error but the number of affected rows is zero, indicating that
	// no data was actually persisted.
	ErrLinkNotSaved = errors.New("link was not saved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrPreparingStatement is returned when a SQL statement cannot be
	// prepared (e.g. syntax error or connection issue).
	ErrPreparingStatement = errors.New("failed to prepare statement")

	// ErrExecutingStatement is returned when executing a prepared DML
	// statement (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingLinks is returned when the embedded guest link list cannot be
	// serialized to or from its JSONB column representation.
	ErrEncodingLinks = errors.New("failed to encode guest links")
)
