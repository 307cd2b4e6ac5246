package store

import "errors"

// Sentinel errors returned by the cursor repository. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrCursorNotFound is returned by Load when no cursor has been saved for
	// the account and path prefix. Callers treat it as start of history.
	ErrCursorNotFound = errors.New("cursor not found")

	// ErrStoreUnavailable is returned when a write keeps failing with errors
	// the driver reports as transient (busy database, lost connection).
	ErrStoreUnavailable = errors.New("cursor store unavailable")

	// ErrNilDB is returned when a repository is built without a connection.
	ErrNilDB = errors.New("db is nil")
)

// Low-level database operation errors. These wrap the driver error.
var (
	// ErrBuildingSQLQuery is returned when squirrel cannot render a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT, UPDATE or DELETE
	// fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when a result row cannot be scanned.
	ErrScanningRow = errors.New("failed to scan cursor row")

	// ErrConnecting is returned when the database cannot be opened or pinged.
	ErrConnecting = errors.New("error connecting to database")
)
