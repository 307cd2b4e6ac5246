package store

import (
	"errors"
	"strconv"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// retryable reports whether a failed cursor statement may succeed if sent
// again. Cursor writes are single-row upserts and deletes outside any
// transaction, so repeating one is always safe; only the cause decides.
//
// Postgres: lost or refused connections (class 08, 57P01..57P03), rollbacks
// (class 40) and too_many_connections, plus any error pgconn says never
// reached the server. SQLite: a busy or locked database file.
func (d Dialect) retryable(err error) bool {
	if err == nil {
		return false
	}

	switch d {
	case DialectPostgres:
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) {
			return pgconn.SafeToRetry(err)
		}
		switch {
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgerrcode.IsTransactionRollback(pgErr.Code):
			return true
		}
		switch pgErr.Code {
		case pgerrcode.AdminShutdown,
			pgerrcode.CrashShutdown,
			pgerrcode.CannotConnectNow,
			pgerrcode.TooManyConnections:
			return true
		}
		return false

	case DialectSQLite:
		var liteErr sqlite3.Error
		if !errors.As(err, &liteErr) {
			return false
		}
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}

	return false
}

// driverCode returns the backend error code carried by err for logs: the
// SQLSTATE for Postgres, the numeric extended result code for SQLite, or ""
// when err did not come from the driver.
func driverCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return strconv.Itoa(int(liteErr.ExtendedCode))
	}
	return ""
}
