package store

import (
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

type netTimeout struct{}

func (netTimeout) Error() string     { return "dial tcp: i/o timeout" }
func (netTimeout) SafeToRetry() bool { return true }

func TestDialect_Retryable(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		err     error
		want    bool
	}{
		{name: "nil", dialect: DialectPostgres, err: nil, want: false},
		{name: "plain error", dialect: DialectPostgres, err: assert.AnError, want: false},
		{name: "never sent", dialect: DialectPostgres, err: netTimeout{}, want: true},
		{name: "deadlock", dialect: DialectPostgres, err: &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, want: true},
		{name: "serialization", dialect: DialectPostgres, err: &pgconn.PgError{Code: pgerrcode.SerializationFailure}, want: true},
		{name: "connection failure", dialect: DialectPostgres, err: &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, want: true},
		{name: "admin shutdown", dialect: DialectPostgres, err: &pgconn.PgError{Code: pgerrcode.AdminShutdown}, want: true},
		{name: "too many connections", dialect: DialectPostgres, err: &pgconn.PgError{Code: pgerrcode.TooManyConnections}, want: true},
		{name: "wrapped cannot connect", dialect: DialectPostgres, err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgerrcode.CannotConnectNow}), want: true},
		{name: "query canceled", dialect: DialectPostgres, err: &pgconn.PgError{Code: pgerrcode.QueryCanceled}, want: false},
		{name: "unique violation", dialect: DialectPostgres, err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: false},
		{name: "undefined table", dialect: DialectPostgres, err: &pgconn.PgError{Code: pgerrcode.UndefinedTable}, want: false},
		{name: "unknown code", dialect: DialectPostgres, err: &pgconn.PgError{Code: "XX999"}, want: false},
		{name: "postgres ignores sqlite busy", dialect: DialectPostgres, err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: false},

		{name: "sqlite busy", dialect: DialectSQLite, err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: true},
		{name: "sqlite locked wrapped", dialect: DialectSQLite, err: fmt.Errorf("save: %w", sqlite3.Error{Code: sqlite3.ErrLocked}), want: true},
		{name: "sqlite constraint", dialect: DialectSQLite, err: sqlite3.Error{Code: sqlite3.ErrConstraint}, want: false},
		{name: "sqlite plain error", dialect: DialectSQLite, err: assert.AnError, want: false},
		{name: "sqlite ignores deadlock", dialect: DialectSQLite, err: &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, want: false},

		{name: "unknown dialect", dialect: Dialect("mysql"), err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.retryable(tt.err))
		})
	}
}

func TestDriverCode(t *testing.T) {
	assert.Equal(t, pgerrcode.UniqueViolation, driverCode(fmt.Errorf("x: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation})))
	assert.Equal(t, "2067", driverCode(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}))
	assert.Empty(t, driverCode(assert.AnError))
}

func TestDialectFromDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want Dialect
	}{
		{dsn: "postgres://u:p@localhost:5432/db?sslmode=disable", want: DialectPostgres},
		{dsn: "PostgreSQL://localhost/db", want: DialectPostgres},
		{dsn: "host=localhost dbname=cursors user=u", want: DialectPostgres},
		{dsn: "cursors.db", want: DialectSQLite},
		{dsn: "file:cursors.db?cache=shared", want: DialectSQLite},
		{dsn: ":memory:", want: DialectSQLite},
		{dsn: "", want: DialectSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, DialectFromDSN(tt.dsn))
		})
	}
}
