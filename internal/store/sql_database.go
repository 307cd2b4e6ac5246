package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/MKhiriev/go-dbx-delta/internal/config"
	"github.com/MKhiriev/go-dbx-delta/internal/logger"
	"github.com/MKhiriev/go-dbx-delta/migrations"
	sq "github.com/Masterminds/squirrel"
)

// Dialect names the SQL backend behind a DB. Its value is the database/sql
// driver name.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "pgx"
)

// DialectFromDSN picks Postgres for postgres:// URLs and key=value
// connection strings, SQLite for everything else (a file path or a
// file: URI).
func DialectFromDSN(dsn string) Dialect {
	dsn = strings.TrimSpace(dsn)
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DialectPostgres
	case strings.Contains(lower, "host=") && strings.Contains(lower, "dbname="):
		return DialectPostgres
	default:
		return DialectSQLite
	}
}

func (d Dialect) placeholder() sq.PlaceholderFormat {
	if d == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

type DB struct {
	*sql.DB
	dialect Dialect
	logger  *logger.Logger
}

// NewDB opens the database named by cfg.DSN with the driver its dialect
// calls for.
func NewDB(ctx context.Context, cfg config.Storage, log *logger.Logger) (*DB, error) {
	if DialectFromDSN(cfg.DSN) == DialectPostgres {
		return NewConnectPostgres(ctx, cfg, log)
	}
	return NewConnectSQLite(ctx, cfg, log)
}

// Dialect returns the SQL backend of db.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Migrate brings the schema up to date.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, string(db.dialect))
}
