// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-dbx-delta/internal/delta"
	"github.com/MKhiriev/go-dbx-delta/internal/logger"
	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v5"
)

const (
	cursorsTable = "delta_cursors"

	upsertCursorSuffix = "ON CONFLICT (account, path_prefix) DO UPDATE SET " +
		"cursor_token = excluded.cursor_token, updated_at = excluded.updated_at"

	defaultWriteTries = 5
)

// cursorRepository is the SQL implementation of [CursorRepository] on the
// delta_cursors table. Queries are built with squirrel in the placeholder
// style of the connection's dialect.
type cursorRepository struct {
	db      *DB
	builder sq.StatementBuilderType

	now        func() time.Time
	newBackOff func() backoff.BackOff
	maxTries   uint

	logger *logger.Logger
}

// NewCursorRepository constructs a [CursorRepository] on db.
func NewCursorRepository(db *DB, log *logger.Logger) (CursorRepository, error) {
	if db == nil || db.DB == nil {
		return nil, ErrNilDB
	}
	log.Debug().Str("dialect", string(db.dialect)).Msg("creating cursor repository")

	return &cursorRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(db.dialect.placeholder()),
		now:     func() time.Time { return time.Now().UTC() },
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 50 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
		maxTries: defaultWriteTries,
		logger:   log,
	}, nil
}

// Load implements [CursorRepository].
func (r *cursorRepository) Load(ctx context.Context, account, pathPrefix string) (delta.Cursor, error) {
	query, args, err := r.builder.
		Select("cursor_token").
		From(cursorsTable).
		Where(sq.Eq{"account": account, "path_prefix": pathPrefix}).
		ToSql()
	if err != nil {
		return delta.Cursor{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var token string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&token)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return delta.Cursor{}, ErrCursorNotFound
	case err != nil:
		r.logger.Err(err).Str("func", "*cursorRepository.Load").Str("driver_code", driverCode(err)).Msg("error loading cursor")
		return delta.Cursor{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return delta.CursorFrom(token), nil
}

// Save implements [CursorRepository]. Writes that fail with a retryable
// driver error are repeated with exponential backoff.
func (r *cursorRepository) Save(ctx context.Context, account, pathPrefix string, cursor delta.Cursor) error {
	query, args, err := r.builder.
		Insert(cursorsTable).
		Columns("account", "path_prefix", "cursor_token", "updated_at").
		Values(account, pathPrefix, cursor.Token(), r.now()).
		Suffix(upsertCursorSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.exec(ctx, "*cursorRepository.Save", query, args)
}

// Delete implements [CursorRepository].
func (r *cursorRepository) Delete(ctx context.Context, account, pathPrefix string) error {
	query, args, err := r.builder.
		Delete(cursorsTable).
		Where(sq.Eq{"account": account, "path_prefix": pathPrefix}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.exec(ctx, "*cursorRepository.Delete", query, args)
}

func (r *cursorRepository) exec(ctx context.Context, fn, query string, args []any) error {
	_, err := backoff.Retry(ctx, func() (sql.Result, error) {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err == nil {
			return res, nil
		}
		if r.db.dialect.retryable(err) {
			r.logger.Warn().Err(err).Str("func", fn).Msg("retryable database error")
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return nil, backoff.Permanent(err)
	},
		backoff.WithBackOff(r.newBackOff()),
		backoff.WithMaxTries(r.maxTries),
	)
	if err != nil {
		r.logger.Err(err).Str("func", fn).Str("driver_code", driverCode(err)).Msg("error executing statement")
		if errors.Is(err, ErrStoreUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
