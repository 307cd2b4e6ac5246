// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-dbx-delta/internal/config"
	"github.com/MKhiriev/go-dbx-delta/internal/delta"
	"github.com/MKhiriev/go-dbx-delta/internal/logger"
)

func TestCreateLocalDBFileIfNotExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cursors.db")

	require.NoError(t, createLocalDBFileIfNotExists(path))
	_, err := os.Stat(path)
	require.NoError(t, err)

	// second call is a no-op
	require.NoError(t, createLocalDBFileIfNotExists(path))
}

func TestCreateLocalDBFileIfNotExists_SkipsSpecialDSNs(t *testing.T) {
	for _, dsn := range []string{"", ":memory:", "file:test.db?mode=memory"} {
		assert.NoError(t, createLocalDBFileIfNotExists(dsn))
	}
	_, err := os.Stat("file:test.db?mode=memory")
	assert.True(t, os.IsNotExist(err))
}

// TestSQLiteCursorStore_RoundTrip runs the real driver and migrations.
func TestSQLiteCursorStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "cursors.db")

	db, err := NewDB(ctx, config.Storage{DSN: dsn}, logger.Nop())
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Skip("sqlite3 driver requires cgo")
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, DialectSQLite, db.Dialect())
	require.NoError(t, db.Migrate())

	repo, err := NewCursorRepository(db, logger.Nop())
	require.NoError(t, err)

	_, err = repo.Load(ctx, "acct", "/a")
	require.ErrorIs(t, err, ErrCursorNotFound)

	require.NoError(t, repo.Save(ctx, "acct", "/a", delta.CursorFrom("c1")))
	require.NoError(t, repo.Save(ctx, "acct", "/a", delta.CursorFrom("c2")))
	require.NoError(t, repo.Save(ctx, "acct", "/b", delta.CursorFrom("other")))

	got, err := repo.Load(ctx, "acct", "/a")
	require.NoError(t, err)
	assert.Equal(t, "c2", got.Token())

	require.NoError(t, repo.Delete(ctx, "acct", "/a"))
	_, err = repo.Load(ctx, "acct", "/a")
	assert.ErrorIs(t, err, ErrCursorNotFound)

	got, err = repo.Load(ctx, "acct", "/b")
	require.NoError(t, err)
	assert.Equal(t, "other", got.Token())
}
