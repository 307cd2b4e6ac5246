package store

import (
	"context"

	"github.com/MKhiriev/go-dbx-delta/internal/delta"
)

// CursorRepository persists delta cursors keyed by account and path prefix.
type CursorRepository interface {
	// Load returns the saved cursor, or ErrCursorNotFound.
	Load(ctx context.Context, account, pathPrefix string) (delta.Cursor, error)
	// Save inserts or replaces the cursor.
	Save(ctx context.Context, account, pathPrefix string, cursor delta.Cursor) error
	// Delete removes the cursor. Deleting a missing cursor is not an error.
	Delete(ctx context.Context, account, pathPrefix string) error
}
