// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"

	"github.com/MKhiriev/go-dbx-delta/internal/delta"
	"github.com/MKhiriev/go-dbx-delta/models"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/session_mock.go -package=mocks

// DeltaClient is the protocol client a session drives. *delta.Client
// implements it.
type DeltaClient interface {
	DeltaGet(ctx context.Context, creds delta.Credentials, pathPrefix string, cursor delta.Cursor) (delta.Page, error)
	DeltaWait(ctx context.Context, creds delta.Credentials, cursor delta.Cursor) (delta.Wait, error)
}

// CursorStore persists the last handled cursor per account and path prefix.
// Load returns store.ErrCursorNotFound when nothing has been saved yet.
type CursorStore interface {
	Load(ctx context.Context, account, pathPrefix string) (delta.Cursor, error)
	Save(ctx context.Context, account, pathPrefix string, cursor delta.Cursor) error
	Delete(ctx context.Context, account, pathPrefix string) error
}

// Handler consumes the change feed. A returned error stops the session
// before the cursor of the page is saved, so the page is delivered again on
// the next run.
type Handler interface {
	// HandleReset is called before the entries of a page that asks the
	// client to drop everything it knows under pathPrefix.
	HandleReset(ctx context.Context, pathPrefix string) error
	// HandleEntries is called once per page, in server order.
	HandleEntries(ctx context.Context, pathPrefix string, entries []models.DeltaEntry) error
}
