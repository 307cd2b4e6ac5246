package delta

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-dbx-delta/internal/dbxapi"
	"github.com/MKhiriev/go-dbx-delta/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(t *testing.T, body string) dbxapi.Payload {
	t.Helper()
	p, err := dbxapi.ParsePayload([]byte(body))
	require.NoError(t, err)
	return p
}

func TestPage_Accessors(t *testing.T) {
	page := NewPage(payload(t, `{
		"cursor": "c2",
		"has_more": true,
		"reset": true,
		"entries": [["/a.txt", {"path": "/A.txt", "bytes": 3, "is_dir": false}], ["/b", null]]
	}`))

	assert.Equal(t, CursorFrom("c2"), page.Cursor())
	assert.True(t, page.HasMore())
	assert.True(t, page.Reset())

	entries, err := page.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/a.txt", entries[0].Path)
	assert.Equal(t, int64(3), entries[0].Metadata.Bytes)
	assert.True(t, entries[1].Deleted())
}

func TestPage_MissingFields(t *testing.T) {
	page := NewPage(payload(t, `{"cursor": 5}`))

	assert.True(t, page.Cursor().IsZero())
	assert.False(t, page.HasMore())
	assert.False(t, page.Reset())
	entries, err := page.Entries()
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPage_MalformedEntries(t *testing.T) {
	_, err := NewPage(payload(t, `{"entries": {"a": 1}}`)).Entries()
	assert.ErrorIs(t, err, models.ErrMalformedEntry)

	_, err = NewPage(payload(t, `{"entries": [["/a"]]}`)).Entries()
	assert.ErrorIs(t, err, models.ErrMalformedEntry)
}

func TestPage_KeepsPayload(t *testing.T) {
	page := NewPage(payload(t, `{"cursor":"c1","extra":{"x":1}}`))
	assert.Equal(t, int64(1), page.Payload().Get("extra.x").Int())
}

func TestWait_Accessors(t *testing.T) {
	w := NewWait(payload(t, `{"changes": true, "backoff": 60}`))
	assert.True(t, w.Changes())
	d, ok := w.Backoff()
	require.True(t, ok)
	assert.Equal(t, time.Minute, d)

	w = NewWait(payload(t, `{}`))
	assert.False(t, w.Changes())
	_, ok = w.Backoff()
	assert.False(t, ok)

	_, ok = NewWait(payload(t, `{"backoff": "soon"}`)).Backoff()
	assert.False(t, ok)
}
