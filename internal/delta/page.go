package delta

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-dbx-delta/internal/dbxapi"
	"github.com/MKhiriev/go-dbx-delta/models"
	"github.com/tidwall/gjson"
)

// Page is one response of the delta endpoint. The accessors read the
// documented fields; the full payload stays available through Payload.
type Page struct {
	payload dbxapi.Payload
}

// NewPage wraps a parsed delta response.
func NewPage(p dbxapi.Payload) Page {
	return Page{payload: p}
}

func (p Page) Payload() dbxapi.Payload { return p.payload }

// Cursor returns the cursor to pass to the next DeltaGet or DeltaWait. It is
// zero when the response carried no string cursor.
func (p Page) Cursor() Cursor {
	r := p.payload.Get("cursor")
	if r.Type != gjson.String {
		return Cursor{}
	}
	return CursorFrom(r.Str)
}

// HasMore reports whether more entries are available immediately.
func (p Page) HasMore() bool {
	return p.payload.Get("has_more").Bool()
}

// Reset reports whether the client must discard its local state before
// applying the entries of this page.
func (p Page) Reset() bool {
	return p.payload.Get("reset").Bool()
}

// Entries decodes the changes of this page in server order.
func (p Page) Entries() ([]models.DeltaEntry, error) {
	r := p.payload.Get("entries")
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}
	if !r.IsArray() {
		return nil, fmt.Errorf("%w: entries is not an array", models.ErrMalformedEntry)
	}

	var entries []models.DeltaEntry
	if err := json.Unmarshal([]byte(r.Raw), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Wait is one response of the long-poll endpoint.
type Wait struct {
	payload dbxapi.Payload
}

// NewWait wraps a parsed long-poll response.
func NewWait(p dbxapi.Payload) Wait {
	return Wait{payload: p}
}

func (w Wait) Payload() dbxapi.Payload { return w.payload }

// Changes reports whether new changes are available. A long-poll that timed
// out on the server side reports false.
func (w Wait) Changes() bool {
	return w.payload.Get("changes").Bool()
}

// Backoff returns how long the server asked the client to wait before the
// next long-poll.
func (w Wait) Backoff() (time.Duration, bool) {
	r := w.payload.Get("backoff")
	if r.Type != gjson.Number || r.Num <= 0 {
		return 0, false
	}
	return time.Duration(r.Num * float64(time.Second)), true
}
