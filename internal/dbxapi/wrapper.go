package dbxapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-dbx-delta/internal/adapter"
	"github.com/tidwall/gjson"
)

var (
	errEmptyBody    = errors.New("empty response body")
	errTrailingData = errors.New("trailing data after JSON value")
)

// Payload is a successfully parsed JSON response. It keeps both the raw bytes
// and the decoded tree; numbers in the tree are json.Number.
type Payload struct {
	raw  []byte
	tree any
}

// ParsePayload decodes raw as a single JSON value.
func ParsePayload(raw []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		if errors.Is(err, io.EOF) {
			return Payload{}, errEmptyBody
		}
		return Payload{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Payload{}, errTrailingData
	}

	return Payload{raw: raw, tree: tree}, nil
}

// Raw returns the response bytes the payload was parsed from.
func (p Payload) Raw() []byte { return p.raw }

// Tree returns the decoded JSON value: map[string]any, []any, string,
// json.Number, bool or nil.
func (p Payload) Tree() any { return p.tree }

// Object returns the tree as a JSON object.
func (p Payload) Object() (map[string]any, bool) {
	obj, ok := p.tree.(map[string]any)
	return obj, ok
}

// Get looks up a gjson path in the raw payload.
func (p Payload) Get(path string) gjson.Result {
	return gjson.GetBytes(p.raw, path)
}

// IsZero reports whether p holds no parsed response.
func (p Payload) IsZero() bool { return p.raw == nil }

// interpret turns a raw transport response into a Payload or a failure
// status: HTTP classification first, then JSON parsing, then the in-band
// "error" field that the provider may return with HTTP 200.
func (c *Classifier) interpret(resp adapter.Response) (Payload, error) {
	if st := c.ClassifyResponse(resp); st != nil {
		return Payload{}, st
	}

	payload, err := ParsePayload(resp.Body)
	if err != nil {
		return Payload{}, &Status{
			Code:       ResponseError,
			Message:    err.Error(),
			HTTPStatus: resp.StatusCode,
			err:        fmt.Errorf("%w: %w", ErrParse, err),
		}
	}

	if obj, ok := payload.Object(); ok {
		if v, has := obj["error"]; has && v != nil {
			msg, isString := v.(string)
			if !isString {
				msg = payload.Get("error").Raw
			}
			return Payload{}, c.ClassifyAPIError(resp.StatusCode, msg)
		}
	}

	return payload, nil
}
