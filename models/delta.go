// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MetadataTimeLayout is the timestamp format of Metadata.Modified and
// Metadata.ClientMtime.
const MetadataTimeLayout = time.RFC1123Z

var ErrMalformedEntry = errors.New("malformed delta entry")

// Metadata describes a file or folder as reported in a delta entry.
type Metadata struct {
	Path        string `json:"path"`
	Rev         string `json:"rev,omitempty"`
	Revision    int64  `json:"revision,omitempty"`
	Hash        string `json:"hash,omitempty"`
	Size        string `json:"size,omitempty"`
	Bytes       int64  `json:"bytes"`
	IsDir       bool   `json:"is_dir"`
	IsDeleted   bool   `json:"is_deleted,omitempty"`
	ThumbExists bool   `json:"thumb_exists,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Root        string `json:"root,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	Modified    string `json:"modified,omitempty"`
	ClientMtime string `json:"client_mtime,omitempty"`
}

// ModifiedTime parses Modified. It returns the zero time when the field is
// empty or malformed.
func (m Metadata) ModifiedTime() time.Time {
	t, err := time.Parse(MetadataTimeLayout, m.Modified)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DeltaEntry is one change from a delta page: the lower-cased path and the
// new metadata, or nil metadata when the path no longer exists.
//
// On the wire an entry is a two-element array: [path, metadata|null].
type DeltaEntry struct {
	Path     string
	Metadata *Metadata
}

// Deleted reports whether the entry removes Path and everything below it.
func (e DeltaEntry) Deleted() bool {
	return e.Metadata == nil
}

func (e *DeltaEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEntry, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: want 2 elements, got %d", ErrMalformedEntry, len(pair))
	}

	var path string
	if err := json.Unmarshal(pair[0], &path); err != nil {
		return fmt.Errorf("%w: path: %w", ErrMalformedEntry, err)
	}

	var meta *Metadata
	if !bytes.Equal(bytes.TrimSpace(pair[1]), []byte("null")) {
		meta = &Metadata{}
		if err := json.Unmarshal(pair[1], meta); err != nil {
			return fmt.Errorf("%w: metadata: %w", ErrMalformedEntry, err)
		}
	}

	e.Path = path
	e.Metadata = meta
	return nil
}

func (e DeltaEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Path, e.Metadata})
}
