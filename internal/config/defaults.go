package config

import (
	"time"

	"github.com/MKhiriev/go-dbx-delta/internal/adapter"
	"github.com/MKhiriev/go-dbx-delta/internal/dbxapi"
	"github.com/MKhiriev/go-dbx-delta/internal/delta"
)

const (
	// DefaultAccount labels cursors when no account is configured.
	DefaultAccount = "default"
	// DefaultDSN is the SQLite file used when no DSN is configured.
	DefaultDSN = "dbxdelta.db"
	// DefaultLogLevel is the level used when none is configured.
	DefaultLogLevel = "info"
	// DefaultMaxBackoff caps retry delays when none is configured.
	DefaultMaxBackoff = 5 * time.Minute
)

// Defaults returns the configuration used for every field no other source
// sets. PathPrefixes defaults to the whole account.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		API: API{
			BaseURL:             dbxapi.DefaultAPIURL,
			NotifyURL:           dbxapi.DefaultNotifyURL,
			RequestTimeout:      adapter.DefaultRequestTimeout,
			LongpollIdleTimeout: adapter.DefaultIdleTimeout,
			UserAgent:           adapter.DefaultUserAgent,
		},
		Auth: Auth{
			Account: DefaultAccount,
		},
		Sync: Sync{
			PathPrefixes:    []string{"/"},
			LongpollTimeout: delta.DefaultLongpollTimeout,
			MaxBackoff:      DefaultMaxBackoff,
		},
		Storage: Storage{
			DSN: DefaultDSN,
		},
		Log: Log{
			Level: DefaultLogLevel,
		},
	}
}
