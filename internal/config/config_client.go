package config

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-dbx-delta/internal/adapter"
	"github.com/MKhiriev/go-dbx-delta/internal/dbxapi"
	"github.com/MKhiriev/go-dbx-delta/internal/delta"
)

// ClientConfig is the runtime view of [StructuredConfig] used by the
// dbxdelta binary: URLs resolved to endpoints, transport options built.
type ClientConfig struct {
	Endpoints dbxapi.Endpoints
	// Transport configures requests to the API family.
	Transport adapter.Options
	// Notify configures long-poll requests to the notify family.
	Notify adapter.Options

	Credentials  delta.Credentials
	Account      string
	PathPrefixes []string

	LongpollTimeout int
	MaxBackoff      time.Duration
	ResetCursors    bool

	Storage  Storage
	LogLevel string
}

// GetClientConfig loads the structured config from args and the
// environment and derives a [ClientConfig] from it.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return cfg.ClientConfig()
}

// ClientConfig derives the runtime view of cfg.
func (cfg *StructuredConfig) ClientConfig() (*ClientConfig, error) {
	endpoints, err := dbxapi.NewEndpoints(cfg.API.BaseURL, cfg.API.NotifyURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAPIConfigs, err)
	}

	transport := adapter.Options{
		Timeout:   cfg.API.RequestTimeout,
		UserAgent: cfg.API.UserAgent,
		HTTP2:     cfg.API.HTTP2,
	}
	notify := transport
	notify.IdleTimeout = cfg.API.LongpollIdleTimeout

	return &ClientConfig{
		Endpoints:       endpoints,
		Transport:       transport,
		Notify:          notify.ForLongpoll(),
		Credentials:     delta.Credentials{AccessToken: cfg.Auth.AccessToken},
		Account:         cfg.Auth.Account,
		PathPrefixes:    append([]string(nil), cfg.Sync.PathPrefixes...),
		LongpollTimeout: cfg.Sync.LongpollTimeout,
		MaxBackoff:      cfg.Sync.MaxBackoff,
		ResetCursors:    cfg.Sync.ResetCursors,
		Storage:         cfg.Storage,
		LogLevel:        cfg.Log.Level,
	}, nil
}
