// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-dbx-delta/internal/dbxapi"
)

// Long-poll hold time accepted by the server, in seconds.
const (
	minLongpollTimeout = 30
	maxLongpollTimeout = 480
)

// normalize trims path prefixes, gives them a leading slash and drops
// duplicates. Order is kept. An empty prefix becomes "/".
func (cfg *StructuredConfig) normalize() {
	seen := make(map[string]struct{}, len(cfg.Sync.PathPrefixes))
	prefixes := make([]string, 0, len(cfg.Sync.PathPrefixes))

	for _, p := range cfg.Sync.PathPrefixes {
		p = strings.TrimSpace(p)
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		prefixes = append(prefixes, p)
	}

	cfg.Sync.PathPrefixes = prefixes
	cfg.Auth.Account = strings.TrimSpace(cfg.Auth.Account)
	cfg.Auth.AccessToken = strings.TrimSpace(cfg.Auth.AccessToken)
}

// validate checks that the merged [StructuredConfig] can start the binary.
// Every failure wraps one of the ErrInvalid* sentinels.
func (cfg *StructuredConfig) validate() error {
	if _, err := dbxapi.NewEndpoints(cfg.API.BaseURL, cfg.API.NotifyURL); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAPIConfigs, err)
	}
	if cfg.API.RequestTimeout < 0 || cfg.API.LongpollIdleTimeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidAPIConfigs)
	}

	if cfg.Auth.AccessToken == "" {
		return fmt.Errorf("%w: access token is required", ErrInvalidAuthConfigs)
	}
	if cfg.Auth.Account == "" {
		return fmt.Errorf("%w: account is required", ErrInvalidAuthConfigs)
	}

	if len(cfg.Sync.PathPrefixes) == 0 {
		return fmt.Errorf("%w: no path prefixes", ErrInvalidSyncConfigs)
	}
	if cfg.Sync.LongpollTimeout != 0 &&
		(cfg.Sync.LongpollTimeout < minLongpollTimeout || cfg.Sync.LongpollTimeout > maxLongpollTimeout) {
		return fmt.Errorf("%w: longpoll timeout %d outside %d..%d",
			ErrInvalidSyncConfigs, cfg.Sync.LongpollTimeout, minLongpollTimeout, maxLongpollTimeout)
	}
	if cfg.Sync.MaxBackoff < 0 {
		return fmt.Errorf("%w: negative max backoff", ErrInvalidSyncConfigs)
	}

	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Log.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidLogConfigs, err)
		}
	}

	return nil
}
