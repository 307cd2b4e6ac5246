package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	p := filepath.Join(t.TempDir(), "config.json")

	// Durations may be strings ("30s") or nanosecond numbers.
	jsonBody := `{
		"api": {
			"base_url": "https://api.example.com/1",
			"notify_url": "https://notify.example.com/1",
			"request_timeout": "20s",
			"longpoll_idle_timeout": 60000000000,
			"http2": true,
			"user_agent": "json-agent"
		},
		"auth": { "access_token": "json-token", "account": "carol" },
		"sync": {
			"path_prefixes": ["/a", "/b"],
			"longpoll_timeout": 300,
			"max_backoff": "90s",
			"reset_cursors": true
		},
		"storage": { "dsn": "/var/lib/dbxdelta/cursors.db" },
		"log": { "level": "error" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://api.example.com/1", cfg.API.BaseURL)
	assert.Equal(t, "https://notify.example.com/1", cfg.API.NotifyURL)
	assert.Equal(t, 20*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.API.LongpollIdleTimeout)
	assert.True(t, cfg.API.HTTP2)
	assert.Equal(t, "json-agent", cfg.API.UserAgent)

	assert.Equal(t, "json-token", cfg.Auth.AccessToken)
	assert.Equal(t, "carol", cfg.Auth.Account)

	assert.Equal(t, []string{"/a", "/b"}, cfg.Sync.PathPrefixes)
	assert.Equal(t, 300, cfg.Sync.LongpollTimeout)
	assert.Equal(t, 90*time.Second, cfg.Sync.MaxBackoff)
	assert.True(t, cfg.Sync.ResetCursors)

	assert.Equal(t, "/var/lib/dbxdelta/cursors.db", cfg.Storage.DSN)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"api": `), 0o600))

	_, err := parseJSON(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_InvalidDuration(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"sync": {"max_backoff": "later"}}`), 0o600))

	_, err := parseJSON(p)
	assert.Error(t, err)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(b))
}
