package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	API struct {
		BaseURL             string   `json:"base_url"`
		NotifyURL           string   `json:"notify_url"`
		RequestTimeout      Duration `json:"request_timeout"`
		LongpollIdleTimeout Duration `json:"longpoll_idle_timeout"`
		HTTP2               bool     `json:"http2"`
		UserAgent           string   `json:"user_agent"`
	} `json:"api,omitempty"`

	Auth struct {
		AccessToken string `json:"access_token"`
		Account     string `json:"account"`
	} `json:"auth,omitempty"`

	Sync struct {
		PathPrefixes    []string `json:"path_prefixes"`
		LongpollTimeout int      `json:"longpoll_timeout"`
		MaxBackoff      Duration `json:"max_backoff"`
		ResetCursors    bool     `json:"reset_cursors"`
	} `json:"sync,omitempty"`

	Storage struct {
		DSN string `json:"dsn"`
	} `json:"storage,omitempty"`

	Log struct {
		Level string `json:"level"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		API: API{
			BaseURL:             jsonCfg.API.BaseURL,
			NotifyURL:           jsonCfg.API.NotifyURL,
			RequestTimeout:      time.Duration(jsonCfg.API.RequestTimeout),
			LongpollIdleTimeout: time.Duration(jsonCfg.API.LongpollIdleTimeout),
			HTTP2:               jsonCfg.API.HTTP2,
			UserAgent:           jsonCfg.API.UserAgent,
		},
		Auth: Auth{
			AccessToken: jsonCfg.Auth.AccessToken,
			Account:     jsonCfg.Auth.Account,
		},
		Sync: Sync{
			PathPrefixes:    jsonCfg.Sync.PathPrefixes,
			LongpollTimeout: jsonCfg.Sync.LongpollTimeout,
			MaxBackoff:      time.Duration(jsonCfg.Sync.MaxBackoff),
			ResetCursors:    jsonCfg.Sync.ResetCursors,
		},
		Storage: Storage{
			DSN: jsonCfg.Storage.DSN,
		},
		Log: Log{
			Level: jsonCfg.Log.Level,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
