package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

// prefixList collects repeated -p values. Each value may itself hold a
// comma-separated list.
type prefixList []string

func (p *prefixList) String() string {
	if p == nil {
		return ""
	}
	return strings.Join(*p, ",")
}

func (p *prefixList) Set(s string) error {
	*p = append(*p, strings.Split(s, ",")...)
	return nil
}

// parseFlags parses args (without the program name) on a dedicated
// FlagSet.
//
// Flags:
//
//	-api-url base URL of the API family
//	-notify-url base URL of the notify family
//	-request-timeout request timeout (e.g., "30s")
//	-longpoll-idle-timeout notify idle timeout (e.g., "8m")
//	-http2 enable HTTP/2
//	-user-agent User-Agent header
//	-t/-access-token OAuth access token
//	-account account label for saved cursors
//	-p path prefix to follow (repeatable)
//	-longpoll-timeout server hold time in seconds (30..480)
//	-max-backoff retry delay cap (e.g., "5m")
//	-reset-cursors drop saved cursors at startup
//	-d cursor store DSN
//	-log-level log level
//	-c/-config json file path with configs
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("dbxdelta", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		apiURL, notifyURL, userAgent string
		requestTimeout, idleTimeout  time.Duration
		http2                        bool
		accessToken, account         string
		prefixes                     prefixList
		longpollTimeout              int
		maxBackoff                   time.Duration
		resetCursors                 bool
		dsn, logLevel                string
		jsonConfigPath               string
	)

	fs.StringVar(&apiURL, "api-url", "", "API base URL")
	fs.StringVar(&notifyURL, "notify-url", "", "Notify base URL")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s)")
	fs.DurationVar(&idleTimeout, "longpoll-idle-timeout", 0, "Long-poll idle timeout (e.g., 8m)")
	fs.BoolVar(&http2, "http2", false, "Enable HTTP/2")
	fs.StringVar(&userAgent, "user-agent", "", "User-Agent header")
	fs.StringVar(&accessToken, "t", "", "Access token")
	fs.StringVar(&accessToken, "access-token", "", "Access token (alias)")
	fs.StringVar(&account, "account", "", "Account label")
	fs.Var(&prefixes, "p", "Path prefix to follow (repeatable)")
	fs.IntVar(&longpollTimeout, "longpoll-timeout", 0, "Long-poll hold time in seconds")
	fs.DurationVar(&maxBackoff, "max-backoff", 0, "Retry delay cap (e.g., 5m)")
	fs.BoolVar(&resetCursors, "reset-cursors", false, "Drop saved cursors at startup")
	fs.StringVar(&dsn, "d", "", "Cursor store DSN")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		API: API{
			BaseURL:             apiURL,
			NotifyURL:           notifyURL,
			RequestTimeout:      requestTimeout,
			LongpollIdleTimeout: idleTimeout,
			HTTP2:               http2,
			UserAgent:           userAgent,
		},
		Auth: Auth{
			AccessToken: accessToken,
			Account:     account,
		},
		Sync: Sync{
			PathPrefixes:    prefixes,
			LongpollTimeout: longpollTimeout,
			MaxBackoff:      maxBackoff,
			ResetCursors:    resetCursors,
		},
		Storage:      Storage{DSN: dsn},
		Log:          Log{Level: logLevel},
		JSONFilePath: jsonConfigPath,
	}, nil
}
