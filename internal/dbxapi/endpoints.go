package dbxapi

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultAPIURL    = "https://api.dropbox.com/1"
	DefaultNotifyURL = "https://api-notify.dropbox.com/1"
)

var ErrInvalidEndpoint = errors.New("invalid endpoint")

// Endpoints holds the base URLs of the two API families. Long-poll requests
// go to Notify, everything else to API.
type Endpoints struct {
	API    string
	Notify string
}

// DefaultEndpoints returns the production base URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{API: DefaultAPIURL, Notify: DefaultNotifyURL}
}

// NewEndpoints validates and normalises the given base URLs. Empty values
// fall back to the defaults; a value without a scheme is treated as https.
func NewEndpoints(api, notify string) (Endpoints, error) {
	e := DefaultEndpoints()

	if strings.TrimSpace(api) != "" {
		u, err := normalizeBaseURL(api)
		if err != nil {
			return Endpoints{}, fmt.Errorf("%w: api url: %w", ErrInvalidEndpoint, err)
		}
		e.API = u
	}
	if strings.TrimSpace(notify) != "" {
		u, err := normalizeBaseURL(notify)
		if err != nil {
			return Endpoints{}, fmt.Errorf("%w: notify url: %w", ErrInvalidEndpoint, err)
		}
		e.Notify = u
	}

	return e, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("address must not include query or fragment")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
