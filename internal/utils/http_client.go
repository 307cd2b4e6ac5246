package utils

import (
	"net/http"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a new HTTPClient on top of the given round tripper.
// A nil rt keeps resty's default transport.
//
// The returned client never retries on its own: retry policy belongs to the
// callers of the transport.
//
// Example usage:
//
//	client := utils.NewHTTPClient(http.DefaultTransport)
//	resp, err := client.R().
//	    SetQueryParams(map[string]string{"cursor": c}).
//	    Get("https://api.example.com/1/longpoll_delta")
func NewHTTPClient(rt http.RoundTripper) *HTTPClient {
	client := resty.New().SetRetryCount(0)
	if rt != nil {
		client.SetTransport(rt)
	}
	return &HTTPClient{Client: client}
}
