package delta

import "fmt"

// Cursor is an opaque position in the change history, issued by the server.
// The zero value means "from the beginning". A cursor is never built or
// inspected by the client; it is passed back verbatim.
type Cursor struct {
	token string
}

// CursorFrom wraps a token previously obtained from the server, for example
// one loaded from persistent storage.
func CursorFrom(token string) Cursor {
	return Cursor{token: token}
}

// IsZero reports whether c is the start-of-history cursor.
func (c Cursor) IsZero() bool {
	return c.token == ""
}

// Token returns the server-issued token.
func (c Cursor) Token() string {
	return c.token
}

// String returns an abbreviated form suitable for logs: the first and last
// eight characters and the token length in bytes. It cuts on rune
// boundaries, so a multibyte token stays valid UTF-8.
func (c Cursor) String() string {
	const keep = 8
	if c.token == "" {
		return "<start>"
	}
	runes := []rune(c.token)
	if len(runes) <= 2*keep {
		return c.token
	}
	return fmt.Sprintf("%s…%s(%d)", string(runes[:keep]), string(runes[len(runes)-keep:]), len(c.token))
}

func (c Cursor) MarshalText() ([]byte, error) {
	return []byte(c.token), nil
}

func (c *Cursor) UnmarshalText(text []byte) error {
	c.token = string(text)
	return nil
}

// Credentials authenticate every call. The access token is never logged.
type Credentials struct {
	AccessToken string
}

func (c Credentials) String() string {
	if c.AccessToken == "" {
		return "Credentials{}"
	}
	return "Credentials{AccessToken: REDACTED}"
}

func (c Credentials) GoString() string {
	return c.String()
}
