package delta

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_Zero(t *testing.T) {
	var c Cursor
	assert.True(t, c.IsZero())
	assert.Equal(t, "<start>", c.String())
	assert.False(t, CursorFrom("c1").IsZero())
}

func TestCursor_StringAbbreviates(t *testing.T) {
	assert.Equal(t, "c1", CursorFrom("c1").String())

	long := CursorFrom(strings.Repeat("a", 10) + strings.Repeat("b", 30) + "zzzzzzzz")
	s := long.String()
	assert.True(t, strings.HasPrefix(s, "aaaaaaaa"))
	assert.Contains(t, s, "zzzzzzzz(48)")
	assert.Equal(t, 48, len(long.Token()))
}

func TestCursor_StringMultibyte(t *testing.T) {
	// 16 runes but 48 bytes: short enough to print whole.
	short := strings.Repeat("日", 16)
	assert.Equal(t, short, CursorFrom(short).String())

	long := CursorFrom(strings.Repeat("é", 9) + strings.Repeat("x", 10) + strings.Repeat("ж", 9))
	s := long.String()
	assert.True(t, utf8.ValidString(s))
	assert.Equal(t, "éééééééé…жжжжжжжж(46)", s)
}

func TestCursor_TextRoundTrip(t *testing.T) {
	type state struct {
		Cursor Cursor `json:"cursor"`
	}
	b, err := json.Marshal(state{Cursor: CursorFrom("AAE-xyz")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cursor":"AAE-xyz"}`, string(b))

	var got state
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, CursorFrom("AAE-xyz"), got.Cursor)
}

func TestCredentials_Redacted(t *testing.T) {
	c := Credentials{AccessToken: "super-secret"}
	for _, s := range []string{c.String(), fmt.Sprintf("%v", c), fmt.Sprintf("%+v", c), fmt.Sprintf("%#v", c)} {
		assert.NotContains(t, s, "super-secret")
	}
	assert.Equal(t, "Credentials{}", Credentials{}.String())
}
