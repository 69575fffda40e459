package cursor

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Token is an opaque position in a server-generated stream.
// The zero Token means "start of stream". Tokens are only ever sent back verbatim.
type Token struct {
	value string
}

// NewToken wraps a token received out of band, e.g. from saved history.
func NewToken(value string) Token {
	return Token{value: value}
}

// IsZero reports whether the token denotes the start of the stream.
func (t Token) IsZero() bool {
	return t.value == ""
}

func (t Token) String() string {
	return t.value
}

// MarshalJSON encodes the token as a JSON string, or null for the start of stream.
func (t Token) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
// Numbers are kept in their literal form so they round-trip without precision loss.
func (t *Token) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		t.value = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, &t.value)
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("token must be a string or a number: %w", err)
	}

	t.value = n.String()
	return nil
}
