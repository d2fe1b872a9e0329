package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Identifier is a player id from the matchmaking service or the local log.
// It is either an integer or an opaque token that could not be read as one.
// The zero value is the absent identifier.
type Identifier struct {
	n       int64
	text    string
	numeric bool
}

// IntID returns a numeric Identifier.
func IntID(n int64) Identifier {
	return Identifier{n: n, numeric: true}
}

// ParseIdentifier reads s as an integer when possible and keeps it as an
// opaque token otherwise. Surrounding whitespace and quotes are dropped.
func ParseIdentifier(s string) Identifier {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == "" {
		return Identifier{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntID(n)
	}
	return Identifier{text: s}
}

// IsZero reports whether the identifier is absent.
func (id Identifier) IsZero() bool {
	return !id.numeric && id.text == ""
}

// Numeric reports whether the identifier holds an integer.
func (id Identifier) Numeric() bool {
	return id.numeric
}

// Int returns the integer value and true for numeric identifiers.
func (id Identifier) Int() (int64, bool) {
	return id.n, id.numeric
}

func (id Identifier) String() string {
	if id.numeric {
		return strconv.FormatInt(id.n, 10)
	}
	return id.text
}

// Equal compares two identifiers. Two integers compare by value; any other
// pairing compares by string form, so an opaque "007" never equals the
// integer 7. Absent identifiers are never equal to anything.
func (id Identifier) Equal(other Identifier) bool {
	if id.IsZero() || other.IsZero() {
		return false
	}
	if id.numeric && other.numeric {
		return id.n == other.n
	}
	return id.String() == other.String()
}

// MarshalJSON writes integers as JSON numbers and opaque tokens as strings.
func (id Identifier) MarshalJSON() ([]byte, error) {
	switch {
	case id.numeric:
		return []byte(strconv.FormatInt(id.n, 10)), nil
	case id.text == "":
		return []byte("null"), nil
	default:
		return json.Marshal(id.text)
	}
}

// UnmarshalJSON accepts a number, a string or null. Numbers are read from
// their literal text, never through float64, so 17-digit steam ids survive.
func (id *Identifier) UnmarshalJSON(data []byte) error {
	*id = identifierFromRaw(data)
	return nil
}

func identifierFromRaw(raw json.RawMessage) Identifier {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Identifier{}
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ParseIdentifier(string(raw))
		}
		return ParseIdentifier(s)
	}
	id := ParseIdentifier(string(raw))
	if id.numeric {
		return id
	}
	// 1.5e3 style numbers: integral values below 2^53 are exact.
	if f, err := strconv.ParseFloat(string(raw), 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return IntID(int64(f))
	}
	return id
}

// GoString keeps test failure output readable.
func (id Identifier) GoString() string {
	if id.numeric {
		return fmt.Sprintf("roster.IntID(%d)", id.n)
	}
	return fmt.Sprintf("roster.Identifier{%q}", id.text)
}
