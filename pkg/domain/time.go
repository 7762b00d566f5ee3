package domain

import (
	"fmt"
	"strings"
	"time"
)

// layoutFractional matches the server's primary timestamp format, which
// carries millisecond precision. Some endpoints still emit plain RFC 3339,
// so decoding falls back to that before giving up.
const layoutFractional = "2006-01-02T15:04:05.000Z07:00"

// Time decodes API timestamps permissively: fractional-seconds first,
// plain RFC 3339 second. It marshals back with fractional seconds.
type Time struct {
	time.Time
}

// NewTime wraps a time.Time.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{layoutFractional, time.RFC3339} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(layoutFractional) + `"`), nil
}
