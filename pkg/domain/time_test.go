package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimeDecodesFractionalSeconds(t *testing.T) {
	var ts Time
	if err := json.Unmarshal([]byte(`"2024-03-01T10:20:30.123Z"`), &ts); err != nil {
		t.Fatalf("decode fractional: %v", err)
	}
	want := time.Date(2024, 3, 1, 10, 20, 30, 123_000_000, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("got %v, want %v", ts.Time, want)
	}
}

func TestTimeFallsBackToPlainRFC3339(t *testing.T) {
	var ts Time
	if err := json.Unmarshal([]byte(`"2024-03-01T10:20:30Z"`), &ts); err != nil {
		t.Fatalf("decode plain: %v", err)
	}
	want := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("got %v, want %v", ts.Time, want)
	}
}

func TestTimeRejectsUnknownFormatNamingInput(t *testing.T) {
	var ts Time
	err := json.Unmarshal([]byte(`"01/03/2024"`), &ts)
	if err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if got := err.Error(); got != `unrecognized timestamp "01/03/2024"` {
		t.Fatalf("error should name the offending string, got %q", got)
	}
}

func TestTimeNullAndEmptyDecodeToZero(t *testing.T) {
	for _, raw := range []string{`null`, `""`} {
		var ts Time
		if err := json.Unmarshal([]byte(raw), &ts); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		if !ts.IsZero() {
			t.Fatalf("decode %s: expected zero time", raw)
		}
	}
}

func TestTimeMarshalsWithFractionalSeconds(t *testing.T) {
	ts := NewTime(time.Date(2024, 3, 1, 10, 20, 30, 123_000_000, time.UTC))
	out, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-03-01T10:20:30.123Z"` {
		t.Fatalf("got %s", out)
	}
}
