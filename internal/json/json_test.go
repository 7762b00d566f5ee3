package json

import (
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	in := sample{Name: "atlas", Count: 3}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out sample
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestUnmarshalRejectsMalformedInput(t *testing.T) {
	var out sample
	if err := Unmarshal([]byte(`{"name":`), &out); err == nil {
		t.Fatalf("expected error for truncated input")
	}
}
