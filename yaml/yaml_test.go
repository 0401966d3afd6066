package yaml

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/sexpr"
	sexprtest "github.com/zoobzio/sexpr/testing"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/yaml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/yaml")
	}
}

func TestMarshal_Footprint(t *testing.T) {
	v := sexprtest.MustDecode(t, sexprtest.FootprintNoPads, sexprtest.Footprint)
	x, err := sexpr.ToInterface(v, sexprtest.Footprint)
	if err != nil {
		t.Fatalf("ToInterface() error: %v", err)
	}

	data, err := New().Marshal(x)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), "pads: []\n") {
		t.Errorf("Marshal() = %q, want an empty pads list", data)
	}
}

func TestUnmarshal_HandWritten(t *testing.T) {
	doc := strings.Join([]string{
		"library_link: Capacitor_SMD:C_0402",
		"pads:",
		"  - index: 1",
		"    ty: smd",
		"    shape: rect",
		"    at: {x: 0, y: 0}",
		"    size: {width: 1.27, height: 1.27}",
		"    layers: [F.Cu]",
		"",
	}, "\n")

	var x any
	if err := New().Unmarshal([]byte(doc), &x); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	v, err := sexpr.FromInterface(x, sexprtest.Footprint)
	if err != nil {
		t.Fatalf("FromInterface() error: %v", err)
	}

	if got := sexprtest.MustEncode(t, v, sexprtest.Footprint); got != sexprtest.FootprintOnePad {
		t.Errorf("Encode() = %q, want %q", got, sexprtest.FootprintOnePad)
	}
}

func TestRoundTrip_Footprint(t *testing.T) {
	c := New()
	x, err := sexpr.ToInterface(sexprtest.TwoPads(), sexprtest.Footprint)
	if err != nil {
		t.Fatalf("ToInterface() error: %v", err)
	}
	data, err := c.Marshal(x)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored any
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	got, err := sexpr.FromInterface(restored, sexprtest.Footprint)
	if err != nil {
		t.Fatalf("FromInterface() error: %v", err)
	}
	if diff := cmp.Diff(sexprtest.TwoPads(), got); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var x any
	if err := New().Unmarshal([]byte("key: [unclosed"), &x); err == nil {
		t.Error("Unmarshal() should fail on invalid YAML")
	}
}

func TestMarshal_Indent(t *testing.T) {
	x := map[string]any{"at": map[string]any{"x": 1}}

	tests := []struct {
		name  string
		codec sexpr.Codec
		want  string
	}{
		{"default", New(), "at:\n  x: 1\n"},
		{"four spaces", NewIndent(4), "at:\n    x: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.codec.Marshal(x)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestUnmarshal_DocumentCount(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"empty", "", ErrEmptyDocument},
		{"two documents", "x: 1\n---\nx: 2\n", ErrMultipleDocuments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var x any
			if err := New().Unmarshal([]byte(tt.data), &x); !errors.Is(err, tt.wantErr) {
				t.Errorf("Unmarshal() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	var x any
	if err := New().Unmarshal([]byte("---\nx: 1\n"), &x); err != nil {
		t.Fatalf("Unmarshal() with document marker error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"x": 1}, x); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}
}
