package sexpr

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testBoard = MustRecord("board",
	Plain("name", Text()),
	Plain("layers", Unsigned(8)),
	Keyed("origin", testPoint),
	Optional("thickness", Floating(64)),
	Flag("locked"),
	Plain("kind", MustEnum("kind",
		UnitVariant("smd"),
		NewtypeVariant("drill", Floating(64)),
	)),
	Plain("id", Literal),
	Keyed("hash", Binary()),
	Rest(testPolygon).Labeled("zones"),
)

func testBoardValue() Record {
	return Record{
		"name":      String("main"),
		"layers":    Uint(4),
		"origin":    Tuple{Int(10), Int(-20)},
		"thickness": Some(Float(1.6)),
		"locked":    Bool(true),
		"kind":      Variant{Name: "drill", Value: Float(0.8)},
		"id":        Variant{Name: "text", Value: String("J1")},
		"hash":      Bytes{0x01, 0xff},
		"":          Seq{Record{"": Seq{Tuple{Int(0), Int(0)}}}},
	}
}

func TestToInterface(t *testing.T) {
	got, err := ToInterface(testBoardValue(), testBoard)
	if err != nil {
		t.Fatalf("ToInterface() error: %v", err)
	}

	want := map[string]any{
		"name":      "main",
		"layers":    uint64(4),
		"origin":    []any{int64(10), int64(-20)},
		"thickness": 1.6,
		"locked":    true,
		"kind":      map[string]any{"drill": 0.8},
		"id":        "J1",
		"hash":      "01ff",
		"zones":     []any{map[string]any{"points": []any{[]any{int64(0), int64(0)}}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToInterface() mismatch (-want +got):\n%s", diff)
	}
}

func TestToInterface_OmitsNone(t *testing.T) {
	v := testBoardValue()
	v["thickness"] = None()

	got, err := ToInterface(v, testBoard)
	if err != nil {
		t.Fatalf("ToInterface() error: %v", err)
	}
	if _, ok := got.(map[string]any)["thickness"]; ok {
		t.Error("ToInterface() should omit None fields")
	}
}

func TestFromInterface(t *testing.T) {
	in := map[string]any{
		"name":      "main",
		"layers":    float64(4),
		"origin":    []any{10, int8(-20)},
		"thickness": 1.6,
		"locked":    true,
		"kind":      map[any]any{"drill": 0.8},
		"id":        "J1",
		"hash":      "01ff",
		"zones":     []any{map[string]any{"points": []any{[]any{uint16(0), 0.0}}}},
	}

	got, err := FromInterface(in, testBoard)
	if err != nil {
		t.Fatalf("FromInterface() error: %v", err)
	}
	if diff := cmp.Diff(testBoardValue(), got); diff != "" {
		t.Errorf("FromInterface() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromInterface_Defaults(t *testing.T) {
	in := map[string]any{
		"name":   "main",
		"layers": 2,
		"origin": []any{0, 0},
		"kind":   "smd",
		"id":     7,
		"hash":   []byte{0xaa},
	}

	got, err := FromInterface(in, testBoard)
	if err != nil {
		t.Fatalf("FromInterface() error: %v", err)
	}
	want := Record{
		"name":      String("main"),
		"layers":    Uint(2),
		"origin":    Tuple{Int(0), Int(0)},
		"thickness": None(),
		"locked":    Bool(false),
		"kind":      Variant{Name: "smd"},
		"id":        Variant{Name: "number", Value: Uint(7)},
		"hash":      Bytes{0xaa},
		"":          Seq{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromInterface() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromInterface_Errors(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"name":   "main",
			"layers": 2,
			"origin": []any{0, 0},
			"kind":   "smd",
			"id":     7,
			"hash":   "00",
		}
	}

	tests := []struct {
		name    string
		mutate  func(m map[string]any)
		wantErr error
	}{
		{"missing plain", func(m map[string]any) { delete(m, "name") }, ErrMissingField},
		{"fractional integer", func(m map[string]any) { m["layers"] = 2.5 }, ErrTypeMismatch},
		{"out of range", func(m map[string]any) { m["layers"] = 300 }, ErrTypeMismatch},
		{"tuple arity", func(m map[string]any) { m["origin"] = []any{1} }, ErrArityMismatch},
		{"unknown variant", func(m map[string]any) { m["kind"] = "tht" }, ErrUnknownVariant},
		{"unknown key", func(m map[string]any) { m["color"] = "red" }, ErrUnexpectedExtraField},
		{"bad hex", func(m map[string]any) { m["hash"] = "zz" }, ErrTypeMismatch},
		{"flag not bool", func(m map[string]any) { m["locked"] = "yes" }, ErrTypeMismatch},
		{"no member", func(m map[string]any) { m["id"] = true }, ErrNoVariantMatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.mutate(m)
			_, err := FromInterface(m, testBoard)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FromInterface() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInterface_RoundTrip(t *testing.T) {
	x, err := ToInterface(testBoardValue(), testBoard)
	if err != nil {
		t.Fatalf("ToInterface() error: %v", err)
	}
	v, err := FromInterface(x, testBoard)
	if err != nil {
		t.Fatalf("FromInterface() error: %v", err)
	}
	if diff := cmp.Diff(testBoardValue(), v); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}
