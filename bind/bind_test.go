package bind_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/sexpr"
	"github.com/zoobzio/sexpr/bind"
	sexprtest "github.com/zoobzio/sexpr/testing"
)

type Position struct {
	X   float32
	Y   float32
	Rot *int16 `sexpr:",maybe"`
}

func (Position) SexprName() string { return "at" }

type Size struct {
	Width  float32
	Height float32
}

type Drill struct {
	Oval   bool `sexpr:",flag"`
	Drill1 float32
	Drill2 *float32 `sexpr:",maybe"`
}

type PadType string

const (
	PadThruHole PadType = "thru-hole"
	PadSMD      PadType = "smd"
)

func (PadType) SexprVariants() []string { return []string{"thru-hole", "smd"} }

type PadShape string

func (PadShape) SexprVariants() []string { return []string{"circle", "rect"} }

type Pad struct {
	Index  bind.Literal
	Ty     PadType
	Shape  PadShape
	At     Position
	Size   Size
	Drill  *Drill   `sexpr:",optional"`
	Layers []string `sexpr:",keyed"`
}

type Footprint struct {
	LibraryLink string
	Pads        []Pad `sexpr:",rest"`
	internal    int
}

type Tree struct {
	Label    string
	Children []Tree `sexpr:",rest"`
}

func f32(f float32) *float32 { return &f }
func i16(i int16) *int16     { return &i }

func pad(index uint16, ty PadType, x float32, drill *Drill) Pad {
	return Pad{
		Index:  bind.NumberLiteral(index),
		Ty:     ty,
		Shape:  "rect",
		At:     Position{X: x},
		Size:   Size{Width: 1.27, Height: 1.27},
		Drill:  drill,
		Layers: []string{"F.Cu"},
	}
}

var padCases = []struct {
	name string
	src  string
	want Pad
}{
	{"without drill", sexprtest.PadWithoutDrill, pad(1, PadSMD, 0, nil)},
	{"with drill", sexprtest.PadWithDrill, pad(1, PadThruHole, 0, &Drill{Drill1: 0.635})},
	{"with oval drill", sexprtest.PadWithOvalDrill, pad(1, PadThruHole, 0, &Drill{Oval: true, Drill1: 0.635, Drill2: f32(0.847)})},
}

func TestUnmarshal_Pad(t *testing.T) {
	for _, tt := range padCases {
		t.Run(tt.name, func(t *testing.T) {
			var got Pad
			if err := bind.Unmarshal([]byte(tt.src), &got); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshal_Pad(t *testing.T) {
	for _, tt := range padCases {
		t.Run(tt.name, func(t *testing.T) {
			out, err := bind.Marshal(tt.want)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			if string(out) != tt.src {
				t.Errorf("Marshal() = %q, want %q", out, tt.src)
			}
		})
	}
}

func TestRoundTrip_Footprint(t *testing.T) {
	want := Footprint{
		LibraryLink: sexprtest.LibraryLink,
		Pads: []Pad{
			pad(1, PadSMD, 0, nil),
			pad(2, PadSMD, 2.54, nil),
		},
	}

	var got Footprint
	if err := bind.Unmarshal([]byte(sexprtest.PrettyTwoPads), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Footprint{})); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}

	out, err := bind.Marshal(&got)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(out) != sexprtest.FootprintTwoPads {
		t.Errorf("Marshal() = %q, want %q", out, sexprtest.FootprintTwoPads)
	}
}

func TestFootprint_NoPads(t *testing.T) {
	var got Footprint
	if err := bind.Unmarshal([]byte(sexprtest.FootprintNoPads), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got.LibraryLink != sexprtest.LibraryLink || len(got.Pads) != 0 {
		t.Errorf("Unmarshal() = %+v", got)
	}

	out, err := bind.Marshal(Footprint{LibraryLink: sexprtest.LibraryLink})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(out) != sexprtest.FootprintNoPads {
		t.Errorf("Marshal() = %q, want %q", out, sexprtest.FootprintNoPads)
	}
}

func TestPosition_Rotation(t *testing.T) {
	var got Position
	if err := bind.Unmarshal([]byte("(at 1.23 -4.56 -90)"), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	want := Position{X: 1.23, Y: -4.56, Rot: i16(-90)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}

	out, err := bind.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(out) != "(at 1.23 -4.56 -90)" {
		t.Errorf("Marshal() = %q", out)
	}
}

func TestLiteral_Text(t *testing.T) {
	src := `(pad "A1" smd rect (at 0 0) (size 1.27 1.27) (layers "F.Cu"))`

	var got Pad
	if err := bind.Unmarshal([]byte(src), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got.Index != bind.TextLiteral("A1") {
		t.Errorf("Index = %+v, want text A1", got.Index)
	}
	if got.Index.String() != "A1" || bind.NumberLiteral(7).String() != "7" {
		t.Error("Literal.String() mismatch")
	}

	out, err := bind.Marshal(got)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(out) != src {
		t.Errorf("Marshal() = %q, want %q", out, src)
	}
}

func TestRecursiveType(t *testing.T) {
	src := "(tree root (tree a (tree leaf)) (tree b))"
	want := Tree{
		Label: "root",
		Children: []Tree{
			{Label: "a", Children: []Tree{{Label: "leaf", Children: []Tree{}}}},
			{Label: "b", Children: []Tree{}},
		},
	}

	var got Tree
	if err := bind.Unmarshal([]byte(src), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}

	out, err := bind.Marshal(got)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(out) != src {
		t.Errorf("Marshal() = %q, want %q", out, src)
	}
}

func TestShapeOf(t *testing.T) {
	s, err := bind.ShapeOf[Pad]()
	if err != nil {
		t.Fatalf("ShapeOf() error: %v", err)
	}
	rec, ok := s.(*sexpr.RecordShape)
	if !ok {
		t.Fatalf("ShapeOf() = %T, want *sexpr.RecordShape", s)
	}
	if rec.Name() != "pad" {
		t.Errorf("Name() = %q, want %q", rec.Name(), "pad")
	}

	want := []struct {
		name string
		kind sexpr.FieldKind
	}{
		{"index", sexpr.FieldPlain},
		{"ty", sexpr.FieldPlain},
		{"shape", sexpr.FieldPlain},
		{"at", sexpr.FieldPlain},
		{"size", sexpr.FieldPlain},
		{"drill", sexpr.FieldOptional},
		{"layers", sexpr.FieldKeyed},
	}
	fields := rec.Fields()
	if len(fields) != len(want) {
		t.Fatalf("Fields() len = %d, want %d", len(fields), len(want))
	}
	for i, w := range want {
		if fields[i].Name != w.name || fields[i].Kind != w.kind {
			t.Errorf("field %d = %s %s, want %s %s", i, fields[i].Name, fields[i].Kind, w.name, w.kind)
		}
	}

	again, err := bind.ShapeFor(reflect.TypeOf(&Pad{}))
	if err != nil {
		t.Fatalf("ShapeFor() error: %v", err)
	}
	if again.Name() != "pad" {
		t.Errorf("ShapeFor(*Pad).Name() = %q, want %q", again.Name(), "pad")
	}
}

func TestShapeOf_Enum(t *testing.T) {
	s, err := bind.ShapeOf[PadType]()
	if err != nil {
		t.Fatalf("ShapeOf() error: %v", err)
	}
	e, ok := s.(*sexpr.EnumShape)
	if !ok {
		t.Fatalf("ShapeOf() = %T, want *sexpr.EnumShape", s)
	}
	if e.Name() != "pad_type" || len(e.Variants()) != 2 {
		t.Errorf("enum = %s with %d variants", e.Name(), len(e.Variants()))
	}
}

type badOptional struct {
	Value int `sexpr:",optional"`
}

type badFlag struct {
	Value int `sexpr:",flag"`
}

type badRest struct {
	Value string `sexpr:",rest"`
}

type badKind struct {
	Value string `sexpr:",sometimes"`
}

type badMap struct {
	Values map[string]int
}

type plainBool struct {
	Visible bool
}

type restNotLast struct {
	Items []int `sexpr:",rest"`
	After int
}

type skipped struct {
	Name  string
	Cache []byte `sexpr:"-"`
}

func TestShapeFor_Errors(t *testing.T) {
	tests := []struct {
		name    string
		typ     reflect.Type
		wantErr error
	}{
		{"optional without pointer", reflect.TypeOf(badOptional{}), bind.ErrInvalidTag},
		{"flag without bool", reflect.TypeOf(badFlag{}), bind.ErrInvalidTag},
		{"rest without slice", reflect.TypeOf(badRest{}), bind.ErrInvalidTag},
		{"unknown kind", reflect.TypeOf(badKind{}), bind.ErrInvalidTag},
		{"map field", reflect.TypeOf(badMap{}), bind.ErrUnsupportedType},
		{"channel", reflect.TypeOf(make(chan int)), bind.ErrUnsupportedType},
		{"rest not last", reflect.TypeOf(restNotLast{}), sexpr.ErrFieldAfterRest},
		{"positional bool", reflect.TypeOf(plainBool{}), sexpr.ErrPositionalBoolean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := bind.ShapeFor(tt.typ); !errors.Is(err, tt.wantErr) {
				t.Errorf("ShapeFor() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSkippedField(t *testing.T) {
	out, err := bind.Marshal(skipped{Name: "x", Cache: []byte{1}})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(out) != "(skipped x)" {
		t.Errorf("Marshal() = %q, want %q", out, "(skipped x)")
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	var p Pad
	if err := bind.Unmarshal([]byte(sexprtest.PadWithoutDrill), p); !errors.Is(err, bind.ErrNotPointer) {
		t.Errorf("Unmarshal(non-pointer) error = %v, want %v", err, bind.ErrNotPointer)
	}
	if err := bind.Unmarshal([]byte(`(pad 1 smd oval (at 0 0) (size 1 1) (layers))`), &p); !errors.Is(err, sexpr.ErrUnknownVariant) {
		t.Errorf("Unmarshal(bad shape) error = %v, want %v", err, sexpr.ErrUnknownVariant)
	}
}

func TestMarshal_Errors(t *testing.T) {
	bad := pad(1, "via", 0, nil)
	if _, err := bind.Marshal(bad); !errors.Is(err, sexpr.ErrUnknownVariant) {
		t.Errorf("Marshal() error = %v, want %v", err, sexpr.ErrUnknownVariant)
	}
	if _, err := bind.Marshal(nil); !errors.Is(err, bind.ErrUnsupportedType) {
		t.Errorf("Marshal(nil) error = %v, want %v", err, bind.ErrUnsupportedType)
	}
}

func TestValueConversion(t *testing.T) {
	want := pad(3, PadThruHole, 1.5, &Drill{Drill1: 0.8})

	v, err := bind.ToValue(want)
	if err != nil {
		t.Fatalf("ToValue() error: %v", err)
	}
	rec := v.(sexpr.Record)
	if rec["ty"] != (sexpr.Variant{Name: "thru-hole"}) {
		t.Errorf("ty = %v, want variant thru-hole", rec["ty"])
	}
	if opt := rec["drill"].(sexpr.Option); !opt.Valid {
		t.Error("drill should be present")
	}

	var got Pad
	if err := bind.FromValue(v, &got); err != nil {
		t.Fatalf("FromValue() error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromValue() mismatch (-want +got):\n%s", diff)
	}

	if err := bind.FromValue(sexpr.String("x"), &got); !errors.Is(err, bind.ErrValueMismatch) {
		t.Errorf("FromValue() error = %v, want %v", err, bind.ErrValueMismatch)
	}
}

func TestCodec(t *testing.T) {
	c := bind.New(sexpr.WithPretty(), sexpr.WithQuotePolicy(sexpr.QuoteStrings))
	if c.ContentType() != sexpr.ContentType {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), sexpr.ContentType)
	}

	out, err := c.Marshal(padCases[2].want)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(out) != sexprtest.PrettyOvalDrill {
		t.Errorf("Marshal() = %q, want %q", out, sexprtest.PrettyOvalDrill)
	}

	var got Pad
	if err := c.Unmarshal(out, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if diff := cmp.Diff(padCases[2].want, got); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}
}
