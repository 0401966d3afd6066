// Package testing provides shapes, values and documents shared by the sexpr
// test suites. The shapes model a small slice of the KiCad footprint format.
package testing

import (
	"github.com/zoobzio/sexpr"
)

// TB is the subset of testing.TB used by the helpers.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Shapes of the footprint fixtures.
var (
	// Position is (at x y [rot]).
	Position = sexpr.MustRecord("at",
		sexpr.Plain("x", sexpr.Floating(32)),
		sexpr.Plain("y", sexpr.Floating(32)),
		sexpr.OptionalPlain("rot", sexpr.Integer(16)),
	)

	// Size is (size width height).
	Size = sexpr.MustRecord("size",
		sexpr.Plain("width", sexpr.Floating(32)),
		sexpr.Plain("height", sexpr.Floating(32)),
	)

	// Drill is (drill [oval] size [size]).
	Drill = sexpr.MustRecord("drill",
		sexpr.Flag("oval"),
		sexpr.Plain("drill1", sexpr.Floating(32)),
		sexpr.OptionalPlain("drill2", sexpr.Floating(32)),
	)

	// PadType is thru-hole or smd.
	PadType = sexpr.MustEnum("pad_type",
		sexpr.UnitVariant("thru-hole"),
		sexpr.UnitVariant("smd"),
	)

	// PadShape is circle or rect.
	PadShape = sexpr.MustEnum("pad_shape",
		sexpr.UnitVariant("circle"),
		sexpr.UnitVariant("rect"),
	)

	// Pad is one footprint pad.
	Pad = sexpr.MustRecord("pad",
		sexpr.Plain("index", sexpr.Literal),
		sexpr.Plain("ty", PadType),
		sexpr.Plain("shape", PadShape),
		sexpr.Plain("at", Position),
		sexpr.Plain("size", Size),
		sexpr.Optional("drill", Drill),
		sexpr.Keyed("layers", sexpr.SeqOf(sexpr.Text())),
	)

	// Footprint is a library link followed by any number of pads.
	Footprint = sexpr.MustRecord("footprint",
		sexpr.Plain("library_link", sexpr.Text()),
		sexpr.Rest(Pad).Labeled("pads"),
	)

	// Locked is the unit struct (locked).
	Locked = sexpr.NewTuple("locked")

	// Attr is the newtype (attr value).
	Attr = sexpr.NewTuple("attr", sexpr.Text())

	// Descr is the newtype (descr text).
	Descr = sexpr.NewTuple("descr", sexpr.Text())

	// Point is (Point x y).
	Point = sexpr.NewTuple("Point", sexpr.Integer(32), sexpr.Integer(32))

	// Polygon is (Polygon points...).
	Polygon = sexpr.MustRecord("Polygon",
		sexpr.Rest(Point).Labeled("points"),
	)
)

// Sample documents in compact form.
const (
	PadWithoutDrill   = `(pad 1 smd rect (at 0 0) (size 1.27 1.27) (layers "F.Cu"))`
	PadWithDrill      = `(pad 1 thru-hole rect (at 0 0) (size 1.27 1.27) (drill 0.635) (layers "F.Cu"))`
	PadWithOvalDrill  = `(pad 1 thru-hole rect (at 0 0) (size 1.27 1.27) (drill oval 0.635 0.847) (layers "F.Cu"))`
	FootprintNoPads   = `(footprint "Capacitor_SMD:C_0402")`
	FootprintOnePad   = `(footprint "Capacitor_SMD:C_0402" (pad 1 smd rect (at 0 0) (size 1.27 1.27) (layers "F.Cu")))`
	FootprintTwoPads  = `(footprint "Capacitor_SMD:C_0402" (pad 1 smd rect (at 0 0) (size 1.27 1.27) (layers "F.Cu")) (pad 2 smd rect (at 2.54 0) (size 1.27 1.27) (layers "F.Cu")))`
	PrettyTwoPads     = "(footprint \"Capacitor_SMD:C_0402\"\n  (pad 1 smd rect\n    (at 0 0)\n    (size 1.27 1.27)\n    (layers \"F.Cu\"))\n  (pad 2 smd rect\n    (at 2.54 0)\n    (size 1.27 1.27)\n    (layers \"F.Cu\")))"
	PrettyOvalDrill   = "(pad 1 thru-hole rect\n  (at 0 0)\n  (size 1.27 1.27)\n  (drill oval 0.635 0.847)\n  (layers \"F.Cu\"))"
	LibraryLink       = "Capacitor_SMD:C_0402"
	DefaultLayer      = "F.Cu"
	DescrEscaped      = `(descr "Hello \"World\", this \"\\\" is an amazing backspace! \\")`
	DescrText         = `Hello "World", this "\" is an amazing backspace! \`
)

// F32 returns f as a Float holding a float32 value, which is what a 32-bit
// float shape decodes to.
func F32(f float32) sexpr.Float {
	return sexpr.Float(f)
}

// AtValue builds a Position value.
func AtValue(x, y float32, rot sexpr.Option) sexpr.Record {
	return sexpr.Record{"x": F32(x), "y": F32(y), "rot": rot}
}

// DrillValue builds a Drill value. A zero drill2 is left absent.
func DrillValue(oval bool, drill1, drill2 float32) sexpr.Record {
	second := sexpr.None()
	if drill2 != 0 {
		second = sexpr.Some(F32(drill2))
	}
	return sexpr.Record{"oval": sexpr.Bool(oval), "drill1": F32(drill1), "drill2": second}
}

// PadValue builds a Pad value on the default layer with a 1.27 square size.
func PadValue(index uint64, ty string, x, y float32, drill sexpr.Option) sexpr.Record {
	return sexpr.Record{
		"index":  sexpr.Variant{Name: "number", Value: sexpr.Uint(index)},
		"ty":     sexpr.Variant{Name: ty},
		"shape":  sexpr.Variant{Name: "rect"},
		"at":     AtValue(x, y, sexpr.None()),
		"size":   sexpr.Record{"width": F32(1.27), "height": F32(1.27)},
		"drill":  drill,
		"layers": sexpr.Seq{sexpr.String(DefaultLayer)},
	}
}

// FootprintValue builds a Footprint value holding pads.
func FootprintValue(pads ...sexpr.Value) sexpr.Record {
	seq := sexpr.Seq{}
	seq = append(seq, pads...)
	return sexpr.Record{
		"library_link": sexpr.String(LibraryLink),
		"":             seq,
	}
}

// TwoPads returns the value of FootprintTwoPads.
func TwoPads() sexpr.Record {
	return FootprintValue(
		PadValue(1, "smd", 0, 0, sexpr.None()),
		PadValue(2, "smd", 2.54, 0, sexpr.None()),
	)
}

// MustParse parses src or fails the test.
func MustParse(tb TB, src string) *sexpr.Node {
	tb.Helper()
	n, err := sexpr.Parse(src)
	if err != nil {
		tb.Fatalf("Parse(%q) error: %v", src, err)
	}
	return n
}

// MustDecode parses and decodes src or fails the test.
func MustDecode(tb TB, src string, s sexpr.Shape) sexpr.Value {
	tb.Helper()
	v, err := sexpr.Decode(MustParse(tb, src), s)
	if err != nil {
		tb.Fatalf("Decode(%q) error: %v", src, err)
	}
	return v
}

// MustEncode encodes v with KiCad-style quoting and returns the compact text.
func MustEncode(tb TB, v sexpr.Value, s sexpr.Shape) string {
	tb.Helper()
	e := sexpr.Encoder{Quote: sexpr.QuoteStrings}
	n, err := e.Encode(v, s)
	if err != nil {
		tb.Fatalf("Encode(%v) error: %v", v, err)
	}
	return sexpr.Write(n)
}
