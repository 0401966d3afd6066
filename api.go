// Package sexpr reads and writes S-expression documents in the style of
// KiCad's file formats, directed by shape descriptors.
//
// A document is lexed and parsed into a tree of Nodes. A Shape then says how
// that tree maps onto a Value: which children are positional, which are found
// by their (name ...) head, which may be absent, and which repeat.
//
// # Shapes
//
// Primitive shapes read atoms as booleans, integers, floats, text or hex
// bytes. Compound shapes are built from fields:
//
//	var Position = sexpr.MustRecord("at",
//	    sexpr.Plain("x", sexpr.Floating(32)),
//	    sexpr.Plain("y", sexpr.Floating(32)),
//	    sexpr.OptionalPlain("rot", sexpr.Integer(16)),
//	)
//
//	var Pad = sexpr.MustRecord("pad",
//	    sexpr.Plain("index", sexpr.Literal),
//	    sexpr.Plain("at", Position),
//	    sexpr.Optional("drill", Drill),
//	    sexpr.Keyed("layers", sexpr.SeqOf(sexpr.Text())),
//	)
//
// Field kinds:
//
//   - Plain: the next positional child
//   - Keyed: a (name ...) child anywhere among the remaining children
//   - Optional: a keyed child that may be absent
//   - OptionalPlain: a positional child that may be absent
//   - Flag: a bare atom equal to the field name
//   - Rest: every remaining child
//
// Enums select a variant by atom or list head. Untagged groups try their
// members in order and keep the first that decodes. Lazy shapes allow a
// shape to refer to itself.
//
// # Basic Usage
//
//	n, _ := sexpr.Parse(`(at 1.27 -2.54 90)`)
//	v, _ := sexpr.Decode(n, Position)
//
//	enc := sexpr.Encoder{Quote: sexpr.QuoteStrings}
//	out, _ := enc.Encode(v, Position)
//	fmt.Println(sexpr.WritePretty(out))
//
// # Processors
//
// A Processor bundles a shape with parsing, encoding and hashing options,
// emits capitan events around each operation, and moves documents to and
// from interchange formats through a Codec:
//
//	proc, _ := sexpr.NewProcessor(Footprint, sexpr.WithPretty())
//	data, _ := proc.Export(ctx, doc, json.New())
//	doc, _ = proc.Import(ctx, data, json.New())
//
// Subpackages provide JSON, YAML and MessagePack codecs, struct binding
// (package bind) and shape definitions loaded from YAML (package schema).
package sexpr

// Codec provides content-type aware marshaling.
// Processor uses it to move documents to and from interchange formats.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
