package sexpr

import (
	"strconv"
	"sync"
)

// Shape describes the declared structure of a value: how it is laid out as a
// node and how a node is read back. Shapes are immutable once constructed and
// may be shared freely between goroutines.
//
// The set of implementations is closed: *PrimitiveShape, *SeqShape,
// *TupleShape, *RecordShape, *EnumShape, *UntaggedShape and *LazyShape.
type Shape interface {
	// Name returns the head name for structured shapes and a type name
	// (int32, string, ...) for primitives.
	Name() string

	isShape()
}

type primKind int

const (
	primBool primKind = iota
	primInt
	primUint
	primFloat
	primString
	primBytes
)

// PrimitiveShape is a scalar encoded as a single atom.
type PrimitiveShape struct {
	kind      primKind
	bits      int
	trueText  string
	falseText string
}

// Boolean returns a boolean shape using the tokens true and false.
func Boolean() *PrimitiveShape {
	return BooleanTokens("true", "false")
}

// BooleanTokens returns a boolean shape using custom tokens, e.g. yes and no.
func BooleanTokens(trueText, falseText string) *PrimitiveShape {
	return &PrimitiveShape{kind: primBool, trueText: trueText, falseText: falseText}
}

// Integer returns a signed integer shape of the given bit size (8, 16, 32 or 64).
func Integer(bits int) *PrimitiveShape {
	return &PrimitiveShape{kind: primInt, bits: normalizeBits(bits, 64)}
}

// Unsigned returns an unsigned integer shape of the given bit size (8, 16, 32 or 64).
func Unsigned(bits int) *PrimitiveShape {
	return &PrimitiveShape{kind: primUint, bits: normalizeBits(bits, 64)}
}

// Floating returns a floating point shape of the given bit size (32 or 64).
func Floating(bits int) *PrimitiveShape {
	if bits != 32 {
		bits = 64
	}
	return &PrimitiveShape{kind: primFloat, bits: bits}
}

// Text returns a string shape.
func Text() *PrimitiveShape {
	return &PrimitiveShape{kind: primString}
}

// Binary returns a byte sequence shape, written as lowercase hex.
func Binary() *PrimitiveShape {
	return &PrimitiveShape{kind: primBytes}
}

func normalizeBits(bits, def int) int {
	switch bits {
	case 8, 16, 32, 64:
		return bits
	}
	return def
}

func (s *PrimitiveShape) Name() string {
	switch s.kind {
	case primBool:
		return "bool"
	case primInt:
		return "int" + strconv.Itoa(s.bits)
	case primUint:
		return "uint" + strconv.Itoa(s.bits)
	case primFloat:
		return "float" + strconv.Itoa(s.bits)
	case primString:
		return "string"
	}
	return "bytes"
}

// SeqShape is a variable-length sequence of one element shape.
type SeqShape struct {
	elem Shape
}

// SeqOf returns a sequence shape. Sequences appear as keyed or rest fields,
// or as the payload of a newtype variant.
func SeqOf(elem Shape) *SeqShape {
	return &SeqShape{elem: elem}
}

func (s *SeqShape) Name() string { return "[]" + shapeName(s.elem) }

// Elem returns the element shape.
func (s *SeqShape) Elem() Shape { return s.elem }

// TupleShape is a named, fixed-arity list of positional elements.
// An empty name makes an anonymous tuple, which is only meaningful inside a
// keyed wrapper.
type TupleShape struct {
	name  string
	elems []Shape
}

// NewTuple returns a tuple shape. A tuple of one element is a newtype and a
// tuple of none is a unit struct such as (locked).
func NewTuple(name string, elems ...Shape) *TupleShape {
	return &TupleShape{name: name, elems: append([]Shape(nil), elems...)}
}

func (s *TupleShape) Name() string { return s.name }

// Arity returns the number of elements.
func (s *TupleShape) Arity() int { return len(s.elems) }

// Elems returns the element shapes in declared order.
func (s *TupleShape) Elems() []Shape { return append([]Shape(nil), s.elems...) }

// FieldKind selects how a record field is laid out among its siblings.
type FieldKind int

const (
	// FieldPlain is consumed positionally.
	FieldPlain FieldKind = iota

	// FieldKeyed is wrapped in a sub-list headed by the field name and may
	// appear anywhere after the preceding positional fields.
	FieldKeyed

	// FieldRest captures every remaining child as one sequence element each.
	FieldRest

	// FieldOptional is a keyed field whose absence decodes to None.
	FieldOptional

	// FieldFlag is a boolean written as the bare field name when true and
	// omitted when false.
	FieldFlag

	// FieldOptionalPlain is a positional field that decodes to None when the
	// next child is missing or does not fit its shape.
	FieldOptionalPlain
)

func (k FieldKind) String() string {
	switch k {
	case FieldPlain:
		return "plain"
	case FieldKeyed:
		return "keyed"
	case FieldRest:
		return "rest"
	case FieldOptional:
		return "optional"
	case FieldFlag:
		return "flag"
	case FieldOptionalPlain:
		return "optional-plain"
	}
	return "unknown"
}

// Field describes one record field.
type Field struct {
	Name    string
	Kind    FieldKind
	Shape   Shape
	Default Value // used by keyed fields that are absent from the input
	label   string
}

// Plain returns a positional field.
func Plain(name string, s Shape) Field {
	return Field{Name: name, Kind: FieldPlain, Shape: s}
}

// Keyed returns a field wrapped as (name ...).
func Keyed(name string, s Shape) Field {
	return Field{Name: name, Kind: FieldKeyed, Shape: s}
}

// Rest returns the unnamed trailing field. elem is the shape of each element.
func Rest(elem Shape) Field {
	return Field{Kind: FieldRest, Shape: elem}
}

// Optional returns a keyed field represented by presence or absence.
func Optional(name string, s Shape) Field {
	return Field{Name: name, Kind: FieldOptional, Shape: s}
}

// Flag returns a boolean field written as a bare name.
func Flag(name string) Field {
	return Field{Name: name, Kind: FieldFlag, Shape: Boolean()}
}

// OptionalPlain returns a positional field that may be absent.
func OptionalPlain(name string, s Shape) Field {
	return Field{Name: name, Kind: FieldOptionalPlain, Shape: s}
}

// WithDefault returns a copy of a keyed field that decodes to v when absent.
func (f Field) WithDefault(v Value) Field {
	f.Default = v
	return f
}

// Labeled returns a copy of the field using label in error paths and
// interchange output. It is mostly useful for rest fields, which have no name.
func (f Field) Labeled(label string) Field {
	f.label = label
	return f
}

// Label returns the name used for the field in paths and interchange output.
func (f Field) Label() string {
	switch {
	case f.label != "":
		return f.label
	case f.Name == "":
		return "rest"
	}
	return f.Name
}

// RecordShape is a named list of fields.
type RecordShape struct {
	name         string
	fields       []Field
	allowUnknown bool
}

// NewRecord validates fields and returns a record shape.
func NewRecord(name string, fields ...Field) (*RecordShape, error) {
	if name == "" {
		return nil, newShapeError(ErrEmptyName, name, "")
	}
	if err := validateFields(name, fields); err != nil {
		return nil, err
	}
	return &RecordShape{name: name, fields: append([]Field(nil), fields...)}, nil
}

// MustRecord is like NewRecord but panics on an invalid shape.
// It is intended for package-level shape tables.
func MustRecord(name string, fields ...Field) *RecordShape {
	s, err := NewRecord(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// WithUnknown returns a copy of the shape that ignores children left over
// after all fields resolve.
func (s *RecordShape) WithUnknown() *RecordShape {
	c := *s
	c.allowUnknown = true
	return &c
}

func (s *RecordShape) Name() string { return s.name }

// Fields returns the fields in declared order.
func (s *RecordShape) Fields() []Field { return append([]Field(nil), s.fields...) }

// AllowsUnknown reports whether leftover children are ignored.
func (s *RecordShape) AllowsUnknown() bool { return s.allowUnknown }

func validateFields(shape string, fields []Field) error {
	seen := make(map[string]bool, len(fields))
	rest := false
	for _, f := range fields {
		if rest {
			if f.Kind == FieldRest {
				return newShapeError(ErrMultipleRestFields, shape, f.Label())
			}
			return newShapeError(ErrFieldAfterRest, shape, f.Name)
		}
		if err := checkShape(f.Shape); err != nil {
			return newShapeError(err, shape, f.Label())
		}
		if f.Kind == FieldRest {
			rest = true
			continue
		}
		if f.Name == "" {
			return newShapeError(ErrEmptyName, shape, f.Kind.String())
		}
		if seen[f.Name] {
			return newShapeError(ErrDuplicateFieldName, shape, f.Name)
		}
		seen[f.Name] = true

		if f.Kind == FieldPlain || f.Kind == FieldOptionalPlain {
			if err := checkPositional(f.Shape); err != nil {
				return newShapeError(err, shape, f.Name)
			}
		}
	}
	return nil
}

// checkPositional rejects shapes that cannot be told apart from their
// neighbours without a name. Lazy shapes are not resolved here, as they may
// refer to the record under construction.
func checkPositional(s Shape) error {
	switch sh := s.(type) {
	case *SeqShape:
		return ErrPositionalSequence
	case *PrimitiveShape:
		if sh.kind == primBool {
			return ErrPositionalBoolean
		}
	case *TupleShape:
		if sh.name == "" {
			return ErrPositionalTuple
		}
	}
	return nil
}

// checkShape reports ErrNilShape for a missing shape, including a missing
// element of a sequence or tuple. Records, enums and untagged groups check
// their own parts when built.
func checkShape(s Shape) error {
	if isNilShape(s) {
		return ErrNilShape
	}
	switch sh := s.(type) {
	case *SeqShape:
		return checkShape(sh.elem)
	case *TupleShape:
		for _, e := range sh.elems {
			if err := checkShape(e); err != nil {
				return err
			}
		}
	}
	return nil
}

func shapeName(s Shape) string {
	if isNilShape(s) {
		return "<nil>"
	}
	return s.Name()
}

// isNilShape reports whether s is nil or a typed nil pointer.
func isNilShape(s Shape) bool {
	switch sh := s.(type) {
	case nil:
		return true
	case *PrimitiveShape:
		return sh == nil
	case *SeqShape:
		return sh == nil
	case *TupleShape:
		return sh == nil
	case *RecordShape:
		return sh == nil
	case *EnumShape:
		return sh == nil
	case *UntaggedShape:
		return sh == nil
	case *LazyShape:
		return sh == nil
	}
	return false
}

// VariantKind selects the payload layout of an enum variant.
type VariantKind int

const (
	// VariantUnit is a bare atom.
	VariantUnit VariantKind = iota

	// VariantNewtype is (name payload).
	VariantNewtype

	// VariantStruct is (name fields...).
	VariantStruct
)

// VariantShape describes one enum variant.
type VariantShape struct {
	Name    string
	Kind    VariantKind
	Payload Shape // newtype payload, or the *RecordShape of a struct variant
	fields  []Field
}

// UnitVariant returns a variant written as a bare atom.
func UnitVariant(name string) VariantShape {
	return VariantShape{Name: name, Kind: VariantUnit}
}

// NewtypeVariant returns a variant wrapping one value.
func NewtypeVariant(name string, payload Shape) VariantShape {
	return VariantShape{Name: name, Kind: VariantNewtype, Payload: payload}
}

// StructVariant returns a variant laid out like a record named after it.
func StructVariant(name string, fields ...Field) VariantShape {
	return VariantShape{Name: name, Kind: VariantStruct, fields: fields}
}

// EnumShape selects among variants by head name.
type EnumShape struct {
	name     string
	variants []VariantShape
}

// NewEnum validates variants and returns an enum shape.
func NewEnum(name string, variants ...VariantShape) (*EnumShape, error) {
	seen := make(map[string]bool, len(variants))
	out := make([]VariantShape, 0, len(variants))
	for _, v := range variants {
		if v.Name == "" {
			return nil, newShapeError(ErrEmptyName, name, "")
		}
		if seen[v.Name] {
			return nil, newShapeError(ErrDuplicateVariant, name, v.Name)
		}
		seen[v.Name] = true

		if v.Kind == VariantNewtype {
			if err := checkShape(v.Payload); err != nil {
				return nil, newShapeError(err, name, v.Name)
			}
		}
		if v.Kind == VariantStruct {
			rs, err := NewRecord(v.Name, v.fields...)
			if err != nil {
				return nil, err
			}
			v.Payload = rs
		}
		out = append(out, v)
	}
	return &EnumShape{name: name, variants: out}, nil
}

// MustEnum is like NewEnum but panics on an invalid shape.
func MustEnum(name string, variants ...VariantShape) *EnumShape {
	s, err := NewEnum(name, variants...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *EnumShape) Name() string { return s.name }

// Variants returns the variants in declared order.
func (s *EnumShape) Variants() []VariantShape { return append([]VariantShape(nil), s.variants...) }

func (s *EnumShape) variant(name string) (VariantShape, bool) {
	for _, v := range s.variants {
		if v.Name == name {
			return v, true
		}
	}
	return VariantShape{}, false
}

// LazyShape defers construction of a shape until first use, which allows a
// shape to refer to itself.
type LazyShape struct {
	once  sync.Once
	fn    func() Shape
	shape Shape
}

// Lazy returns a shape resolved by calling fn once, on first use.
func Lazy(fn func() Shape) *LazyShape {
	return &LazyShape{fn: fn}
}

func (s *LazyShape) Name() string { return shapeName(s.Resolve()) }

// Resolve returns the underlying shape.
func (s *LazyShape) Resolve() Shape {
	s.once.Do(func() {
		s.shape = s.fn()
	})
	return s.shape
}

func (*PrimitiveShape) isShape() {}
func (*SeqShape) isShape()       {}
func (*TupleShape) isShape()     {}
func (*RecordShape) isShape()    {}
func (*EnumShape) isShape()      {}
func (*UntaggedShape) isShape()  {}
func (*LazyShape) isShape()      {}

// resolve unwraps lazy shapes.
func resolve(s Shape) Shape {
	for {
		l, ok := s.(*LazyShape)
		if !ok || l == nil {
			return s
		}
		s = l.Resolve()
	}
}

// selfKeyed reports whether a value of shape s already carries name as its
// head, so a keyed wrapper would only repeat it.
func selfKeyed(name string, s Shape) bool {
	switch rs := s.(type) {
	case *RecordShape:
		return rs.name == name
	case *TupleShape:
		return rs.name != "" && rs.name == name
	}
	return false
}

// flattens reports whether values of shape s spread their elements directly
// into an enclosing wrapper.
func flattens(s Shape) bool {
	switch rs := s.(type) {
	case *SeqShape:
		return true
	case *TupleShape:
		return rs.name == ""
	}
	return false
}
