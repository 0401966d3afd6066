package sexpr

import "fmt"

// Value is the generic structured value moved between Go code and node trees.
// The set of implementations is closed: Bool, Int, Uint, Float, String, Bytes,
// Seq, Tuple, Record, Variant and Option.
type Value interface {
	isValue()
}

type (
	// Bool is a boolean primitive.
	Bool bool

	// Int is a signed integer primitive of any width.
	Int int64

	// Uint is an unsigned integer primitive of any width.
	Uint uint64

	// Float is a floating point primitive of either width.
	Float float64

	// String is a text primitive.
	String string

	// Bytes is a byte sequence primitive.
	Bytes []byte

	// Seq is a variable-length sequence of values.
	Seq []Value

	// Tuple holds the positional elements of a tuple shape.
	Tuple []Value

	// Record holds field values keyed by field name.
	// Rest fields use the empty key.
	Record map[string]Value
)

// Variant is an enum variant or an untagged group member.
// Value is nil for unit variants and a Record for struct variants.
type Variant struct {
	Name  string
	Value Value
}

// Option is the value of an optional field.
type Option struct {
	Valid bool
	Value Value
}

// Some returns a present Option.
func Some(v Value) Option {
	return Option{Valid: true, Value: v}
}

// None returns an absent Option.
func None() Option {
	return Option{}
}

func (Bool) isValue()    {}
func (Int) isValue()     {}
func (Uint) isValue()    {}
func (Float) isValue()   {}
func (String) isValue()  {}
func (Bytes) isValue()   {}
func (Seq) isValue()     {}
func (Tuple) isValue()   {}
func (Record) isValue()  {}
func (Variant) isValue() {}
func (Option) isValue()  {}

// typeName names the dynamic type of v for error messages.
func typeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Uint:
		return "uint"
	case Float:
		return "float"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case Seq:
		return "seq"
	case Tuple:
		return "tuple"
	case Record:
		return "record"
	case Variant:
		return "variant"
	case Option:
		return "option"
	}
	return fmt.Sprintf("%T", v)
}
