// Package bind maps Go types onto sexpr shapes so that structs can be read
// from and written to S-expression documents directly.
//
// Struct fields are described with the sexpr tag:
//
//	type Pad struct {
//		Index  bind.Literal
//		Type   PadType
//		At     Position
//		Drill  *Drill   `sexpr:",optional"`
//		Layers []string `sexpr:",keyed"`
//	}
//
// The tag value is "name,kind". The name defaults to the snake_case form of
// the Go field name, and "-" skips the field. Kinds are plain (the default),
// keyed, optional, maybe, flag and rest:
//
//   - plain: the next positional child
//   - keyed: a (name ...) child found anywhere in the list
//   - optional: a keyed child that may be absent; the field must be a pointer
//   - maybe: a positional child that may be absent; the field must be a pointer
//   - flag: a bare atom equal to the name; the field must be a bool
//   - rest: every remaining child; the field must be a slice
//
// Positional fields cannot hold a bool, which must be a flag or keyed.
//
// A struct is written as a record headed by the snake_case type name unless
// it implements Named. String types implementing Enum become enums of unit
// variants, and types implementing Marshaler supply their own shape.
package bind

import (
	"errors"

	"github.com/zoobzio/sexpr"
)

// Binding errors.
var (
	ErrUnsupportedType = errors.New("unsupported type")
	ErrInvalidTag      = errors.New("invalid sexpr tag")
	ErrValueMismatch   = errors.New("value does not match type")
	ErrNotPointer      = errors.New("target must be a non-nil pointer")
)

// Named is implemented by structs and enums whose head name differs from
// their snake_case type name.
type Named interface {
	SexprName() string
}

// Enum is implemented by string types holding one of a fixed set of names.
type Enum interface {
	SexprVariants() []string
}

// Marshaler is implemented by types that convert themselves to values of
// their own shape.
type Marshaler interface {
	SexprShape() sexpr.Shape
	MarshalSexpr() (sexpr.Value, error)
}

// Unmarshaler is implemented by types that read themselves from a value of
// the shape reported by their Marshaler.
type Unmarshaler interface {
	UnmarshalSexpr(v sexpr.Value) error
}
