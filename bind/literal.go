package bind

import (
	"fmt"

	"github.com/zoobzio/sexpr"
)

// Literal holds a value of the sexpr.Literal shape: a small unsigned number
// or a piece of text.
type Literal struct {
	Number uint16
	Text   string
	IsText bool
}

// NumberLiteral returns a numeric Literal.
func NumberLiteral(n uint16) Literal {
	return Literal{Number: n}
}

// TextLiteral returns a textual Literal.
func TextLiteral(s string) Literal {
	return Literal{Text: s, IsText: true}
}

// String returns the literal as it appears in a document.
func (l Literal) String() string {
	if l.IsText {
		return l.Text
	}
	return fmt.Sprint(l.Number)
}

func (Literal) SexprShape() sexpr.Shape {
	return sexpr.Literal
}

func (l Literal) MarshalSexpr() (sexpr.Value, error) {
	if l.IsText {
		return sexpr.Variant{Name: "text", Value: sexpr.String(l.Text)}, nil
	}
	return sexpr.Variant{Name: "number", Value: sexpr.Uint(l.Number)}, nil
}

func (l *Literal) UnmarshalSexpr(v sexpr.Value) error {
	vr, ok := v.(sexpr.Variant)
	if !ok {
		return fmt.Errorf("%w: literal from %T", ErrValueMismatch, v)
	}
	switch x := vr.Value.(type) {
	case sexpr.Uint:
		*l = NumberLiteral(uint16(x))
	case sexpr.String:
		*l = TextLiteral(string(x))
	default:
		return fmt.Errorf("%w: literal from %T", ErrValueMismatch, vr.Value)
	}
	return nil
}
