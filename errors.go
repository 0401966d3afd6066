package sexpr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnterminatedString indicates input ended inside a quoted string.
	ErrUnterminatedString = errors.New("unterminated string")

	// ErrInvalidEscape indicates an unknown backslash escape in a quoted string.
	ErrInvalidEscape = errors.New("invalid escape")

	// ErrUnbalancedParens indicates input ended before a list was closed.
	ErrUnbalancedParens = errors.New("unbalanced parentheses")

	// ErrUnexpectedCloseParen indicates a ")" with no matching "(".
	ErrUnexpectedCloseParen = errors.New("unexpected close paren")

	// ErrDepthExceeded indicates list nesting beyond the configured maximum.
	ErrDepthExceeded = errors.New("nesting depth exceeded")

	// ErrTopLevelCount indicates a document with zero or several top-level nodes.
	ErrTopLevelCount = errors.New("expected exactly one top-level node")

	// ErrDuplicateFieldName indicates two fields in one record share a name.
	ErrDuplicateFieldName = errors.New("duplicate field name")

	// ErrMultipleRestFields indicates more than one rest field in a record.
	ErrMultipleRestFields = errors.New("multiple rest fields")

	// ErrFieldAfterRest indicates a field declared after the rest field.
	ErrFieldAfterRest = errors.New("field declared after rest field")

	// ErrPositionalSequence indicates a sequence shape used as a positional field.
	ErrPositionalSequence = errors.New("sequence field must be keyed or rest")

	// ErrPositionalBoolean indicates a boolean shape used as a positional field.
	ErrPositionalBoolean = errors.New("boolean field must be keyed or a flag")

	// ErrPositionalTuple indicates an anonymous tuple used as a positional field.
	ErrPositionalTuple = errors.New("anonymous tuple field must be keyed")

	// ErrDuplicateVariant indicates two variants or members share a name.
	ErrDuplicateVariant = errors.New("duplicate variant name")

	// ErrEmptyName indicates a field or variant that requires a name has none.
	ErrEmptyName = errors.New("empty name")

	// ErrNilShape indicates a missing shape where one is required.
	ErrNilShape = errors.New("nil shape")

	// ErrUnknownHashAlgo indicates a fingerprint algorithm with no hasher.
	ErrUnknownHashAlgo = errors.New("unknown hash algorithm")

	// ErrUnexpectedHeadName indicates a list headed by the wrong name.
	ErrUnexpectedHeadName = errors.New("unexpected head name")

	// ErrArityMismatch indicates a tuple with the wrong number of elements.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrTypeMismatch indicates a node that cannot be read as the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMissingField indicates a required field absent from the input.
	ErrMissingField = errors.New("missing field")

	// ErrUnexpectedExtraField indicates children left over after all fields resolved.
	ErrUnexpectedExtraField = errors.New("unexpected extra field")

	// ErrUnknownVariant indicates a name that matches no enum variant.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrNoVariantMatched indicates every member of an untagged group failed.
	ErrNoVariantMatched = errors.New("no variant matched")

	// ErrInvalidValue indicates a value that does not fit its declared shape.
	ErrInvalidValue = errors.New("invalid value")
)

// Position locates a byte in the source text.
// Line and Column are 1-based; Column counts bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether the position refers to parsed input.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d (offset %d)", p.Line, p.Column, p.Offset)
}

// LexError represents a failure to tokenize input.
type LexError struct {
	Err error    // Underlying sentinel error (ErrUnterminatedString, ErrInvalidEscape)
	Pos Position // Where the failure was detected
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex %s: %s", e.Pos, e.Err.Error())
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// ParseError represents a structural failure while building the node tree.
type ParseError struct {
	Err error    // Underlying sentinel error (ErrUnbalancedParens, etc.)
	Pos Position // Where the failure was detected
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Pos, e.Err.Error())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ShapeError represents an invalid shape descriptor.
// It is returned when the shape is constructed, never during encode or decode.
type ShapeError struct {
	Err   error  // Underlying sentinel error (ErrDuplicateFieldName, etc.)
	Shape string // Name of the shape being built
	Field string // Field or variant that triggered the error
}

func (e *ShapeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("shape %s: %s (field %q)", e.Shape, e.Err.Error(), e.Field)
	}
	return fmt.Sprintf("shape %s: %s", e.Shape, e.Err.Error())
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// CodecError represents an encode or decode failure.
// Path names the field or variant that failed, Pos the source node when known.
type CodecError struct {
	Err      error    // Underlying sentinel error (ErrMissingField, etc.)
	Path     string   // Field path, e.g. footprint.pads[1].at.x
	Expected string   // What the shape required
	Found    string   // What the input held
	Pos      Position // Position of the offending node, if parsed
	Cause    error    // Original error from a primitive conversion
	Attempts []error  // Per-member failures for ErrNoVariantMatched
}

func (e *CodecError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Err.Error())
	if e.Expected != "" || e.Found != "" {
		fmt.Fprintf(&sb, " (expected %s, found %s)", e.Expected, e.Found)
	}
	if e.Pos.IsValid() {
		fmt.Fprintf(&sb, " at %s", e.Pos)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	if len(e.Attempts) > 0 {
		sb.WriteString(" [")
		for i, a := range e.Attempts {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(a.Error())
		}
		sb.WriteString("]")
	}
	return sb.String()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newLexError creates a LexError at the given position.
func newLexError(sentinel error, pos Position) error {
	return &LexError{Err: sentinel, Pos: pos}
}

// newParseError creates a ParseError at the given position.
func newParseError(sentinel error, pos Position) error {
	return &ParseError{Err: sentinel, Pos: pos}
}

// newShapeError creates a ShapeError for descriptor validation failures.
func newShapeError(sentinel error, shape, field string) error {
	return &ShapeError{Err: sentinel, Shape: shape, Field: field}
}

// newCodecError creates a CodecError anchored at node n, which may be nil.
func newCodecError(sentinel error, path string, n *Node, expected, found string) *CodecError {
	e := &CodecError{
		Err:      sentinel,
		Path:     path,
		Expected: expected,
		Found:    found,
	}
	if n != nil {
		e.Pos = n.Pos
	}
	return e
}
