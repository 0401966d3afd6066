package sexpr

import (
	"errors"
	"strings"
	"testing"
)

func TestLexError_Is(t *testing.T) {
	err := newLexError(ErrInvalidEscape, Position{Offset: 3, Line: 1, Column: 4})

	if !errors.Is(err, ErrInvalidEscape) {
		t.Error("LexError should unwrap to ErrInvalidEscape")
	}
	if errors.Is(err, ErrUnterminatedString) {
		t.Error("LexError should not match ErrUnterminatedString")
	}

	want := "lex 1:4 (offset 3): invalid escape"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestParseError_Is(t *testing.T) {
	err := newParseError(ErrUnbalancedParens, Position{Offset: 10, Line: 1, Column: 11})

	if !errors.Is(err, ErrUnbalancedParens) {
		t.Error("ParseError should unwrap to ErrUnbalancedParens")
	}

	want := "parse 1:11 (offset 10): unbalanced parentheses"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestShapeError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with field",
			err:  newShapeError(ErrDuplicateFieldName, "pad", "at"),
			want: `shape pad: duplicate field name (field "at")`,
		},
		{
			name: "without field",
			err:  newShapeError(ErrEmptyName, "", ""),
			want: "shape : empty name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodecError_Message(t *testing.T) {
	n := Atom("x")
	n.Pos = Position{Offset: 9, Line: 1, Column: 10}

	tests := []struct {
		name string
		err  *CodecError
		want string
	}{
		{
			name: "full context",
			err:  newCodecError(ErrTypeMismatch, "Point[1]", n, "int32", `atom "x"`),
			want: `Point[1]: type mismatch (expected int32, found atom "x") at 1:10 (offset 9)`,
		},
		{
			name: "no position",
			err:  newCodecError(ErrMissingField, "at.y", nil, "float32", "nothing"),
			want: "at.y: missing field (expected float32, found nothing)",
		},
		{
			name: "bare sentinel",
			err:  &CodecError{Err: ErrUnknownVariant},
			want: "unknown variant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodecError_CauseAndAttempts(t *testing.T) {
	err := newCodecError(ErrNoVariantMatched, "literal", nil, "literal", "list")
	err.Attempts = []error{errors.New("first"), errors.New("second")}
	err.Cause = errors.New("root")

	msg := err.Error()
	for _, part := range []string{": root", "[first; second]"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error() = %q, want it to contain %q", msg, part)
		}
	}
	if !errors.Is(err, ErrNoVariantMatched) {
		t.Error("CodecError should unwrap to ErrNoVariantMatched")
	}
}

func TestPosition(t *testing.T) {
	var zero Position
	if zero.IsValid() {
		t.Error("zero Position should not be valid")
	}
	if zero.String() != "-" {
		t.Errorf("String() = %q, want %q", zero.String(), "-")
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrUnterminatedString,
		ErrInvalidEscape,
		ErrUnbalancedParens,
		ErrUnexpectedCloseParen,
		ErrDepthExceeded,
		ErrTopLevelCount,
		ErrDuplicateFieldName,
		ErrMultipleRestFields,
		ErrFieldAfterRest,
		ErrPositionalSequence,
		ErrDuplicateVariant,
		ErrEmptyName,
		ErrNilShape,
		ErrUnknownHashAlgo,
		ErrUnexpectedHeadName,
		ErrArityMismatch,
		ErrTypeMismatch,
		ErrMissingField,
		ErrUnexpectedExtraField,
		ErrUnknownVariant,
		ErrNoVariantMatched,
		ErrInvalidValue,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
