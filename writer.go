package sexpr

import (
	"bufio"
	"io"
	"strings"
)

// Writer renders node trees as text.
type Writer struct {
	w       *bufio.Writer
	pretty  bool
	minimal bool
	indent  string
}

// WriteOption configures a Writer.
type WriteOption func(*Writer)

// WithPrettyOutput places nested lists on their own indented lines.
func WithPrettyOutput() WriteOption {
	return func(w *Writer) {
		w.pretty = true
	}
}

// WithIndent sets the per-level indentation used by pretty output.
func WithIndent(indent string) WriteOption {
	return func(w *Writer) {
		w.indent = indent
	}
}

// WithMinimalQuoting ignores the Quoted flag of atoms and quotes only text
// that cannot be written bare.
func WithMinimalQuoting() WriteOption {
	return func(w *Writer) {
		w.minimal = true
	}
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer, opts ...WriteOption) *Writer {
	wr := &Writer{
		w:      bufio.NewWriter(w),
		indent: "  ",
	}
	for _, opt := range opts {
		opt(wr)
	}
	return wr
}

// WriteNode renders n and flushes the output.
func (w *Writer) WriteNode(n *Node) error {
	w.node(n, 0)
	return w.w.Flush()
}

// Write renders n compactly on one line.
func Write(n *Node) string {
	var sb strings.Builder
	_ = NewWriter(&sb).WriteNode(n)
	return sb.String()
}

// WritePretty renders n with nested lists on indented lines.
func WritePretty(n *Node) string {
	var sb strings.Builder
	_ = NewWriter(&sb, WithPrettyOutput()).WriteNode(n)
	return sb.String()
}

func (w *Writer) node(n *Node, lvl int) {
	if n == nil {
		return
	}
	if n.Kind == KindAtom {
		w.atom(n)
		return
	}

	w.w.WriteByte('(')
	for i, c := range n.List {
		if i > 0 {
			if w.pretty && c.Kind == KindList {
				w.w.WriteByte('\n')
				for j := 0; j <= lvl; j++ {
					w.w.WriteString(w.indent)
				}
			} else {
				w.w.WriteByte(' ')
			}
		}
		w.node(c, lvl+1)
	}
	w.w.WriteByte(')')
}

func (w *Writer) atom(n *Node) {
	if (w.minimal || !n.Quoted) && !needsQuotes(n.Text) {
		w.w.WriteString(n.Text)
		return
	}
	w.w.WriteByte('"')
	for i := 0; i < len(n.Text); i++ {
		switch c := n.Text[i]; c {
		case '"', '\\':
			w.w.WriteByte('\\')
			w.w.WriteByte(c)
		case '\n':
			w.w.WriteString(`\n`)
		case '\r':
			w.w.WriteString(`\r`)
		case '\t':
			w.w.WriteString(`\t`)
		default:
			w.w.WriteByte(c)
		}
	}
	w.w.WriteByte('"')
}

// needsQuotes reports whether text cannot be written as a bare atom.
func needsQuotes(text string) bool {
	if text == "" {
		return true
	}
	for i := 0; i < len(text); i++ {
		if c := text[i]; isDelimiter(c) || c == '\\' {
			return true
		}
	}
	return false
}
