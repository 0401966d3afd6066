package sexpr

// Kind distinguishes atoms from lists.
type Kind int

const (
	KindAtom Kind = iota
	KindList
)

func (k Kind) String() string {
	if k == KindList {
		return "list"
	}
	return "atom"
}

// Node is one element of a parsed document: an atom of raw text, or a list
// of child nodes. Nodes are not mutated after construction and may be shared
// between concurrent decodes.
type Node struct {
	Kind   Kind
	Text   string  // atom text, unescaped
	Quoted bool    // atom was quoted in the source, or must be quoted on output
	List   []*Node // list children
	Pos    Position
}

// Atom returns an atom node.
func Atom(text string) *Node {
	return &Node{Kind: KindAtom, Text: text}
}

// QuotedAtom returns an atom node that is always written quoted.
func QuotedAtom(text string) *Node {
	return &Node{Kind: KindAtom, Text: text, Quoted: true}
}

// List returns a list node.
func List(children ...*Node) *Node {
	if children == nil {
		children = make([]*Node, 0)
	}
	return &Node{Kind: KindList, List: children}
}

// IsAtom reports whether n is an atom.
func (n *Node) IsAtom() bool {
	return n != nil && n.Kind == KindAtom
}

// IsList reports whether n is a list.
func (n *Node) IsList() bool {
	return n != nil && n.Kind == KindList
}

// Len returns the number of children of a list, or 0 for an atom.
func (n *Node) Len() int {
	if !n.IsList() {
		return 0
	}
	return len(n.List)
}

// Head returns the text of a list's leading atom.
func (n *Node) Head() (string, bool) {
	if !n.IsList() || len(n.List) == 0 || !n.List[0].IsAtom() {
		return "", false
	}
	return n.List[0].Text, true
}

// Tail returns a list's children after the head.
func (n *Node) Tail() []*Node {
	if !n.IsList() || len(n.List) == 0 {
		return nil
	}
	return n.List[1:]
}

// Equal reports structural equality, ignoring positions and quoting.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind {
		return false
	}
	if n.Kind == KindAtom {
		return n.Text == o.Text
	}
	if len(n.List) != len(o.List) {
		return false
	}
	for i := range n.List {
		if !n.List[i].Equal(o.List[i]) {
			return false
		}
	}
	return true
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return Write(n)
}

// describe names a node for error messages.
func describe(n *Node) string {
	switch {
	case n == nil:
		return "nothing"
	case n.IsAtom():
		return "atom " + quoteForMessage(n.Text)
	default:
		if head, ok := n.Head(); ok {
			return "list (" + head + " ...)"
		}
		return "list"
	}
}

func quoteForMessage(s string) string {
	if len(s) > 32 {
		s = s[:32] + "..."
	}
	return "\"" + s + "\""
}
