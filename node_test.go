package sexpr

import "testing"

func TestNode_Accessors(t *testing.T) {
	n := List(Atom("at"), Atom("1"), Atom("2"))

	if !n.IsList() || n.IsAtom() {
		t.Fatal("List() should build a list node")
	}
	if n.Len() != 3 {
		t.Errorf("Len() = %d, want 3", n.Len())
	}
	if head, ok := n.Head(); !ok || head != "at" {
		t.Errorf("Head() = %q, %v, want %q, true", head, ok, "at")
	}
	if tail := n.Tail(); len(tail) != 2 || tail[0].Text != "1" {
		t.Errorf("Tail() = %v, want [1 2]", tail)
	}

	a := Atom("x")
	if a.Len() != 0 || a.Tail() != nil {
		t.Error("atom should have no children")
	}
	if _, ok := a.Head(); ok {
		t.Error("atom should have no head")
	}
	if _, ok := List().Head(); ok {
		t.Error("empty list should have no head")
	}
	if _, ok := List(List()).Head(); ok {
		t.Error("list led by a list should have no head")
	}
}

func TestNode_NilSafe(t *testing.T) {
	var n *Node
	if n.IsAtom() || n.IsList() || n.Len() != 0 {
		t.Error("nil node should be neither atom nor list")
	}
	if n.String() != "<nil>" {
		t.Errorf("String() = %q, want %q", n.String(), "<nil>")
	}
	if !n.Equal(nil) || n.Equal(Atom("x")) {
		t.Error("nil should equal only nil")
	}
}

func TestNode_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b *Node
		want bool
	}{
		{"same atom", Atom("a"), Atom("a"), true},
		{"quoting ignored", Atom("a"), QuotedAtom("a"), true},
		{"different atom", Atom("a"), Atom("b"), false},
		{"atom vs list", Atom("a"), List(Atom("a")), false},
		{"same list", List(Atom("a"), List()), List(Atom("a"), List()), true},
		{"different length", List(Atom("a")), List(Atom("a"), Atom("b")), false},
		{"nested difference", List(List(Atom("a"))), List(List(Atom("b"))), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNode_EqualIgnoresPosition(t *testing.T) {
	a, err := Parse("(at 1 2)")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	b, err := Parse("  (at\n1   2)")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !a.Equal(b) {
		t.Error("Equal() should ignore source positions")
	}
}

func TestNode_String(t *testing.T) {
	n := List(Atom("layers"), QuotedAtom("F.Cu"), Atom("B Cu"))
	if got, want := n.String(), `(layers "F.Cu" "B Cu")`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		n    *Node
		want string
	}{
		{nil, "nothing"},
		{Atom("x"), `atom "x"`},
		{List(Atom("pad")), "list (pad ...)"},
		{List(), "list"},
	}
	for _, tt := range tests {
		if got := describe(tt.n); got != tt.want {
			t.Errorf("describe(%v) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestKind_String(t *testing.T) {
	if KindAtom.String() != "atom" || KindList.String() != "list" {
		t.Errorf("Kind strings = %q, %q", KindAtom, KindList)
	}
}
