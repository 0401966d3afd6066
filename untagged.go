package sexpr

// Member is one alternative of an untagged group.
type Member struct {
	Name  string
	Shape Shape
}

// UntaggedShape is an ordered group of alternatives with no tag of its own.
// Decoding tries each member in declared order and keeps the first success,
// so order is the priority among members that accept the same input.
type UntaggedShape struct {
	name    string
	members []Member
}

// NewUntagged returns an untagged group. Member names must be unique and
// non-empty.
func NewUntagged(name string, members ...Member) (*UntaggedShape, error) {
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if m.Name == "" {
			return nil, newShapeError(ErrEmptyName, name, "")
		}
		if seen[m.Name] {
			return nil, newShapeError(ErrDuplicateVariant, name, m.Name)
		}
		if err := checkShape(m.Shape); err != nil {
			return nil, newShapeError(err, name, m.Name)
		}
		seen[m.Name] = true
	}
	return &UntaggedShape{name: name, members: append([]Member(nil), members...)}, nil
}

// MustUntagged is like NewUntagged but panics on an invalid shape.
func MustUntagged(name string, members ...Member) *UntaggedShape {
	s, err := NewUntagged(name, members...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *UntaggedShape) Name() string { return s.name }

// Members returns the members in priority order.
func (s *UntaggedShape) Members() []Member { return append([]Member(nil), s.members...) }

// Literal is a number or a piece of text, as found in KiCad property values.
// A bare number such as 42 decodes as the number member.
var Literal = MustUntagged("literal",
	Member{Name: "number", Shape: Unsigned(16)},
	Member{Name: "text", Shape: Text()},
)

func (d *Decoder) decodeUntagged(n *Node, s *UntaggedShape, path string) (Value, error) {
	var attempts []error
	for _, m := range s.members {
		v, err := d.decode(n, m.Shape, path+"::"+m.Name)
		if err == nil {
			return Variant{Name: m.Name, Value: v}, nil
		}
		attempts = append(attempts, err)
	}
	e := newCodecError(ErrNoVariantMatched, path, n, s.name, describe(n))
	e.Attempts = attempts
	return nil, e
}

func (e *Encoder) encodeUntagged(v Value, s *UntaggedShape, path string) (*Node, error) {
	if vr, ok := v.(Variant); ok {
		for _, m := range s.members {
			if m.Name == vr.Name {
				return e.encode(vr.Value, m.Shape, path+"::"+m.Name)
			}
		}
	}

	// Not tagged with a member name: the first member that accepts it wins.
	var attempts []error
	for _, m := range s.members {
		n, err := e.encode(v, m.Shape, path+"::"+m.Name)
		if err == nil {
			return n, nil
		}
		attempts = append(attempts, err)
	}
	ce := newCodecError(ErrNoVariantMatched, path, nil, s.name, typeName(v))
	ce.Attempts = attempts
	return nil, ce
}
