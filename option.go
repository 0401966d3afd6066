package sexpr

// Pool tracks the children of a record list while its fields are resolved.
// Positional reads advance a cursor; keyed lookups remove a matching child
// from anywhere after the cursor without consuming the children they skip.
type Pool struct {
	nodes  []*Node
	used   []bool
	cursor int
}

// NewPool returns a pool over children. The slice is not modified.
func NewPool(children []*Node) *Pool {
	return &Pool{
		nodes: children,
		used:  make([]bool, len(children)),
	}
}

// Peek returns the next unconsumed child at or after the cursor, or nil.
func (p *Pool) Peek() *Node {
	for i := p.cursor; i < len(p.nodes); i++ {
		if !p.used[i] {
			return p.nodes[i]
		}
	}
	return nil
}

// Next consumes and returns the next unconsumed child, or nil.
func (p *Pool) Next() *Node {
	for p.cursor < len(p.nodes) {
		i := p.cursor
		p.cursor++
		if !p.used[i] {
			p.used[i] = true
			return p.nodes[i]
		}
	}
	return nil
}

// TakeKeyed removes and returns the first unconsumed list at or after the
// cursor whose head is name, or nil if there is none.
func (p *Pool) TakeKeyed(name string) *Node {
	for i := p.cursor; i < len(p.nodes); i++ {
		if p.used[i] {
			continue
		}
		if head, ok := p.nodes[i].Head(); ok && head == name {
			p.used[i] = true
			return p.nodes[i]
		}
	}
	return nil
}

// Remaining returns the unconsumed children in source order.
func (p *Pool) Remaining() []*Node {
	var out []*Node
	for i, n := range p.nodes {
		if !p.used[i] {
			out = append(out, n)
		}
	}
	return out
}

// Drain consumes and returns every unconsumed child in source order.
func (p *Pool) Drain() []*Node {
	out := p.Remaining()
	for i := range p.used {
		p.used[i] = true
	}
	p.cursor = len(p.nodes)
	return out
}

// OptionCompanion encodes and decodes one optional field. Absence is the only
// signal for None: nothing is written, and a missing (name ...) sub-list
// reads back as None.
type OptionCompanion struct {
	name  string
	shape Shape
}

// OptionField returns the companion for an optional field called name
// holding values of shape s.
func OptionField(name string, s Shape) OptionCompanion {
	return OptionCompanion{name: name, shape: s}
}

// Name returns the field name.
func (c OptionCompanion) Name() string { return c.name }

// Encode renders v. The boolean result is false when v is None and the field
// contributes no node.
func (c OptionCompanion) Encode(e *Encoder, v Option) (*Node, bool, error) {
	return c.encode(e, v, c.name)
}

// Decode looks the field up in p and removes it if found.
func (c OptionCompanion) Decode(d *Decoder, p *Pool) (Option, error) {
	return c.decode(d, p, c.name)
}

func (c OptionCompanion) encode(e *Encoder, v Option, path string) (*Node, bool, error) {
	if !v.Valid {
		return nil, false, nil
	}
	if e == nil {
		e = &Encoder{}
	}
	n, err := e.encodeWrapped(c.name, v.Value, c.shape, path)
	if err != nil {
		return nil, false, err
	}
	return n, true, nil
}

func (c OptionCompanion) decode(d *Decoder, p *Pool, path string) (Option, error) {
	n := p.TakeKeyed(c.name)
	if n == nil {
		return None(), nil
	}
	if d == nil {
		d = &Decoder{}
	}
	v, err := d.decodeWrapped(c.name, n, c.shape, path)
	if err != nil {
		return Option{}, err
	}
	return Some(v), nil
}
