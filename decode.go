package sexpr

import (
	"encoding/hex"
	"strconv"
)

// Decoder turns node trees into values.
type Decoder struct {
	// AllowUnknown ignores children left over after every record field has
	// resolved, for all records regardless of their own setting.
	AllowUnknown bool
}

// Decode reads n according to shape s with default settings.
func Decode(n *Node, s Shape) (Value, error) {
	var d Decoder
	return d.Decode(n, s)
}

// Decode reads n according to shape s. The node tree is never modified, so
// one tree may be decoded concurrently against several shapes.
func (d *Decoder) Decode(n *Node, s Shape) (Value, error) {
	rs := resolve(s)
	if isNilShape(rs) {
		return nil, ErrNilShape
	}
	return d.decode(n, rs, rs.Name())
}

func (d *Decoder) decode(n *Node, s Shape, path string) (Value, error) {
	rs := resolve(s)
	if isNilShape(rs) {
		return nil, newCodecError(ErrNilShape, path, n, "shape", "nil")
	}
	if n == nil {
		return nil, newCodecError(ErrMissingField, path, nil, rs.Name(), "nothing")
	}

	switch sh := rs.(type) {
	case *PrimitiveShape:
		return d.decodePrimitive(n, sh, path)

	case *SeqShape:
		if !n.IsList() {
			return nil, newCodecError(ErrTypeMismatch, path, n, "list", describe(n))
		}
		return d.decodeElems(n.List, sh, path)

	case *TupleShape:
		children, err := headed(n, sh.name, path)
		if err != nil {
			return nil, err
		}
		return d.decodeTuple(n, children, sh, path)

	case *RecordShape:
		children, err := headed(n, sh.name, path)
		if err != nil {
			return nil, err
		}
		return d.decodeRecord(n, children, sh, path)

	case *EnumShape:
		return d.decodeEnum(n, sh, path)

	case *UntaggedShape:
		return d.decodeUntagged(n, sh, path)
	}
	return nil, newCodecError(ErrTypeMismatch, path, n, "known shape", describe(n))
}

// headed checks that n is a list headed by name and returns the children
// after the head. An empty name expects a headless list.
func headed(n *Node, name, path string) ([]*Node, error) {
	if !n.IsList() {
		return nil, newCodecError(ErrTypeMismatch, path, n, "("+name+" ...)", describe(n))
	}
	if name == "" {
		return n.List, nil
	}
	head, ok := n.Head()
	if !ok {
		return nil, newCodecError(ErrUnexpectedHeadName, path, n, name, describe(n))
	}
	if head != name {
		return nil, newCodecError(ErrUnexpectedHeadName, path, n.List[0], name, head)
	}
	return n.List[1:], nil
}

func (d *Decoder) decodePrimitive(n *Node, s *PrimitiveShape, path string) (Value, error) {
	if !n.IsAtom() {
		return nil, newCodecError(ErrTypeMismatch, path, n, s.Name(), describe(n))
	}
	mismatch := func(cause error) (Value, error) {
		e := newCodecError(ErrTypeMismatch, path, n, s.Name(), describe(n))
		e.Cause = cause
		return nil, e
	}

	switch s.kind {
	case primBool:
		switch n.Text {
		case s.trueText:
			return Bool(true), nil
		case s.falseText:
			return Bool(false), nil
		}
		return mismatch(nil)

	case primInt:
		i, err := strconv.ParseInt(n.Text, 10, s.bits)
		if err != nil {
			return mismatch(err)
		}
		return Int(i), nil

	case primUint:
		u, err := strconv.ParseUint(n.Text, 10, s.bits)
		if err != nil {
			return mismatch(err)
		}
		return Uint(u), nil

	case primFloat:
		f, err := strconv.ParseFloat(n.Text, s.bits)
		if err != nil {
			return mismatch(err)
		}
		return Float(f), nil

	case primString:
		return String(n.Text), nil

	case primBytes:
		b, err := hex.DecodeString(n.Text)
		if err != nil {
			return mismatch(err)
		}
		return Bytes(b), nil
	}
	return mismatch(nil)
}

func (d *Decoder) decodeElems(children []*Node, s *SeqShape, path string) (Value, error) {
	seq := make(Seq, 0, len(children))
	for i, c := range children {
		v, err := d.decode(c, s.elem, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		seq = append(seq, v)
	}
	return seq, nil
}

func (d *Decoder) decodeTuple(n *Node, children []*Node, s *TupleShape, path string) (Value, error) {
	if len(children) != len(s.elems) {
		return nil, newCodecError(ErrArityMismatch, path, n, strconv.Itoa(len(s.elems)), strconv.Itoa(len(children)))
	}
	tup := make(Tuple, len(children))
	for i, c := range children {
		v, err := d.decode(c, s.elems[i], indexPath(path, i))
		if err != nil {
			return nil, err
		}
		tup[i] = v
	}
	return tup, nil
}

func (d *Decoder) decodeRecord(n *Node, children []*Node, s *RecordShape, path string) (Value, error) {
	p := NewPool(children)
	rec := make(Record, len(s.fields))

	for _, f := range s.fields {
		fpath := path + "." + f.Label()

		switch f.Kind {
		case FieldPlain:
			c := p.Next()
			if c == nil {
				return nil, newCodecError(ErrMissingField, fpath, n, f.Shape.Name(), "nothing")
			}
			v, err := d.decode(c, f.Shape, fpath)
			if err != nil {
				return nil, err
			}
			rec[f.Name] = v

		case FieldKeyed:
			c := p.TakeKeyed(f.Name)
			if c == nil {
				if f.Default != nil {
					rec[f.Name] = f.Default
					continue
				}
				return nil, newCodecError(ErrMissingField, fpath, n, "("+f.Name+" ...)", "nothing")
			}
			v, err := d.decodeWrapped(f.Name, c, f.Shape, fpath)
			if err != nil {
				return nil, err
			}
			rec[f.Name] = v

		case FieldOptional:
			opt, err := OptionField(f.Name, f.Shape).decode(d, p, fpath)
			if err != nil {
				return nil, err
			}
			rec[f.Name] = opt

		case FieldOptionalPlain:
			opt := None()
			if c := p.Peek(); c != nil {
				if v, err := d.decode(c, f.Shape, fpath); err == nil {
					p.Next()
					opt = Some(v)
				}
			}
			rec[f.Name] = opt

		case FieldFlag:
			set := false
			if c := p.Peek(); c.IsAtom() && !c.Quoted && c.Text == f.Name {
				p.Next()
				set = true
			}
			rec[f.Name] = Bool(set)

		case FieldRest:
			v, err := d.decodeElems(p.Drain(), SeqOf(f.Shape), fpath)
			if err != nil {
				return nil, err
			}
			rec[f.Name] = v
		}
	}

	if left := p.Remaining(); len(left) > 0 && !s.allowUnknown && !d.AllowUnknown {
		return nil, newCodecError(ErrUnexpectedExtraField, path, left[0], s.name+" fields", describe(left[0]))
	}
	return rec, nil
}

// decodeWrapped reads the (name value...) form written by encodeWrapped.
func (d *Decoder) decodeWrapped(name string, n *Node, s Shape, path string) (Value, error) {
	rs := resolve(s)
	if selfKeyed(name, rs) {
		return d.decode(n, rs, path)
	}

	children, err := headed(n, name, path)
	if err != nil {
		return nil, err
	}
	if flattens(rs) {
		switch sh := rs.(type) {
		case *SeqShape:
			return d.decodeElems(children, sh, path)
		case *TupleShape:
			return d.decodeTuple(n, children, sh, path)
		}
	}
	if len(children) != 1 {
		return nil, newCodecError(ErrArityMismatch, path, n, "1", strconv.Itoa(len(children)))
	}
	return d.decode(children[0], rs, path)
}

func (d *Decoder) decodeEnum(n *Node, s *EnumShape, path string) (Value, error) {
	if n.IsAtom() {
		v, ok := s.variant(n.Text)
		if !ok {
			return nil, newCodecError(ErrUnknownVariant, path, n, s.name, n.Text)
		}
		if v.Kind != VariantUnit {
			return nil, newCodecError(ErrTypeMismatch, path+"::"+v.Name, n, "("+v.Name+" ...)", describe(n))
		}
		return Variant{Name: v.Name}, nil
	}

	head, ok := n.Head()
	if !ok {
		return nil, newCodecError(ErrUnknownVariant, path, n, s.name, describe(n))
	}
	v, ok := s.variant(head)
	if !ok {
		return nil, newCodecError(ErrUnknownVariant, path, n.List[0], s.name, head)
	}

	vpath := path + "::" + v.Name
	switch v.Kind {
	case VariantUnit:
		if len(n.List) != 1 {
			return nil, newCodecError(ErrArityMismatch, vpath, n, "0", strconv.Itoa(len(n.List)-1))
		}
		return Variant{Name: v.Name}, nil
	case VariantNewtype:
		payload, err := d.decodeWrapped(v.Name, n, v.Payload, vpath)
		if err != nil {
			return nil, err
		}
		return Variant{Name: v.Name, Value: payload}, nil
	default:
		payload, err := d.decode(n, v.Payload, vpath)
		if err != nil {
			return nil, err
		}
		return Variant{Name: v.Name, Value: payload}, nil
	}
}
