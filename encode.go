package sexpr

import (
	"encoding/hex"
	"math"
	"sort"
	"strconv"
)

// QuotePolicy controls when encoded strings are forced into quotes.
type QuotePolicy int

const (
	// QuoteMinimal quotes only text that cannot be written bare.
	QuoteMinimal QuotePolicy = iota

	// QuoteStrings quotes every string value except plain identifiers made of
	// ASCII letters and underscores, the way KiCad writes its files.
	QuoteStrings

	// QuoteAlways quotes every string value.
	QuoteAlways
)

// Encoder turns values into node trees.
// The zero value encodes with QuoteMinimal.
type Encoder struct {
	Quote QuotePolicy
}

// Encode renders v according to shape s with default settings.
func Encode(v Value, s Shape) (*Node, error) {
	var e Encoder
	return e.Encode(v, s)
}

// Encode renders v according to shape s.
func (e *Encoder) Encode(v Value, s Shape) (*Node, error) {
	rs := resolve(s)
	if isNilShape(rs) {
		return nil, ErrNilShape
	}
	return e.encode(v, rs, rs.Name())
}

func (e *Encoder) encode(v Value, s Shape, path string) (*Node, error) {
	rs := resolve(s)
	if isNilShape(rs) {
		return nil, newCodecError(ErrNilShape, path, nil, "shape", "nil")
	}
	switch sh := rs.(type) {
	case *PrimitiveShape:
		return e.encodePrimitive(v, sh, path)

	case *SeqShape:
		// A bare sequence is a headless list.
		list := List()
		if err := e.appendElems(list, v, sh, path); err != nil {
			return nil, err
		}
		return list, nil

	case *TupleShape:
		tup, ok := v.(Tuple)
		if !ok {
			return nil, newCodecError(ErrInvalidValue, path, nil, "tuple", typeName(v))
		}
		list := List()
		if sh.name != "" {
			list.List = append(list.List, Atom(sh.name))
		}
		if err := e.appendTuple(list, tup, sh, path); err != nil {
			return nil, err
		}
		return list, nil

	case *RecordShape:
		rec, ok := v.(Record)
		if !ok {
			return nil, newCodecError(ErrInvalidValue, path, nil, "record", typeName(v))
		}
		return e.encodeRecord(rec, sh, path)

	case *EnumShape:
		return e.encodeEnum(v, sh, path)

	case *UntaggedShape:
		return e.encodeUntagged(v, sh, path)
	}
	return nil, newCodecError(ErrInvalidValue, path, nil, "known shape", "nil")
}

func (e *Encoder) encodePrimitive(v Value, s *PrimitiveShape, path string) (*Node, error) {
	mismatch := func() (*Node, error) {
		return nil, newCodecError(ErrInvalidValue, path, nil, s.Name(), typeName(v))
	}

	switch s.kind {
	case primBool:
		b, ok := v.(Bool)
		if !ok {
			return mismatch()
		}
		if b {
			return Atom(s.trueText), nil
		}
		return Atom(s.falseText), nil

	case primInt:
		i, ok := v.(Int)
		if !ok || !fitsInt(int64(i), s.bits) {
			return mismatch()
		}
		return Atom(strconv.FormatInt(int64(i), 10)), nil

	case primUint:
		u, ok := v.(Uint)
		if !ok || !fitsUint(uint64(u), s.bits) {
			return mismatch()
		}
		return Atom(strconv.FormatUint(uint64(u), 10)), nil

	case primFloat:
		f, ok := v.(Float)
		if !ok {
			return mismatch()
		}
		return Atom(strconv.FormatFloat(float64(f), 'f', -1, s.bits)), nil

	case primString:
		str, ok := v.(String)
		if !ok {
			return mismatch()
		}
		n := Atom(string(str))
		switch e.Quote {
		case QuoteAlways:
			n.Quoted = true
		case QuoteStrings:
			n.Quoted = !isIdentifier(string(str))
		}
		return n, nil

	case primBytes:
		b, ok := v.(Bytes)
		if !ok {
			return mismatch()
		}
		return Atom(hex.EncodeToString(b)), nil
	}
	return mismatch()
}

func (e *Encoder) encodeRecord(rec Record, s *RecordShape, path string) (*Node, error) {
	list := List(Atom(s.name))
	if err := e.appendFields(list, rec, s.fields, path); err != nil {
		return nil, err
	}
	return list, nil
}

func (e *Encoder) appendFields(list *Node, rec Record, fields []Field, path string) error {
	for _, f := range fields {
		fpath := path + "." + f.Label()
		v, present := rec[f.Name]

		switch f.Kind {
		case FieldPlain:
			if !present {
				return newCodecError(ErrMissingField, fpath, nil, f.Shape.Name(), "nothing")
			}
			n, err := e.encode(v, f.Shape, fpath)
			if err != nil {
				return err
			}
			list.List = append(list.List, n)

		case FieldKeyed:
			if !present {
				if f.Default != nil {
					continue
				}
				return newCodecError(ErrMissingField, fpath, nil, f.Shape.Name(), "nothing")
			}
			n, err := e.encodeWrapped(f.Name, v, f.Shape, fpath)
			if err != nil {
				return err
			}
			list.List = append(list.List, n)

		case FieldOptional:
			opt, err := optionValue(v, present, fpath)
			if err != nil {
				return err
			}
			n, ok, err := OptionField(f.Name, f.Shape).encode(e, opt, fpath)
			if err != nil {
				return err
			}
			if ok {
				list.List = append(list.List, n)
			}

		case FieldOptionalPlain:
			opt, err := optionValue(v, present, fpath)
			if err != nil {
				return err
			}
			if !opt.Valid {
				continue
			}
			n, err := e.encode(opt.Value, f.Shape, fpath)
			if err != nil {
				return err
			}
			list.List = append(list.List, n)

		case FieldFlag:
			if !present {
				continue
			}
			b, ok := v.(Bool)
			if !ok {
				return newCodecError(ErrInvalidValue, fpath, nil, "bool", typeName(v))
			}
			if b {
				list.List = append(list.List, Atom(f.Name))
			}

		case FieldRest:
			if !present {
				continue
			}
			if err := e.appendElems(list, v, SeqOf(f.Shape), fpath); err != nil {
				return err
			}
		}
	}
	return checkKeys(rec, fields, path)
}

// checkKeys rejects record keys that name no field.
func checkKeys(rec Record, fields []Field, path string) error {
	declared := make(map[string]bool, len(fields))
	for _, f := range fields {
		declared[f.Name] = true
	}
	var unknown []string
	for key := range rec {
		if !declared[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return newCodecError(ErrInvalidValue, path+"."+unknown[0], nil, "declared field", "unknown key "+strconv.Quote(unknown[0]))
}

// encodeWrapped renders (name value...). Sequences and anonymous tuples are
// spread inside the wrapper; a record or tuple already headed by name is
// emitted as is.
func (e *Encoder) encodeWrapped(name string, v Value, s Shape, path string) (*Node, error) {
	rs := resolve(s)
	if selfKeyed(name, rs) {
		return e.encode(v, rs, path)
	}

	list := List(Atom(name))
	switch sh := rs.(type) {
	case *SeqShape:
		if err := e.appendElems(list, v, sh, path); err != nil {
			return nil, err
		}
		return list, nil
	case *TupleShape:
		if sh.name == "" {
			tup, ok := v.(Tuple)
			if !ok {
				return nil, newCodecError(ErrInvalidValue, path, nil, "tuple", typeName(v))
			}
			if err := e.appendTuple(list, tup, sh, path); err != nil {
				return nil, err
			}
			return list, nil
		}
	}

	n, err := e.encode(v, rs, path)
	if err != nil {
		return nil, err
	}
	list.List = append(list.List, n)
	return list, nil
}

func (e *Encoder) appendElems(list *Node, v Value, s *SeqShape, path string) error {
	seq, ok := v.(Seq)
	if !ok {
		return newCodecError(ErrInvalidValue, path, nil, "seq", typeName(v))
	}
	for i, elem := range seq {
		n, err := e.encode(elem, s.elem, indexPath(path, i))
		if err != nil {
			return err
		}
		list.List = append(list.List, n)
	}
	return nil
}

func (e *Encoder) appendTuple(list *Node, tup Tuple, s *TupleShape, path string) error {
	if len(tup) != len(s.elems) {
		return newCodecError(ErrArityMismatch, path, nil, strconv.Itoa(len(s.elems)), strconv.Itoa(len(tup)))
	}
	for i, elem := range tup {
		n, err := e.encode(elem, s.elems[i], indexPath(path, i))
		if err != nil {
			return err
		}
		list.List = append(list.List, n)
	}
	return nil
}

func (e *Encoder) encodeEnum(v Value, s *EnumShape, path string) (*Node, error) {
	vr, ok := v.(Variant)
	if !ok {
		return nil, newCodecError(ErrInvalidValue, path, nil, "variant", typeName(v))
	}
	variant, ok := s.variant(vr.Name)
	if !ok {
		return nil, newCodecError(ErrUnknownVariant, path, nil, s.name, vr.Name)
	}

	vpath := path + "::" + vr.Name
	switch variant.Kind {
	case VariantUnit:
		if vr.Value != nil {
			return nil, newCodecError(ErrInvalidValue, vpath, nil, "no payload", typeName(vr.Value))
		}
		return Atom(variant.Name), nil
	case VariantNewtype:
		return e.encodeWrapped(variant.Name, vr.Value, variant.Payload, vpath)
	default:
		return e.encode(vr.Value, variant.Payload, vpath)
	}
}

func optionValue(v Value, present bool, path string) (Option, error) {
	if !present || v == nil {
		return None(), nil
	}
	opt, ok := v.(Option)
	if !ok {
		return Option{}, newCodecError(ErrInvalidValue, path, nil, "option", typeName(v))
	}
	return opt, nil
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func fitsInt(i int64, bits int) bool {
	if bits >= 64 {
		return true
	}
	limit := int64(1) << (bits - 1)
	return i >= -limit && i < limit
}

func fitsUint(u uint64, bits int) bool {
	if bits >= 64 {
		return true
	}
	return u <= math.MaxUint64>>(64-bits)
}

// isIdentifier reports whether s is non-empty and made only of ASCII letters
// and underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_') {
			return false
		}
	}
	return true
}
