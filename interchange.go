package sexpr

import (
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// ToInterface converts v into plain Go data for an interchange codec:
// records become map[string]any keyed by field label, sequences and tuples
// become []any, unit variants become their name and other variants a
// single-key map. Absent options are left out.
func ToInterface(v Value, s Shape) (any, error) {
	rs := resolve(s)
	if isNilShape(rs) {
		return nil, ErrNilShape
	}
	return toInterface(v, rs, rs.Name())
}

func toInterface(v Value, s Shape, path string) (any, error) {
	rs := resolve(s)
	if isNilShape(rs) {
		return nil, newCodecError(ErrNilShape, path, nil, "shape", "nil")
	}
	invalid := func(expected string) (any, error) {
		return nil, newCodecError(ErrInvalidValue, path, nil, expected, typeName(v))
	}

	switch sh := rs.(type) {
	case *PrimitiveShape:
		switch x := v.(type) {
		case Bool:
			return bool(x), nil
		case Int:
			return int64(x), nil
		case Uint:
			return uint64(x), nil
		case Float:
			return float64(x), nil
		case String:
			return string(x), nil
		case Bytes:
			return hex.EncodeToString(x), nil
		}
		return invalid(sh.Name())

	case *SeqShape:
		seq, ok := v.(Seq)
		if !ok {
			return invalid("seq")
		}
		return sliceToInterface(seq, func(int) Shape { return sh.elem }, path)

	case *TupleShape:
		tup, ok := v.(Tuple)
		if !ok || len(tup) != len(sh.elems) {
			return invalid("tuple of " + strconv.Itoa(len(sh.elems)))
		}
		return sliceToInterface(tup, func(i int) Shape { return sh.elems[i] }, path)

	case *RecordShape:
		rec, ok := v.(Record)
		if !ok {
			return invalid("record")
		}
		out := make(map[string]any, len(sh.fields))
		for _, f := range sh.fields {
			fv, present := rec[f.Name]
			if !present {
				continue
			}
			fpath := path + "." + f.Label()
			var (
				x   any
				err error
			)
			switch f.Kind {
			case FieldOptional, FieldOptionalPlain:
				opt, oerr := optionValue(fv, true, fpath)
				if oerr != nil {
					return nil, oerr
				}
				if !opt.Valid {
					continue
				}
				x, err = toInterface(opt.Value, f.Shape, fpath)
			case FieldRest:
				x, err = toInterface(fv, SeqOf(f.Shape), fpath)
			default:
				x, err = toInterface(fv, f.Shape, fpath)
			}
			if err != nil {
				return nil, err
			}
			out[f.Label()] = x
		}
		return out, nil

	case *EnumShape:
		vr, ok := v.(Variant)
		if !ok {
			return invalid("variant")
		}
		variant, ok := sh.variant(vr.Name)
		if !ok {
			return nil, newCodecError(ErrUnknownVariant, path, nil, sh.name, vr.Name)
		}
		if variant.Kind == VariantUnit {
			return variant.Name, nil
		}
		x, err := toInterface(vr.Value, variant.Payload, path+"::"+variant.Name)
		if err != nil {
			return nil, err
		}
		return map[string]any{variant.Name: x}, nil

	case *UntaggedShape:
		if vr, ok := v.(Variant); ok {
			for _, m := range sh.members {
				if m.Name == vr.Name {
					return toInterface(vr.Value, m.Shape, path+"::"+m.Name)
				}
			}
		}
		for _, m := range sh.members {
			if x, err := toInterface(v, m.Shape, path+"::"+m.Name); err == nil {
				return x, nil
			}
		}
		return nil, newCodecError(ErrNoVariantMatched, path, nil, sh.name, typeName(v))
	}
	return invalid("known shape")
}

func sliceToInterface(vals []Value, shapeAt func(int) Shape, path string) ([]any, error) {
	out := make([]any, len(vals))
	for i, elem := range vals {
		x, err := toInterface(elem, shapeAt(i), indexPath(path, i))
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// FromInterface converts plain Go data produced by an interchange codec back
// into a Value of shape s. Numbers of any Go numeric type are accepted where
// the shape expects a number, as long as the conversion is exact. Untagged
// groups pick the first member that accepts the data.
func FromInterface(x any, s Shape) (Value, error) {
	rs := resolve(s)
	if isNilShape(rs) {
		return nil, ErrNilShape
	}
	return fromInterface(x, rs, rs.Name())
}

func fromInterface(x any, s Shape, path string) (Value, error) {
	rs := resolve(s)
	if isNilShape(rs) {
		return nil, newCodecError(ErrNilShape, path, nil, "shape", "nil")
	}
	invalid := func(expected string) (Value, error) {
		return nil, newCodecError(ErrTypeMismatch, path, nil, expected, fmt.Sprintf("%T", x))
	}

	switch sh := rs.(type) {
	case *PrimitiveShape:
		return primitiveFromInterface(x, sh, path)

	case *SeqShape:
		items, ok := asSlice(x)
		if !ok {
			return invalid("sequence")
		}
		seq := make(Seq, 0, len(items))
		for i, item := range items {
			v, err := fromInterface(item, sh.elem, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil

	case *TupleShape:
		items, ok := asSlice(x)
		if !ok {
			return invalid("sequence")
		}
		if len(items) != len(sh.elems) {
			return nil, newCodecError(ErrArityMismatch, path, nil, strconv.Itoa(len(sh.elems)), strconv.Itoa(len(items)))
		}
		tup := make(Tuple, len(items))
		for i, item := range items {
			v, err := fromInterface(item, sh.elems[i], indexPath(path, i))
			if err != nil {
				return nil, err
			}
			tup[i] = v
		}
		return tup, nil

	case *RecordShape:
		m, ok := asMap(x)
		if !ok {
			return invalid("mapping")
		}
		return recordFromInterface(m, sh, path)

	case *EnumShape:
		if name, ok := x.(string); ok {
			v, found := sh.variant(name)
			if !found {
				return nil, newCodecError(ErrUnknownVariant, path, nil, sh.name, name)
			}
			if v.Kind != VariantUnit {
				return invalid("mapping")
			}
			return Variant{Name: v.Name}, nil
		}
		m, ok := asMap(x)
		if !ok || len(m) != 1 {
			return invalid("variant name or single-key mapping")
		}
		for name, payload := range m {
			v, found := sh.variant(name)
			if !found {
				return nil, newCodecError(ErrUnknownVariant, path, nil, sh.name, name)
			}
			if v.Kind == VariantUnit {
				return Variant{Name: v.Name}, nil
			}
			pv, err := fromInterface(payload, v.Payload, path+"::"+v.Name)
			if err != nil {
				return nil, err
			}
			return Variant{Name: v.Name, Value: pv}, nil
		}

	case *UntaggedShape:
		var attempts []error
		for _, m := range sh.members {
			v, err := fromInterface(x, m.Shape, path+"::"+m.Name)
			if err == nil {
				return Variant{Name: m.Name, Value: v}, nil
			}
			attempts = append(attempts, err)
		}
		e := newCodecError(ErrNoVariantMatched, path, nil, sh.name, fmt.Sprintf("%T", x))
		e.Attempts = attempts
		return nil, e
	}
	return invalid("known shape")
}

func recordFromInterface(m map[string]any, s *RecordShape, path string) (Value, error) {
	rec := make(Record, len(s.fields))
	seen := 0
	for _, f := range s.fields {
		label := f.Label()
		fpath := path + "." + label
		x, present := m[label]
		if present {
			seen++
		}

		switch f.Kind {
		case FieldPlain, FieldKeyed:
			if !present {
				if f.Kind == FieldKeyed && f.Default != nil {
					rec[f.Name] = f.Default
					continue
				}
				return nil, newCodecError(ErrMissingField, fpath, nil, f.Shape.Name(), "nothing")
			}
			v, err := fromInterface(x, f.Shape, fpath)
			if err != nil {
				return nil, err
			}
			rec[f.Name] = v

		case FieldOptional, FieldOptionalPlain:
			if !present || x == nil {
				rec[f.Name] = None()
				continue
			}
			v, err := fromInterface(x, f.Shape, fpath)
			if err != nil {
				return nil, err
			}
			rec[f.Name] = Some(v)

		case FieldFlag:
			if !present {
				rec[f.Name] = Bool(false)
				continue
			}
			b, ok := x.(bool)
			if !ok {
				return nil, newCodecError(ErrTypeMismatch, fpath, nil, "bool", fmt.Sprintf("%T", x))
			}
			rec[f.Name] = Bool(b)

		case FieldRest:
			if !present {
				rec[f.Name] = Seq{}
				continue
			}
			v, err := fromInterface(x, SeqOf(f.Shape), fpath)
			if err != nil {
				return nil, err
			}
			rec[f.Name] = v
		}
	}

	if seen < len(m) && !s.allowUnknown {
		for key := range m {
			if !hasLabel(s.fields, key) {
				return nil, newCodecError(ErrUnexpectedExtraField, path, nil, s.name+" fields", key)
			}
		}
	}
	return rec, nil
}

func hasLabel(fields []Field, label string) bool {
	for _, f := range fields {
		if f.Label() == label {
			return true
		}
	}
	return false
}

func primitiveFromInterface(x any, s *PrimitiveShape, path string) (Value, error) {
	mismatch := func() (Value, error) {
		return nil, newCodecError(ErrTypeMismatch, path, nil, s.Name(), fmt.Sprintf("%T", x))
	}

	switch s.kind {
	case primBool:
		if b, ok := x.(bool); ok {
			return Bool(b), nil
		}
	case primInt:
		if i, ok := toInt64(x); ok && fitsInt(i, s.bits) {
			return Int(i), nil
		}
	case primUint:
		if u, ok := toUint64(x); ok && fitsUint(u, s.bits) {
			return Uint(u), nil
		}
	case primFloat:
		if f, ok := toFloat64(x); ok {
			return Float(f), nil
		}
	case primString:
		if str, ok := x.(string); ok {
			return String(str), nil
		}
	case primBytes:
		switch b := x.(type) {
		case []byte:
			return Bytes(append([]byte(nil), b...)), nil
		case string:
			raw, err := hex.DecodeString(b)
			if err != nil {
				e := newCodecError(ErrTypeMismatch, path, nil, s.Name(), "string")
				e.Cause = err
				return nil, e
			}
			return Bytes(raw), nil
		}
	}
	return mismatch()
}

func toInt64(x any) (int64, bool) {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

func toUint64(x any) (uint64, bool) {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < 0 {
			return 0, false
		}
		return uint64(i), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return 0, false
		}
		return uint64(f), true
	}
	return 0, false
}

func toFloat64(x any) (float64, bool) {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// asSlice accepts any slice or array other than a byte slice.
func asSlice(x any) ([]any, bool) {
	if items, ok := x.([]any); ok {
		return items, true
	}
	if x == nil {
		return nil, true
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asMap accepts any map, rendering keys with fmt. Decoders such as msgpack
// and older YAML libraries produce map[any]any.
func asMap(x any) (map[string]any, bool) {
	if m, ok := x.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, true
}
