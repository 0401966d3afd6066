package bind

import (
	"fmt"
	"reflect"

	"github.com/zoobzio/sexpr"
)

// ToValue converts a Go value into a sexpr.Value of its type's shape.
func ToValue(v any) (sexpr.Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedType)
	}
	if _, err := ShapeFor(rv.Type()); err != nil {
		return nil, err
	}
	return toValue(rv)
}

// FromValue stores v into the value target points to.
func FromValue(v sexpr.Value, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotPointer
	}
	if _, err := ShapeFor(rv.Type().Elem()); err != nil {
		return err
	}
	return fromValue(v, rv.Elem())
}

// toValue returns nil for a nil pointer so that the encoder reports the
// missing field with its path.
func toValue(rv reflect.Value) (sexpr.Value, error) {
	rt := rv.Type()
	if isMarshaler(rt) {
		return rv.Interface().(Marshaler).MarshalSexpr()
	}

	switch rt.Kind() {
	case reflect.Bool:
		return sexpr.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return sexpr.Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return sexpr.Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return sexpr.Float(rv.Float()), nil
	case reflect.String:
		if rt.Implements(enumType) {
			return sexpr.Variant{Name: rv.String()}, nil
		}
		return sexpr.String(rv.String()), nil
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			return sexpr.Bytes(append([]byte(nil), rv.Bytes()...)), nil
		}
		return seqValue(rv)
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return toValue(rv.Elem())
	case reflect.Struct:
		return recordValue(rv)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, rt)
}

func seqValue(rv reflect.Value) (sexpr.Value, error) {
	seq := make(sexpr.Seq, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := toValue(rv.Index(i))
		if err != nil {
			return nil, err
		}
		seq = append(seq, v)
	}
	return seq, nil
}

func recordValue(rv reflect.Value) (sexpr.Value, error) {
	p, err := planFor(rv.Type())
	if err != nil {
		return nil, err
	}

	rec := make(sexpr.Record, len(p.fields))
	for _, fp := range p.fields {
		fv := rv.FieldByIndex(fp.index)
		switch fp.field.Kind {
		case sexpr.FieldOptional, sexpr.FieldOptionalPlain:
			if fv.IsNil() {
				rec[fp.field.Name] = sexpr.None()
				continue
			}
			v, err := toValue(fv.Elem())
			if err != nil {
				return nil, err
			}
			rec[fp.field.Name] = sexpr.Some(v)
		default:
			v, err := toValue(fv)
			if err != nil {
				return nil, err
			}
			if v != nil {
				rec[fp.field.Name] = v
			}
		}
	}
	return rec, nil
}

func fromValue(v sexpr.Value, rv reflect.Value) error {
	rt := rv.Type()
	mismatch := func() error {
		return fmt.Errorf("%w: %s from %T", ErrValueMismatch, rt, v)
	}

	if isMarshaler(rt) {
		return rv.Addr().Interface().(Unmarshaler).UnmarshalSexpr(v)
	}

	switch rt.Kind() {
	case reflect.Bool:
		b, ok := v.(sexpr.Bool)
		if !ok {
			return mismatch()
		}
		rv.SetBool(bool(b))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := v.(sexpr.Int)
		if !ok || rv.OverflowInt(int64(i)) {
			return mismatch()
		}
		rv.SetInt(int64(i))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, ok := v.(sexpr.Uint)
		if !ok || rv.OverflowUint(uint64(u)) {
			return mismatch()
		}
		rv.SetUint(uint64(u))

	case reflect.Float32, reflect.Float64:
		f, ok := v.(sexpr.Float)
		if !ok {
			return mismatch()
		}
		rv.SetFloat(float64(f))

	case reflect.String:
		switch x := v.(type) {
		case sexpr.String:
			rv.SetString(string(x))
		case sexpr.Variant:
			if !rt.Implements(enumType) {
				return mismatch()
			}
			rv.SetString(x.Name)
		default:
			return mismatch()
		}

	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			b, ok := v.(sexpr.Bytes)
			if !ok {
				return mismatch()
			}
			rv.SetBytes(append([]byte(nil), b...))
			return nil
		}
		seq, ok := v.(sexpr.Seq)
		if !ok {
			return mismatch()
		}
		out := reflect.MakeSlice(rt, len(seq), len(seq))
		for i, elem := range seq {
			if err := fromValue(elem, out.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)

	case reflect.Pointer:
		ptr := reflect.New(rt.Elem())
		if err := fromValue(v, ptr.Elem()); err != nil {
			return err
		}
		rv.Set(ptr)

	case reflect.Struct:
		rec, ok := v.(sexpr.Record)
		if !ok {
			return mismatch()
		}
		return fromRecord(rec, rv)

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, rt)
	}
	return nil
}

func fromRecord(rec sexpr.Record, rv reflect.Value) error {
	p, err := planFor(rv.Type())
	if err != nil {
		return err
	}

	for _, fp := range p.fields {
		v, ok := rec[fp.field.Name]
		if !ok {
			continue
		}
		fv := rv.FieldByIndex(fp.index)

		switch fp.field.Kind {
		case sexpr.FieldOptional, sexpr.FieldOptionalPlain:
			opt, ok := v.(sexpr.Option)
			if !ok {
				return fmt.Errorf("%w: %s from %T", ErrValueMismatch, fv.Type(), v)
			}
			if !opt.Valid {
				fv.Set(reflect.Zero(fv.Type()))
				continue
			}
			v = opt.Value
		}
		if err := fromValue(v, fv); err != nil {
			return fmt.Errorf("%s: %w", fp.field.Label(), err)
		}
	}
	return nil
}
