package bind

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/zoobzio/sentinel"
	"github.com/zoobzio/sexpr"
)

const tagName = "sexpr"

func init() {
	sentinel.Tag(tagName)
}

var (
	marshalerType   = reflect.TypeOf((*Marshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	namedType       = reflect.TypeOf((*Named)(nil)).Elem()
	enumType        = reflect.TypeOf((*Enum)(nil)).Elem()
)

// fieldPlan binds one struct field to one record field.
type fieldPlan struct {
	index []int
	field sexpr.Field
}

// structPlan is the cached binding of a struct type.
type structPlan struct {
	shape  sexpr.Shape
	fields []fieldPlan
}

// builder constructs plans for a type and everything it refers to. Plans
// under construction are visible to nested lookups so that recursive types
// resolve through lazy shapes.
type builder struct {
	plans    map[reflect.Type]*structPlan
	building map[reflect.Type]*structPlan
}

func (b *builder) shapeOf(rt reflect.Type) (sexpr.Shape, error) {
	if isMarshaler(rt) {
		if !reflect.PointerTo(rt).Implements(unmarshalerType) {
			return nil, fmt.Errorf("%w: %s implements Marshaler without Unmarshaler", ErrUnsupportedType, rt)
		}
		return reflect.Zero(rt).Interface().(Marshaler).SexprShape(), nil
	}

	switch rt.Kind() {
	case reflect.Bool:
		return sexpr.Boolean(), nil
	case reflect.Int, reflect.Int64:
		return sexpr.Integer(64), nil
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return sexpr.Integer(rt.Bits()), nil
	case reflect.Uint, reflect.Uint64:
		return sexpr.Unsigned(64), nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return sexpr.Unsigned(rt.Bits()), nil
	case reflect.Float32, reflect.Float64:
		return sexpr.Floating(rt.Bits()), nil
	case reflect.String:
		if rt.Implements(enumType) {
			return enumShape(rt)
		}
		return sexpr.Text(), nil
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			return sexpr.Binary(), nil
		}
		elem, err := b.shapeOf(rt.Elem())
		if err != nil {
			return nil, err
		}
		return sexpr.SeqOf(elem), nil
	case reflect.Pointer:
		return b.shapeOf(rt.Elem())
	case reflect.Struct:
		p, err := b.plan(rt)
		if err != nil {
			return nil, err
		}
		if p.shape == nil {
			// Still under construction further up the stack.
			return sexpr.Lazy(func() sexpr.Shape { return p.shape }), nil
		}
		return p.shape, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, rt)
}

func (b *builder) plan(rt reflect.Type) (*structPlan, error) {
	if p, ok := b.plans[rt]; ok {
		return p, nil
	}
	if p, ok := b.building[rt]; ok {
		return p, nil
	}

	p := &structPlan{}
	b.building[rt] = p

	meta := scanType(rt)
	var fields []sexpr.Field
	for _, fm := range meta.Fields {
		tag, ok := fm.Tags[tagName]
		if !ok {
			tag = rt.FieldByIndex(fm.Index).Tag.Get(tagName)
		}
		f, skip, err := b.field(rt, fm, tag)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		p.fields = append(p.fields, fieldPlan{index: fm.Index, field: f})
		fields = append(fields, f)
	}

	rec, err := sexpr.NewRecord(headName(rt), fields...)
	if err != nil {
		return nil, err
	}
	p.shape = rec
	return p, nil
}

func (b *builder) field(owner reflect.Type, fm sentinel.FieldMetadata, tag string) (sexpr.Field, bool, error) {
	name, kind, _ := strings.Cut(tag, ",")
	if name == "-" && kind == "" {
		return sexpr.Field{}, true, nil
	}
	if name == "" {
		name = snakeCase(fm.Name)
	}
	invalid := func(reason string) (sexpr.Field, bool, error) {
		return sexpr.Field{}, false, fmt.Errorf("%w: %s.%s: %s", ErrInvalidTag, owner, fm.Name, reason)
	}

	rt := fm.ReflectType
	switch kind {
	case "", "plain", "keyed":
		s, err := b.shapeOf(rt)
		if err != nil {
			return sexpr.Field{}, false, err
		}
		if kind == "keyed" {
			return sexpr.Keyed(name, s), false, nil
		}
		return sexpr.Plain(name, s), false, nil

	case "optional", "maybe":
		if rt.Kind() != reflect.Pointer {
			return invalid(kind + " field must be a pointer")
		}
		s, err := b.shapeOf(rt.Elem())
		if err != nil {
			return sexpr.Field{}, false, err
		}
		if kind == "optional" {
			return sexpr.Optional(name, s), false, nil
		}
		return sexpr.OptionalPlain(name, s), false, nil

	case "flag":
		if rt.Kind() != reflect.Bool {
			return invalid("flag field must be a bool")
		}
		return sexpr.Flag(name), false, nil

	case "rest":
		if rt.Kind() != reflect.Slice || rt.Elem().Kind() == reflect.Uint8 {
			return invalid("rest field must be a slice")
		}
		s, err := b.shapeOf(rt.Elem())
		if err != nil {
			return sexpr.Field{}, false, err
		}
		return sexpr.Rest(s).Labeled(name), false, nil
	}
	return invalid("unknown kind " + kind)
}

// scanType returns field metadata for a struct type. Types sentinel has
// already scanned come from its cache; others are read with reflect.
func scanType(rt reflect.Type) sentinel.Metadata {
	exported := 0
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).IsExported() {
			exported++
		}
	}
	if meta, ok := sentinel.Lookup(rt.String()); ok && len(meta.Fields) == exported {
		return meta
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, exported),
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        make(map[string]string),
		}
		if v, ok := sf.Tag.Lookup(tagName); ok {
			fm.Tags[tagName] = v
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		meta.Fields = append(meta.Fields, fm)
	}
	return meta
}

func enumShape(rt reflect.Type) (sexpr.Shape, error) {
	names := reflect.Zero(rt).Interface().(Enum).SexprVariants()
	variants := make([]sexpr.VariantShape, len(names))
	for i, n := range names {
		variants[i] = sexpr.UnitVariant(n)
	}
	enum, err := sexpr.NewEnum(headName(rt), variants...)
	if err != nil {
		return nil, err
	}
	return enum, nil
}

// isMarshaler reports whether values of rt supply their own shape. Pointer
// types are unwrapped first, so only the element type is considered.
func isMarshaler(rt reflect.Type) bool {
	return rt.Kind() != reflect.Pointer && rt.Implements(marshalerType)
}

// headName is the list head for a struct or the name of an enum.
func headName(rt reflect.Type) string {
	switch {
	case rt.Implements(namedType):
		return reflect.Zero(rt).Interface().(Named).SexprName()
	case reflect.PointerTo(rt).Implements(namedType):
		return reflect.New(rt).Interface().(Named).SexprName()
	}
	return snakeCase(rt.Name())
}

// snakeCase converts a Go identifier such as LibraryLink or HTTPServer to
// library_link or http_server.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
