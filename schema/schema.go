// Package schema loads shape definitions from YAML documents.
//
// A schema document names each shape once and refers to other shapes by
// name, so shapes may be recursive:
//
//	shapes:
//	  at:
//	    record:
//	      - {name: x, type: f32}
//	      - {name: y, type: f32}
//	      - {name: rot, type: i16, kind: maybe}
//	  pad_type:
//	    enum: [thru-hole, smd]
//	  footprint:
//	    record:
//	      - {name: library_link, type: string}
//	      - {name: pads, type: pad, kind: rest}
//
// Type references are primitive names (bool, i8 to i64, u8 to u64, f32, f64,
// string, bytes, literal), definition names, or []T for a sequence of T.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/zoobzio/sexpr"
	"gopkg.in/yaml.v3"
)

// Schema errors.
var (
	ErrUnknownShape      = errors.New("unknown shape")
	ErrUnknownType       = errors.New("unknown type")
	ErrInvalidDefinition = errors.New("invalid definition")
)

// Document is the YAML form of a schema.
type Document struct {
	Shapes map[string]Definition `yaml:"shapes"`
}

// Definition describes one shape. Exactly one of Record, Tuple, Enum and
// Untagged must be set.
type Definition struct {
	Head         string       `yaml:"head,omitempty"`
	Record       []FieldDef   `yaml:"record,omitempty"`
	Tuple        []string     `yaml:"tuple,omitempty"`
	Enum         []VariantDef `yaml:"enum,omitempty"`
	Untagged     []MemberDef  `yaml:"untagged,omitempty"`
	AllowUnknown bool         `yaml:"allow_unknown,omitempty"`
}

// FieldDef describes a record field. Kind is plain when empty. Default holds
// S-expression text used when a keyed field is absent.
type FieldDef struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type,omitempty"`
	Kind    string `yaml:"kind,omitempty"`
	Default string `yaml:"default,omitempty"`
}

// VariantDef describes an enum variant. A bare string is a unit variant.
type VariantDef struct {
	Name   string     `yaml:"name"`
	Type   string     `yaml:"type,omitempty"`
	Record []FieldDef `yaml:"record,omitempty"`
}

// UnmarshalYAML accepts either a variant name or a mapping.
func (v *VariantDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		v.Name = node.Value
		return nil
	}
	type plain VariantDef
	return node.Decode((*plain)(v))
}

// MemberDef describes one member of an untagged group.
type MemberDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

var primitives = map[string]func() sexpr.Shape{
	"bool":    func() sexpr.Shape { return sexpr.Boolean() },
	"i8":      func() sexpr.Shape { return sexpr.Integer(8) },
	"i16":     func() sexpr.Shape { return sexpr.Integer(16) },
	"i32":     func() sexpr.Shape { return sexpr.Integer(32) },
	"i64":     func() sexpr.Shape { return sexpr.Integer(64) },
	"u8":      func() sexpr.Shape { return sexpr.Unsigned(8) },
	"u16":     func() sexpr.Shape { return sexpr.Unsigned(16) },
	"u32":     func() sexpr.Shape { return sexpr.Unsigned(32) },
	"u64":     func() sexpr.Shape { return sexpr.Unsigned(64) },
	"f32":     func() sexpr.Shape { return sexpr.Floating(32) },
	"f64":     func() sexpr.Shape { return sexpr.Floating(64) },
	"string":  func() sexpr.Shape { return sexpr.Text() },
	"bytes":   func() sexpr.Shape { return sexpr.Binary() },
	"literal": func() sexpr.Shape { return sexpr.Literal },
}

// Schema is a set of named shapes.
type Schema struct {
	defs   map[string]Definition
	shapes map[string]sexpr.Shape
}

// LoadFile reads a schema document from path.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Load(data)
}

// Load parses a schema document and builds every shape it defines.
func Load(data []byte) (*Schema, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	// Defaults are decoded against a draft built without them.
	draft, err := compile(doc, nil)
	if err != nil {
		return nil, err
	}
	return compile(doc, draft)
}

func compile(doc Document, draft *Schema) (*Schema, error) {
	s := &Schema{
		defs:   doc.Shapes,
		shapes: make(map[string]sexpr.Shape, len(doc.Shapes)),
	}
	for _, name := range sortedKeys(doc.Shapes) {
		shape, err := s.build(name, doc.Shapes[name], draft)
		if err != nil {
			return nil, fmt.Errorf("shape %s: %w", name, err)
		}
		s.shapes[name] = shape
	}
	return s, nil
}

// Shape returns the shape called name.
func (s *Schema) Shape(name string) (sexpr.Shape, error) {
	shape, ok := s.shapes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, name)
	}
	return shape, nil
}

// Names returns the defined shape names in sorted order.
func (s *Schema) Names() []string {
	return sortedKeys(s.defs)
}

func (s *Schema) build(name string, def Definition, draft *Schema) (sexpr.Shape, error) {
	set := 0
	for _, present := range []bool{def.Record != nil, def.Tuple != nil, def.Enum != nil, def.Untagged != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: exactly one of record, tuple, enum or untagged is required", ErrInvalidDefinition)
	}

	head := def.Head
	if head == "" {
		head = name
	}

	switch {
	case def.Record != nil:
		fields, err := s.fields(def.Record, draft)
		if err != nil {
			return nil, err
		}
		rec, err := sexpr.NewRecord(head, fields...)
		if err != nil {
			return nil, err
		}
		if def.AllowUnknown {
			rec = rec.WithUnknown()
		}
		return rec, nil

	case def.Tuple != nil:
		elems := make([]sexpr.Shape, len(def.Tuple))
		for i, t := range def.Tuple {
			shape, err := s.typeRef(t)
			if err != nil {
				return nil, err
			}
			elems[i] = shape
		}
		return sexpr.NewTuple(head, elems...), nil

	case def.Enum != nil:
		variants := make([]sexpr.VariantShape, len(def.Enum))
		for i, v := range def.Enum {
			switch {
			case v.Record != nil:
				fields, err := s.fields(v.Record, draft)
				if err != nil {
					return nil, err
				}
				variants[i] = sexpr.StructVariant(v.Name, fields...)
			case v.Type != "":
				payload, err := s.typeRef(v.Type)
				if err != nil {
					return nil, err
				}
				variants[i] = sexpr.NewtypeVariant(v.Name, payload)
			default:
				variants[i] = sexpr.UnitVariant(v.Name)
			}
		}
		enum, err := sexpr.NewEnum(head, variants...)
		if err != nil {
			return nil, err
		}
		return enum, nil

	default:
		members := make([]sexpr.Member, len(def.Untagged))
		for i, m := range def.Untagged {
			shape, err := s.typeRef(m.Type)
			if err != nil {
				return nil, err
			}
			members[i] = sexpr.Member{Name: m.Name, Shape: shape}
		}
		group, err := sexpr.NewUntagged(head, members...)
		if err != nil {
			return nil, err
		}
		return group, nil
	}
}

func (s *Schema) fields(defs []FieldDef, draft *Schema) ([]sexpr.Field, error) {
	fields := make([]sexpr.Field, 0, len(defs))
	for _, fd := range defs {
		if fd.Kind == "flag" {
			fields = append(fields, sexpr.Flag(fd.Name))
			continue
		}

		shape, err := s.typeRef(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fd.Name, err)
		}

		var f sexpr.Field
		switch fd.Kind {
		case "", "plain":
			f = sexpr.Plain(fd.Name, shape)
		case "keyed":
			f = sexpr.Keyed(fd.Name, shape)
		case "optional":
			f = sexpr.Optional(fd.Name, shape)
		case "maybe":
			f = sexpr.OptionalPlain(fd.Name, shape)
		case "rest":
			f = sexpr.Rest(shape).Labeled(fd.Name)
		default:
			return nil, fmt.Errorf("%w: field %s has unknown kind %q", ErrInvalidDefinition, fd.Name, fd.Kind)
		}

		if fd.Default != "" {
			if fd.Kind != "keyed" {
				return nil, fmt.Errorf("%w: field %s: only keyed fields take a default", ErrInvalidDefinition, fd.Name)
			}
			if draft != nil {
				v, err := draft.decodeDefault(fd)
				if err != nil {
					return nil, fmt.Errorf("field %s default: %w", fd.Name, err)
				}
				f = f.WithDefault(v)
			}
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (s *Schema) decodeDefault(fd FieldDef) (sexpr.Value, error) {
	shape, err := s.typeRef(fd.Type)
	if err != nil {
		return nil, err
	}
	n, err := sexpr.Parse(fd.Default)
	if err != nil {
		return nil, err
	}
	return sexpr.Decode(n, shape)
}

// typeRef resolves a type reference. Definitions are referenced lazily so
// they may refer to each other in any order.
func (s *Schema) typeRef(t string) (sexpr.Shape, error) {
	if elem, ok := strings.CutPrefix(t, "[]"); ok {
		shape, err := s.typeRef(elem)
		if err != nil {
			return nil, err
		}
		return sexpr.SeqOf(shape), nil
	}
	if prim, ok := primitives[t]; ok {
		return prim(), nil
	}
	if _, ok := s.defs[t]; ok {
		return sexpr.Lazy(func() sexpr.Shape { return s.shapes[t] }), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

func sortedKeys(m map[string]Definition) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
