package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a schema variant.
type Kind int

const (
	KindNumber Kind = iota + 1
	KindString
	KindBoolean
	KindEnum
	KindArray
	KindUnion
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindUnion:
		return "union"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Construction errors. These signal a bug in the code building the schema,
// never a problem with the data being validated.
var (
	ErrEmptyEnum         = errors.New("schema: enum requires at least one value")
	ErrEmptyUnion        = errors.New("schema: union requires at least one member")
	ErrNilSchema         = errors.New("schema: nil schema")
	ErrEmptyPropertyName = errors.New("schema: empty property name")
	ErrDuplicateProperty = errors.New("schema: duplicate property")
)

// Schema describes the shape of an accepted value.
//
// The set of implementations is closed: only the types in this package
// satisfy it, and Validate handles each of them. Schemas are immutable and
// may be shared freely between goroutines.
type Schema interface {
	// Kind reports which variant this schema is.
	Kind() Kind
	sealed()
}

// --- Variants ---

// NumberType accepts any Go numeric value.
type NumberType struct{}

func (*NumberType) Kind() Kind { return KindNumber }
func (*NumberType) sealed()    {}

// StringType accepts string values.
type StringType struct{}

func (*StringType) Kind() Kind { return KindString }
func (*StringType) sealed()    {}

// BooleanType accepts bool values.
type BooleanType struct{}

func (*BooleanType) Kind() Kind { return KindBoolean }
func (*BooleanType) sealed()    {}

// EnumType accepts one of a fixed set of string literals.
type EnumType struct {
	values []string
}

func (*EnumType) Kind() Kind { return KindEnum }
func (*EnumType) sealed()    {}

// Values returns the accepted literals in declaration order.
func (t *EnumType) Values() []string {
	return append([]string(nil), t.values...)
}

func (t *EnumType) contains(s string) bool {
	for _, v := range t.values {
		if v == s {
			return true
		}
	}
	return false
}

// ArrayType accepts sequences whose elements all match Elem.
type ArrayType struct {
	elem Schema
}

func (*ArrayType) Kind() Kind { return KindArray }
func (*ArrayType) sealed()    {}

// Elem returns the element schema.
func (t *ArrayType) Elem() Schema { return t.elem }

// UnionType accepts values matching at least one member.
type UnionType struct {
	members []Schema
}

func (*UnionType) Kind() Kind { return KindUnion }
func (*UnionType) sealed()    {}

// Members returns the member schemas in declaration order.
func (t *UnionType) Members() []Schema {
	return append([]Schema(nil), t.members...)
}

// Property is a named slot of an object schema.
type Property struct {
	Name     string
	Schema   Schema
	Optional bool
}

// ObjectType accepts structural records carrying the declared properties.
// Undeclared properties are ignored.
type ObjectType struct {
	props []Property
}

func (*ObjectType) Kind() Kind { return KindObject }
func (*ObjectType) sealed()    {}

// Properties returns the declared properties in declaration order.
func (t *ObjectType) Properties() []Property {
	return append([]Property(nil), t.props...)
}

// Property looks up a declared property by name.
func (t *ObjectType) Property(name string) (Property, bool) {
	for _, p := range t.props {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// --- Factory Functions ---

var (
	numberSchema  = &NumberType{}
	stringSchema  = &StringType{}
	booleanSchema = &BooleanType{}
)

// Number creates a number schema.
func Number() Schema { return numberSchema }

// String creates a string schema.
func String() Schema { return stringSchema }

// Boolean creates a boolean schema.
func Boolean() Schema { return booleanSchema }

// NewEnum creates an enum schema over the given literals.
func NewEnum(values []string) (Schema, error) {
	if len(values) == 0 {
		return nil, ErrEmptyEnum
	}
	return &EnumType{values: append([]string(nil), values...)}, nil
}

// Enum is like NewEnum but panics when no value is given.
func Enum(values ...string) Schema {
	return must(NewEnum(values))
}

// Array creates an array schema. It panics if elem is nil.
func Array(elem Schema) Schema {
	if elem == nil {
		panic(fmt.Errorf("array element: %w", ErrNilSchema))
	}
	return &ArrayType{elem: elem}
}

// NewUnion creates a union schema. Members are tried in the given order.
func NewUnion(members []Schema) (Schema, error) {
	if len(members) == 0 {
		return nil, ErrEmptyUnion
	}
	for i, m := range members {
		if m == nil {
			return nil, fmt.Errorf("union member %d: %w", i, ErrNilSchema)
		}
	}
	return &UnionType{members: append([]Schema(nil), members...)}, nil
}

// Union is like NewUnion but panics on an invalid member list.
func Union(members ...Schema) Schema {
	return must(NewUnion(members))
}

// Prop declares a required object property.
func Prop(name string, s Schema) Property {
	return Property{Name: name, Schema: s}
}

// Optional declares an object property that may be absent.
// When present it must match s.
func Optional(name string, s Schema) Property {
	return Property{Name: name, Schema: s, Optional: true}
}

// NewObject creates an object schema. Property order is kept and decides the
// order in which property errors are reported.
func NewObject(props []Property) (Schema, error) {
	seen := make(map[string]struct{}, len(props))
	for _, p := range props {
		if p.Name == "" {
			return nil, ErrEmptyPropertyName
		}
		if p.Schema == nil {
			return nil, fmt.Errorf("property %s: %w", p.Name, ErrNilSchema)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProperty, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return &ObjectType{props: append([]Property(nil), props...)}, nil
}

// Object is like NewObject but panics on an invalid property list.
func Object(props ...Property) Schema {
	return must(NewObject(props))
}

func must(s Schema, err error) Schema {
	if err != nil {
		panic(err)
	}
	return s
}

// Describe renders the kind of value a schema expects, as used in messages:
// "number", `"a" | "b"`, "Array<string>", "number | string", "object".
func Describe(s Schema) string {
	switch t := s.(type) {
	case *NumberType, *StringType, *BooleanType, *ObjectType:
		return t.Kind().String()
	case *EnumType:
		return quoteJoin(t.values)
	case *ArrayType:
		return "Array<" + Describe(t.elem) + ">"
	case *UnionType:
		return describeAll(t.members)
	default:
		panic(fmt.Sprintf("schema: unknown schema type %T", s))
	}
}

func describeAll(members []Schema) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = Describe(m)
	}
	return strings.Join(parts, " | ")
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return strings.Join(quoted, " | ")
}
