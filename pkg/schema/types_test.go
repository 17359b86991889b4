package schema

import (
	"errors"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNumber, "number"},
		{KindString, "string"},
		{KindBoolean, "boolean"},
		{KindEnum, "enum"},
		{KindArray, "array"},
		{KindUnion, "union"},
		{KindObject, "object"},
		{Kind(42), "Kind(42)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestFactoryKinds(t *testing.T) {
	tests := []struct {
		schema Schema
		want   Kind
	}{
		{Number(), KindNumber},
		{String(), KindString},
		{Boolean(), KindBoolean},
		{Enum("a"), KindEnum},
		{Array(Number()), KindArray},
		{Union(Number(), String()), KindUnion},
		{Object(Prop("a", Number())), KindObject},
		{Object(), KindObject},
	}

	for _, tt := range tests {
		if got := tt.schema.Kind(); got != tt.want {
			t.Errorf("%T.Kind() = %v, want %v", tt.schema, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		schema Schema
		want   string
	}{
		{Number(), "number"},
		{String(), "string"},
		{Boolean(), "boolean"},
		{Enum("a", "b"), `"a" | "b"`},
		{Enum(`say "hi"`), `"say \"hi\""`},
		{Array(Number()), "Array<number>"},
		{Array(Array(String())), "Array<Array<string>>"},
		{Array(Union(Number(), String())), "Array<number | string>"},
		{Union(Number(), Enum("x")), `number | "x"`},
		{Object(Prop("a", Number())), "object"},
	}

	for _, tt := range tests {
		if got := Describe(tt.schema); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}

func TestNewEnum_Empty(t *testing.T) {
	if _, err := NewEnum(nil); !errors.Is(err, ErrEmptyEnum) {
		t.Errorf("NewEnum(nil) error = %v, want %v", err, ErrEmptyEnum)
	}
}

func TestNewUnion_Invalid(t *testing.T) {
	if _, err := NewUnion(nil); !errors.Is(err, ErrEmptyUnion) {
		t.Errorf("NewUnion(nil) error = %v, want %v", err, ErrEmptyUnion)
	}
	if _, err := NewUnion([]Schema{Number(), nil}); !errors.Is(err, ErrNilSchema) {
		t.Errorf("NewUnion(nil member) error = %v, want %v", err, ErrNilSchema)
	}
}

func TestNewObject_Invalid(t *testing.T) {
	tests := []struct {
		props []Property
		want  error
	}{
		{[]Property{Prop("", Number())}, ErrEmptyPropertyName},
		{[]Property{Prop("a", nil)}, ErrNilSchema},
		{[]Property{Prop("a", Number()), Optional("a", String())}, ErrDuplicateProperty},
	}

	for _, tt := range tests {
		if _, err := NewObject(tt.props); !errors.Is(err, tt.want) {
			t.Errorf("NewObject(%v) error = %v, want %v", tt.props, err, tt.want)
		}
	}
}

func TestConstructorsPanic(t *testing.T) {
	tests := []struct {
		desc  string
		build func()
	}{
		{"empty enum", func() { Enum() }},
		{"empty union", func() { Union() }},
		{"nil array element", func() { Array(nil) }},
		{"duplicate property", func() { Object(Prop("a", Number()), Prop("a", Number())) }},
	}

	for _, tt := range tests {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", tt.desc)
				}
			}()
			tt.build()
		}()
	}
}

func TestConstructorsCopyInput(t *testing.T) {
	values := []string{"a", "b"}
	enum, err := NewEnum(values)
	if err != nil {
		t.Fatalf("NewEnum() error = %v", err)
	}
	values[0] = "z"

	if got := enum.(*EnumType).Values(); got[0] != "a" {
		t.Errorf("enum values changed through caller slice: %v", got)
	}

	got := enum.(*EnumType).Values()
	got[1] = "z"
	if Describe(enum) != `"a" | "b"` {
		t.Errorf("enum values changed through accessor: %s", Describe(enum))
	}

	props := []Property{Prop("a", Number())}
	obj, err := NewObject(props)
	if err != nil {
		t.Fatalf("NewObject() error = %v", err)
	}
	props[0].Optional = true

	p, ok := obj.(*ObjectType).Property("a")
	if !ok || p.Optional {
		t.Errorf("object property changed through caller slice: %+v", p)
	}
}

func TestObjectProperties_Order(t *testing.T) {
	obj := Object(Prop("z", Number()), Optional("a", String()), Prop("m", Boolean())).(*ObjectType)

	var names []string
	for _, p := range obj.Properties() {
		names = append(names, p.Name)
	}

	want := []string{"z", "a", "m"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Properties() order = %v, want %v", names, want)
		}
	}
}
