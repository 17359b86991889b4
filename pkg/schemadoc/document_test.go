package schemadoc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/conform/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderDoc = `
type: object
properties:
  number: { type: number }
  optional: { type: string, optional: true }
`

func TestParse_Object(t *testing.T) {
	s, err := Parse([]byte(orderDoc))
	require.NoError(t, err)

	assert.Equal(t, schema.KindObject, s.Kind())
	assert.True(t, schema.Validate(s, map[string]any{"number": 1}).Success())
	assert.Equal(t,
		"property [number]: should be provided, property [optional]: should be string",
		schema.Validate(s, map[string]any{"optional": true}).Description())
}

func TestParse_AllVariants(t *testing.T) {
	doc := `
type: object
properties:
  id:
    type: union
    members:
      - { type: number }
      - { type: string }
  status: { type: enum, values: [open, closed] }
  tags:
    type: array
    items: { type: string }
  flags: { type: object, optional: true }
  done: { type: boolean }
`
	s, err := Parse([]byte(doc))
	require.NoError(t, err)

	obj := s.(*schema.ObjectType)
	var names []string
	for _, p := range obj.Properties() {
		names = append(names, p.Name+":"+schema.Describe(p.Schema))
	}
	assert.Equal(t, []string{
		"id:number | string",
		`status:"open" | "closed"`,
		"tags:Array<string>",
		"flags:object",
		"done:boolean",
	}, names)

	p, ok := obj.Property("flags")
	require.True(t, ok)
	assert.True(t, p.Optional)
}

func TestParse_JSON(t *testing.T) {
	s, err := Parse([]byte(`{"type": "array", "items": {"type": "enum", "values": ["a", "b"]}}`))
	require.NoError(t, err)
	assert.Equal(t, `Array<"a" | "b">`, schema.Describe(s))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		desc string
		doc  string
		want string
	}{
		{"empty", "", "empty document"},
		{"not yaml", "type: [", ""},
		{"missing type", "properties: {}", "type"},
		{"unknown type", "type: date", "type"},
		{"enum without values", "type: enum", "values"},
		{"empty enum", "type: enum\nvalues: []", "values"},
		{"array without items", "type: array", "items"},
		{"empty union", "type: union\nmembers: []", "members"},
		{"unknown key", "type: string\nformat: email", "format"},
		{"non-string enum value", "type: enum\nvalues: [1]", "values"},
		{"top-level optional", "type: string\noptional: true", "optional"},
		{"optional array items", "type: array\nitems: { type: string, optional: true }", "optional"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)

			var docErr *DocumentError
			require.True(t, errors.As(err, &docErr), "error should be *DocumentError, got %T", err)
			assert.NotEmpty(t, docErr.Problems)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_ReportsAllProblems(t *testing.T) {
	doc := `
type: object
properties:
  a: { type: enum }
  b: { type: array }
`
	_, err := Parse([]byte(doc))
	var docErr *DocumentError
	require.True(t, errors.As(err, &docErr))
	assert.GreaterOrEqual(t, len(docErr.Problems), 2)
}

func TestMarshal_RoundTrip(t *testing.T) {
	original := schema.Object(
		schema.Prop("z", schema.Number()),
		schema.Optional("a", schema.Union(schema.String(), schema.Boolean())),
		schema.Prop("list", schema.Array(schema.Enum("true", "1", "x y"))),
		schema.Prop("empty", schema.Object()),
	)

	data, err := Marshal(original)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err, "document:\n%s", data)

	again, err := Marshal(parsed)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))

	assert.True(t, strings.Index(string(data), "z:") < strings.Index(string(data), "a:"), "property order lost:\n%s", data)
	p, ok := parsed.(*schema.ObjectType).Property("a")
	require.True(t, ok)
	assert.True(t, p.Optional)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "order.yaml")
	require.NoError(t, os.WriteFile(path, []byte(orderDoc), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, schema.KindObject, s.Kind())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestMetaSchema(t *testing.T) {
	assert.Contains(t, string(MetaSchema()), "draft-07")
}
