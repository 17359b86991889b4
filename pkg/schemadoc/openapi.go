package schemadoc

import (
	"fmt"
	"sort"

	"github.com/aretw0/conform/pkg/schema"
	"github.com/getkin/kin-openapi/openapi3"
)

// FromOpenAPI converts the component schemas of an OpenAPI 3 document.
//
// Object properties are declared in name order and are optional unless listed
// in "required". "nullable" is ignored. Recursive schemas are rejected since
// schemas here are finite trees.
func FromOpenAPI(data []byte) (map[string]schema.Schema, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return map[string]schema.Schema{}, nil
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]schema.Schema, len(names))
	var problems []string
	for _, name := range names {
		c := &converter{visiting: make(map[*openapi3.Schema]bool)}
		s, err := c.convert(doc.Components.Schemas[name], "#/components/schemas/"+name)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		out[name] = s
	}
	if len(problems) > 0 {
		return nil, &DocumentError{Problems: problems}
	}
	return out, nil
}

type converter struct {
	visiting map[*openapi3.Schema]bool
}

func (c *converter) convert(ref *openapi3.SchemaRef, path string) (schema.Schema, error) {
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%s: empty schema", path)
	}
	s := ref.Value
	if c.visiting[s] {
		return nil, fmt.Errorf("%s: recursive schema %s", path, ref.Ref)
	}
	c.visiting[s] = true
	defer delete(c.visiting, s)

	if len(s.AnyOf) > 0 {
		return c.union(s.AnyOf, path+"/anyOf")
	}
	if len(s.OneOf) > 0 {
		return c.union(s.OneOf, path+"/oneOf")
	}

	var types []string
	for _, t := range s.Type.Slice() {
		if t != openapi3.TypeNull {
			types = append(types, t)
		}
	}

	switch len(types) {
	case 0:
		if len(s.Properties) > 0 {
			return c.convertType(s, openapi3.TypeObject, path)
		}
		return nil, fmt.Errorf("%s: missing type", path)
	case 1:
		return c.convertType(s, types[0], path)
	default:
		members := make([]schema.Schema, 0, len(types))
		for _, t := range types {
			m, err := c.convertType(s, t, path)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return schema.Union(members...), nil
	}
}

func (c *converter) convertType(s *openapi3.Schema, typ, path string) (schema.Schema, error) {
	switch typ {
	case openapi3.TypeString:
		if len(s.Enum) == 0 {
			return schema.String(), nil
		}
		values := make([]string, 0, len(s.Enum))
		for _, v := range s.Enum {
			str, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%s/enum: non-string value %v", path, v)
			}
			values = append(values, str)
		}
		return schema.NewEnum(values)
	case openapi3.TypeNumber, openapi3.TypeInteger:
		return schema.Number(), nil
	case openapi3.TypeBoolean:
		return schema.Boolean(), nil
	case openapi3.TypeArray:
		if s.Items == nil {
			return nil, fmt.Errorf("%s: array without items", path)
		}
		elem, err := c.convert(s.Items, path+"/items")
		if err != nil {
			return nil, err
		}
		return schema.Array(elem), nil
	case openapi3.TypeObject:
		return c.object(s, path)
	default:
		return nil, fmt.Errorf("%s: unsupported type %q", path, typ)
	}
}

func (c *converter) union(refs openapi3.SchemaRefs, path string) (schema.Schema, error) {
	members := make([]schema.Schema, 0, len(refs))
	for i, r := range refs {
		m, err := c.convert(r, fmt.Sprintf("%s/%d", path, i))
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return schema.NewUnion(members)
}

func (c *converter) object(s *openapi3.Schema, path string) (schema.Schema, error) {
	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make([]schema.Property, 0, len(names))
	for _, name := range names {
		ps, err := c.convert(s.Properties[name], path+"/properties/"+name)
		if err != nil {
			return nil, err
		}
		props = append(props, schema.Property{Name: name, Schema: ps, Optional: !required[name]})
	}
	return schema.NewObject(props)
}
