package schemadoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/conform/pkg/schema"
	"gopkg.in/yaml.v3"
)

// DocumentError reports every problem found in a schema document.
type DocumentError struct {
	Problems []string
}

func (e *DocumentError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid schema document: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid schema document: %d problems:\n- %s", len(e.Problems), strings.Join(e.Problems, "\n- "))
}

func problem(format string, args ...any) error {
	return &DocumentError{Problems: []string{fmt.Sprintf(format, args...)}}
}

// Load reads and parses the schema document at path.
func Load(path string) (schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema document: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse builds a schema from a YAML or JSON document.
func Parse(data []byte) (schema.Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, problem("%v", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, problem("empty document")
	}
	root := doc.Content[0]

	if err := checkDocument(root); err != nil {
		return nil, err
	}

	s, optional, err := build(root, "")
	if err != nil {
		return nil, err
	}
	if optional {
		return nil, problem("/: optional is only allowed on object properties")
	}
	return s, nil
}

// checkDocument validates the raw document against the embedded meta-schema.
func checkDocument(root *yaml.Node) error {
	var generic any
	if err := root.Decode(&generic); err != nil {
		return problem("%v", err)
	}
	// Round-trip through JSON so the instance only holds JSON types.
	raw, err := json.Marshal(generic)
	if err != nil {
		return problem("%v", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return problem("%v", err)
	}

	meta, err := compiledMetaSchema()
	if err != nil {
		return fmt.Errorf("meta-schema: %w", err)
	}
	return checkInstance(meta, instance)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// fields returns the mapping entries of n keyed by name, plus the key order.
func fields(n *yaml.Node) (map[string]*yaml.Node, []string) {
	n = resolve(n)
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	order := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		out[key] = resolve(n.Content[i+1])
		order = append(order, key)
	}
	return out, order
}

func build(n *yaml.Node, path string) (schema.Schema, bool, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return nil, false, problem("%s: expected a mapping", pathOrRoot(path))
	}
	f, _ := fields(n)

	var optional bool
	if o, ok := f["optional"]; ok {
		if err := o.Decode(&optional); err != nil {
			return nil, false, problem("%s/optional: %v", pathOrRoot(path), err)
		}
	}

	typ, ok := f["type"]
	if !ok {
		return nil, false, problem("%s: missing type", pathOrRoot(path))
	}

	var (
		s   schema.Schema
		err error
	)
	switch typ.Value {
	case "number":
		s = schema.Number()
	case "string":
		s = schema.String()
	case "boolean":
		s = schema.Boolean()
	case "enum":
		s, err = buildEnum(f["values"], path+"/values")
	case "array":
		s, err = buildElement(f["items"], path+"/items")
	case "union":
		s, err = buildUnion(f["members"], path+"/members")
	case "object":
		s, err = buildObject(f["properties"], path+"/properties")
	default:
		err = problem("%s/type: unknown type %q", pathOrRoot(path), typ.Value)
	}
	if err != nil {
		return nil, false, err
	}
	return s, optional, nil
}

func buildEnum(n *yaml.Node, path string) (schema.Schema, error) {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil, problem("%s: expected a list of strings", path)
	}
	values := make([]string, 0, len(n.Content))
	for _, v := range n.Content {
		values = append(values, resolve(v).Value)
	}
	s, err := schema.NewEnum(values)
	if err != nil {
		return nil, problem("%s: %v", path, err)
	}
	return s, nil
}

func buildElement(n *yaml.Node, path string) (schema.Schema, error) {
	if n == nil {
		return nil, problem("%s: missing", path)
	}
	elem, optional, err := build(n, path)
	if err != nil {
		return nil, err
	}
	if optional {
		return nil, problem("%s: optional is only allowed on object properties", path)
	}
	return schema.Array(elem), nil
}

func buildUnion(n *yaml.Node, path string) (schema.Schema, error) {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil, problem("%s: expected a list of schemas", path)
	}
	members := make([]schema.Schema, 0, len(n.Content))
	for i, m := range n.Content {
		memberPath := fmt.Sprintf("%s/%d", path, i)
		s, optional, err := build(m, memberPath)
		if err != nil {
			return nil, err
		}
		if optional {
			return nil, problem("%s: optional is only allowed on object properties", memberPath)
		}
		members = append(members, s)
	}
	s, err := schema.NewUnion(members)
	if err != nil {
		return nil, problem("%s: %v", path, err)
	}
	return s, nil
}

func buildObject(n *yaml.Node, path string) (schema.Schema, error) {
	var props []schema.Property
	if n != nil {
		n = resolve(n)
		if n.Kind != yaml.MappingNode {
			return nil, problem("%s: expected a mapping", path)
		}
		f, order := fields(n)
		props = make([]schema.Property, 0, len(order))
		for _, name := range order {
			s, optional, err := build(f[name], path+"/"+name)
			if err != nil {
				return nil, err
			}
			props = append(props, schema.Property{Name: name, Schema: s, Optional: optional})
		}
	}
	s, err := schema.NewObject(props)
	if err != nil {
		return nil, problem("%s: %v", path, err)
	}
	return s, nil
}

func pathOrRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// Marshal encodes s as a YAML schema document that Parse accepts.
func Marshal(s schema.Schema) ([]byte, error) {
	node, err := encode(s, false)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to encode schema document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode schema document: %w", err)
	}
	return buf.Bytes(), nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func encode(s schema.Schema, optional bool) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		n.Content = append(n.Content, scalar(key), value)
	}
	add("type", scalar(s.Kind().String()))

	switch t := s.(type) {
	case *schema.NumberType, *schema.StringType, *schema.BooleanType:
	case *schema.EnumType:
		values := &yaml.Node{Kind: yaml.SequenceNode}
		for _, v := range t.Values() {
			values.Content = append(values.Content, scalar(v))
		}
		add("values", values)
	case *schema.ArrayType:
		items, err := encode(t.Elem(), false)
		if err != nil {
			return nil, err
		}
		add("items", items)
	case *schema.UnionType:
		members := &yaml.Node{Kind: yaml.SequenceNode}
		for _, m := range t.Members() {
			mn, err := encode(m, false)
			if err != nil {
				return nil, err
			}
			members.Content = append(members.Content, mn)
		}
		add("members", members)
	case *schema.ObjectType:
		props := &yaml.Node{Kind: yaml.MappingNode}
		for _, p := range t.Properties() {
			pn, err := encode(p.Schema, p.Optional)
			if err != nil {
				return nil, err
			}
			props.Content = append(props.Content, scalar(p.Name), pn)
		}
		add("properties", props)
	default:
		return nil, errors.New("schemadoc: unsupported schema type")
	}

	if optional {
		add("optional", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
	}
	return n, nil
}
