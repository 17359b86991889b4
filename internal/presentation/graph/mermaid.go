package graph

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/aretw0/conform/pkg/schema"
)

// GraphOverlay marks the nodes a validation failed at.
// Paths use the JSON Pointer form returned by schema.Issues.
type GraphOverlay struct {
	FailedPaths []string
}

// GenerateMermaid produces a Mermaid flowchart of a schema tree.
// It applies semantic styling:
// - Object: [Rectangle]
// - Array: [[Subroutine]]
// - Union: {Rhombus}
// - Enum: [/Parallelogram/]
// - Scalars: ((Circle))
// Optional properties use dotted edges. Failed paths from the overlay are highlighted.
func GenerateMermaid(name string, s schema.Schema, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	nodes := make(map[string]bool)
	writeNode(&sb, nodes, "", name, s)

	if overlay != nil && len(overlay.FailedPaths) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef failed fill:#fee2e2,stroke:#b91c1c,stroke-width:2px,color:#000;\n")

		seen := make(map[string]bool)
		for _, path := range overlay.FailedPaths {
			id := nodeID(path)
			// Failures inside an array or union are reported at that node; deeper paths may not exist.
			if nodes[id] && !seen[id] {
				seen[id] = true
				sb.WriteString(fmt.Sprintf("    class %s failed;\n", id))
			}
		}
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, nodes map[string]bool, path, label string, s schema.Schema) {
	id := nodeID(path)
	nodes[id] = true

	opener, closer := "((", "))"
	switch s.(type) {
	case *schema.ObjectType:
		opener, closer = "[", "]"
	case *schema.ArrayType:
		opener, closer = "[[", "]]"
	case *schema.UnionType:
		opener, closer = "{", "}"
	case *schema.EnumType:
		opener, closer = "[/", "/]"
	}
	text := escapeLabel(label + ": " + schema.Describe(s))
	if _, ok := s.(*schema.ObjectType); ok {
		text = escapeLabel(label)
	}
	sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, text, closer))

	switch t := s.(type) {
	case *schema.ObjectType:
		for _, p := range t.Properties() {
			childPath := path + "/" + pointerToken(p.Name)
			writeNode(sb, nodes, childPath, p.Name, p.Schema)
			arrow := "-->"
			if p.Optional {
				arrow = "-.->"
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", id, arrow, nodeID(childPath)))
		}
	case *schema.ArrayType:
		childPath := path + "/[]"
		writeNode(sb, nodes, childPath, "items", t.Elem())
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", id, nodeID(childPath)))
	case *schema.UnionType:
		for i, m := range t.Members() {
			childPath := fmt.Sprintf("%s/|%d", path, i)
			writeNode(sb, nodes, childPath, fmt.Sprintf("member %d", i), m)
			sb.WriteString(fmt.Sprintf("    %s -- \"or\" --> %s\n", id, nodeID(childPath)))
		}
	}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func pointerToken(name string) string {
	return pointerEscaper.Replace(name)
}

// nodeID maps a schema path to a Mermaid-safe identifier.
// The hash suffix keeps paths that sanitize alike distinct.
func nodeID(path string) string {
	if path == "" {
		return "root"
	}
	var b strings.Builder
	b.WriteString("n")
	for _, r := range path {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	h := fnv.New32a()
	h.Write([]byte(path))
	return fmt.Sprintf("%s_%x", b.String(), h.Sum32())
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
