package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/conform/internal/presentation/graph"
	"github.com/aretw0/conform/pkg/schema"
)

var order = schema.Object(
	schema.Prop("id", schema.Number()),
	schema.Optional("note", schema.String()),
	schema.Prop("status", schema.Enum("open", "closed")),
	schema.Prop("lines", schema.Array(schema.Object(schema.Prop("sku", schema.String())))),
	schema.Prop("ref", schema.Union(schema.String(), schema.Number())),
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		contains []string
	}{
		{
			name:     "Root Object",
			contains: []string{"graph TD\n", `root["order"]`},
		},
		{
			name:     "Scalar Shape",
			contains: []string{`(("id: number"))`},
		},
		{
			name:     "Enum Shape",
			contains: []string{`[/"status: #quot;open#quot; | #quot;closed#quot;"/]`},
		},
		{
			name:     "Array Shape",
			contains: []string{`[["lines: Array<object>"]]`, `["items"]`},
		},
		{
			name:     "Union Shape",
			contains: []string{`{"ref: string | number"}`, `-- "or" -->`},
		},
	}

	out := graph.GenerateMermaid("order", order, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected output to contain %q\ngot:\n%s", want, out)
				}
			}
		})
	}

	if strings.Contains(out, "classDef") {
		t.Error("no overlay styles expected without an overlay")
	}
}

func TestGenerateMermaid_OptionalEdge(t *testing.T) {
	out := graph.GenerateMermaid("order", order, nil)
	if got := strings.Count(out, "-.->"); got != 1 {
		t.Errorf("expected exactly one dotted edge for the optional property, got %d\n%s", got, out)
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	res := schema.Validate(order, map[string]any{"id": "x", "status": "open", "lines": []any{}, "ref": true})
	var paths []string
	for _, issue := range schema.Issues(res.Err()) {
		paths = append(paths, issue.Path)
	}
	paths = append(paths, "/does/not/exist")

	out := graph.GenerateMermaid("order", order, &graph.GraphOverlay{FailedPaths: paths})

	if !strings.Contains(out, "classDef failed") {
		t.Fatalf("expected overlay styles\n%s", out)
	}
	if got := strings.Count(out, " failed;\n"); got != 2 {
		t.Errorf("expected 2 highlighted nodes (id and ref), got %d\n%s", got, out)
	}
}
