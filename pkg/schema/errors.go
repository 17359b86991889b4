package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationError describes why a value does not match a schema.
//
// It is either a *Leaf or a PropertyErrors. Error returns the flattened
// message: leaves verbatim, property errors as
// "property [name]: <nested>" entries joined with ", ".
type ValidationError interface {
	error
	validationError()
}

// Leaf is a single mismatch at the current position.
type Leaf struct {
	Description string
}

func (e *Leaf) Error() string { return e.Description }

func (*Leaf) validationError() {}

// PropertyError ties a nested error to the object property it occurred in.
type PropertyError struct {
	Name string
	Err  ValidationError
}

// PropertyErrors lists every failing property of an object, in the order the
// properties were declared.
type PropertyErrors []PropertyError

func (e PropertyErrors) Error() string {
	var b strings.Builder
	for i, pe := range e {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "property [%s]: %s", pe.Name, pe.Err.Error())
	}
	return b.String()
}

func (PropertyErrors) validationError() {}

// Issue is one leaf of an error tree addressed by a JSON Pointer.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Issues flattens an error tree into path-addressed leaves, depth first and in
// declaration order. The root is addressed by the empty path.
func Issues(err ValidationError) []Issue {
	var out []Issue
	collectIssues(err, "", &out)
	return out
}

func collectIssues(err ValidationError, path string, out *[]Issue) {
	switch e := err.(type) {
	case nil:
	case *Leaf:
		*out = append(*out, Issue{Path: path, Message: e.Description})
	case PropertyErrors:
		for _, pe := range e {
			collectIssues(pe.Err, path+"/"+escapePointer(pe.Name), out)
		}
	default:
		panic(fmt.Sprintf("schema: unknown validation error type %T", err))
	}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(token string) string {
	return pointerEscaper.Replace(token)
}

type errorNode struct {
	Message    string         `json:"message,omitempty"`
	Properties []propertyNode `json:"properties,omitempty"`
}

type propertyNode struct {
	Name  string    `json:"name"`
	Error errorNode `json:"error"`
}

// MarshalError encodes an error tree as JSON. Leaves become
// {"message": "..."}; property errors become
// {"properties": [{"name": "...", "error": {...}}]}.
func MarshalError(err ValidationError) ([]byte, error) {
	if err == nil {
		return []byte("null"), nil
	}
	return json.Marshal(toNode(err))
}

func toNode(err ValidationError) errorNode {
	switch e := err.(type) {
	case *Leaf:
		return errorNode{Message: e.Description}
	case PropertyErrors:
		props := make([]propertyNode, len(e))
		for i, pe := range e {
			props[i] = propertyNode{Name: pe.Name, Error: toNode(pe.Err)}
		}
		return errorNode{Properties: props}
	default:
		panic(fmt.Sprintf("schema: unknown validation error type %T", err))
	}
}
