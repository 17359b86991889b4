/*
Package conform is a runtime schema-validation engine for dynamically typed data.

Schemas are built from a small closed set of types (number, string, boolean,
enum, array, union and object) and checked against arbitrary Go values such as
the output of encoding/json or gopkg.in/yaml.v3. Validation is exhaustive over
object properties: every missing, mistyped or out-of-range property is reported,
in declaration order.

# Key Features

  - Closed schema model: the set of schema kinds cannot be extended, so every
    consumer can switch over it exhaustively.
  - Structured errors: a tree of property errors that renders as a single line,
    as JSON Pointer issues, or as JSON.
  - Schema documents: YAML or JSON files checked against a draft-07 meta-schema,
    plus import from OpenAPI 3 components.
  - Serving: a named registry over memory, file or Redis stores, exposed through
    an HTTP API with Prometheus metrics and an MCP server for AI agents.

# Usage

Build a schema with the constructors of pkg/schema and validate a value:

	package main

	import (
		"fmt"

		"github.com/aretw0/conform/pkg/schema"
	)

	func main() {
		user := schema.Object(
			schema.Prop("name", schema.String()),
			schema.Optional("age", schema.Number()),
		)

		res := schema.Validate(user, map[string]any{"age": "old"})
		fmt.Println(res.Description())
		// property [name]: should be provided, property [age]: should be number
	}

The conform command (cmd/conform) checks files from the shell and runs the
HTTP and MCP servers.
*/
package conform
