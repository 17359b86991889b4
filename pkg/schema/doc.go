// Package schema validates untyped runtime values against declarative schemas.
//
// A Schema is an immutable tree built from a closed set of variants: Number,
// String, Boolean, Enum, Array, Union and Object. Object properties are either
// required (Prop) or may be absent (Optional).
//
// Basic usage:
//
//	user := schema.Object(
//	    schema.Prop("name", schema.String()),
//	    schema.Prop("role", schema.Enum("admin", "member")),
//	    schema.Optional("tags", schema.Array(schema.String())),
//	)
//
//	result := schema.Validate(user, data)
//	if !result.Success() {
//	    fmt.Println(result.Description())
//	    // property [role]: should be one of "admin" | "member"
//	}
//
// Validation never coerces: the string "1" is not a number. Values decoded by
// encoding/json or gopkg.in/yaml.v3 work directly, as do Go maps with string
// keys, slices, structs (through their json tags) and pointers to any of them.
//
// Failures are returned as a ValidationError tree rather than a string, so
// callers can render them differently: Error flattens the tree into the
// canonical one-line message, Issues produces JSON-Pointer addressed leaves
// and MarshalError produces a nested JSON document.
//
// Validate is a pure function. A schema can be shared by any number of
// goroutines without locking.
package schema
