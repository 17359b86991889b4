/*
Package schemadoc reads and writes schemas as YAML or JSON documents.

A document is a tree of mappings, each with a "type" of number, string,
boolean, enum, array, union or object:

	type: object
	properties:
	  id: { type: union, members: [{ type: number }, { type: string }] }
	  status: { type: enum, values: [open, closed] }
	  tags: { type: array, items: { type: string } }
	  note: { type: string, optional: true }

Property order in the document is the order used when reporting errors.
Documents are checked against an embedded JSON Schema (see MetaSchema) before
they are built, so every structural problem is reported at once.

FromOpenAPI imports the component schemas of an OpenAPI 3 document.
*/
package schemadoc
