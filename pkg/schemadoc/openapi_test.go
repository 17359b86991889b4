package schemadoc

import (
	"errors"
	"testing"

	"github.com/aretw0/conform/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstore = `
openapi: 3.0.3
info:
  title: Pets
  version: 1.0.0
paths: {}
components:
  schemas:
    Pet:
      type: object
      required: [name, kind]
      properties:
        name: { type: string }
        kind: { $ref: '#/components/schemas/Kind' }
        age: { type: integer }
        tags:
          type: array
          items: { type: string }
        owner:
          oneOf:
            - { type: string }
            - { type: number }
    Kind:
      type: string
      enum: [cat, dog]
`

func TestFromOpenAPI(t *testing.T) {
	schemas, err := FromOpenAPI([]byte(petstore))
	require.NoError(t, err)
	require.Len(t, schemas, 2)

	assert.Equal(t, `"cat" | "dog"`, schema.Describe(schemas["Kind"]))

	pet := schemas["Pet"]
	assert.True(t, schema.Validate(pet, map[string]any{"name": "Rex", "kind": "dog"}).Success())

	r := schema.Validate(pet, map[string]any{"kind": "cow", "age": "3", "owner": true})
	assert.Equal(t,
		`property [age]: should be number, property [kind]: should be one of "cat" | "dog", `+
			`property [name]: should be provided, property [owner]: should be string | number`,
		r.Description())
}

func TestFromOpenAPI_NoComponents(t *testing.T) {
	schemas, err := FromOpenAPI([]byte("openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\n"))
	require.NoError(t, err)
	assert.Empty(t, schemas)
}

func TestFromOpenAPI_Unsupported(t *testing.T) {
	doc := `
openapi: 3.0.3
info: {title: x, version: '1'}
paths: {}
components:
  schemas:
    Anything: {}
    Codes:
      type: string
      enum: [a]
    Matrix:
      type: array
`
	_, err := FromOpenAPI([]byte(doc))
	var docErr *DocumentError
	require.True(t, errors.As(err, &docErr), "got %v", err)
	assert.Len(t, docErr.Problems, 2)
	assert.Contains(t, docErr.Problems[0], "#/components/schemas/Anything")
	assert.Contains(t, docErr.Problems[1], "#/components/schemas/Matrix")
}

func TestFromOpenAPI_Recursive(t *testing.T) {
	doc := `
openapi: 3.0.3
info: {title: x, version: '1'}
paths: {}
components:
  schemas:
    Node:
      type: object
      properties:
        next: { $ref: '#/components/schemas/Node' }
`
	_, err := FromOpenAPI([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recursive")
}
