package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petSchema = `type: object
properties:
  name: { type: string }
  kind: { type: enum, values: [cat, dog] }
  age: { type: number, optional: true }
`

// execute runs the CLI in-process and resets every flag afterwards, since cobra
// keeps flag values on the package-level commands between runs.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() { resetFlags(rootCmd) })

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCheck_SchemaFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "pet.yaml", petSchema)
	good := writeFile(t, dir, "rex.json", `{"name": "Rex", "kind": "dog", "age": 3}`)
	bad := writeFile(t, dir, "tom.yaml", "kind: cow\nage: old\n")

	out, err := execute(t, "", "check", "--schema", schemaPath, good)
	require.NoError(t, err)
	assert.Contains(t, out, "✔ "+good+" conforms to "+schemaPath)

	out, err = execute(t, "", "check", "--schema", schemaPath, good, bad)
	assert.ErrorIs(t, err, errNotConform)
	assert.Contains(t, out, "/name: should be provided")
	assert.Contains(t, out, `/kind: should be one of "cat" | "dog"`)
	assert.Contains(t, out, "/age: should be number")
}

func TestCheck_Stdin_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "pet.yaml", petSchema)

	out, err := execute(t, `{"name": "Tom", "kind": "cat"}`, "check", "--schema", schemaPath, "--format", "json", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "<stdin>"`)
	assert.Contains(t, out, `"valid": true`)
}

func TestCheck_StoredSchema(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pet.yaml", petSchema)
	data := writeFile(t, t.TempDir(), "data.json", `{"name": 1, "kind": "dog"}`)

	out, err := execute(t, "", "check", "--store", dir, "--schema", "pet", data)
	assert.ErrorIs(t, err, errNotConform)
	assert.Contains(t, out, "/name: should be string")

	_, err = execute(t, "", "check", "--store", dir, "--schema", "ghost", data)
	assert.ErrorContains(t, err, "schema not found")
}

func TestCheck_Errors(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "pet.yaml", petSchema)

	_, err := execute(t, "", "check", "--schema", schemaPath, filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read")

	_, err = execute(t, "", "check", "--schema", "../nowhere", "-")
	assert.ErrorContains(t, err, "neither a file nor a valid schema name")

	trailing := writeFile(t, dir, "trailing.json", `{"name": "Rex", "kind": "dog"} {"name": "Tom"}`)
	_, err = execute(t, "", "check", "--schema", schemaPath, trailing)
	assert.ErrorContains(t, err, "unexpected data after the JSON value")

	broken := writeFile(t, dir, "broken.yaml", "type: enum\n")
	_, err = execute(t, "", "check", "--schema", broken, "-")
	assert.ErrorContains(t, err, "invalid schema document")
}

func TestSchemasCommands(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, t.TempDir(), "pet.yaml", petSchema)

	_, err := execute(t, "", "--dir", dir, "schemas", "put", "pet", doc)
	require.NoError(t, err)

	out, err := execute(t, "", "--dir", dir, "schemas", "list")
	require.NoError(t, err)
	assert.Equal(t, "pet\n", out)

	out, err = execute(t, "", "--dir", dir, "schemas", "show", "pet")
	require.NoError(t, err)
	assert.Equal(t, petSchema, out)

	out, err = execute(t, "", "--dir", dir, "schemas", "show", "--describe", "pet")
	require.NoError(t, err)
	assert.Equal(t, "object\n", out)

	out, err = execute(t, "", "--dir", dir, "schemas", "show", "--mermaid", "pet")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"), out)
	assert.Contains(t, out, `root["pet"]`)

	_, err = execute(t, "", "--dir", dir, "schemas", "delete", "pet")
	require.NoError(t, err)

	_, err = execute(t, "", "--dir", dir, "schemas", "delete", "pet")
	assert.ErrorContains(t, err, "schema not found")
}

func TestSchemasImportOpenAPI(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, t.TempDir(), "api.yaml", `
openapi: 3.0.3
info: {title: pets, version: '1'}
paths: {}
components:
  schemas:
    Kind:
      type: string
      enum: [cat, dog]
    Tags:
      type: array
      items: { type: string }
`)

	out, err := execute(t, "", "--dir", dir, "schemas", "import-openapi", "--dry-run", "--prefix", "api.", spec)
	require.NoError(t, err)
	assert.Equal(t, "api.Kind: \"cat\" | \"dog\"\napi.Tags: Array<string>\n", out)

	out, err = execute(t, "", "--dir", dir, "schemas", "import-openapi", spec)
	require.NoError(t, err)
	assert.Equal(t, "Kind\nTags\n", out)
	assert.FileExists(t, filepath.Join(dir, "Kind.yaml"))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "conform version "), out)
}
