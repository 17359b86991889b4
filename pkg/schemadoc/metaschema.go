package schemadoc

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed metaschema.json
var metaSchemaJSON string

const metaSchemaURL = "conform-schema-document.json"

var compiledMetaSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(metaSchemaURL, strings.NewReader(metaSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(metaSchemaURL)
})

// MetaSchema returns the JSON Schema (draft 7) that schema documents follow.
func MetaSchema() []byte {
	return []byte(metaSchemaJSON)
}

func checkInstance(meta *jsonschema.Schema, instance any) error {
	err := meta.Validate(instance)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		return &DocumentError{Problems: collectProblems(ve)}
	}
	return &DocumentError{Problems: []string{err.Error()}}
}

func collectProblems(ve *jsonschema.ValidationError) []string {
	var msgs []string
	for _, cause := range ve.Causes {
		msgs = append(msgs, collectProblems(cause)...)
	}
	if len(ve.Causes) == 0 {
		msgs = append(msgs, fmt.Sprintf("%s: %s", pathOrRoot(ve.InstanceLocation), ve.Message))
	}
	return msgs
}
