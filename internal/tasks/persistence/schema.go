package persistence

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaJSON []byte

const schemaURL = "tasks.schema.json"

var documentSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("persistence: add schema: %v", err))
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("persistence: compile schema: %v", err))
	}
	return schema
}

// validateSchema records every schema violation of doc as a document warning.
func validateSchema(doc any, report *Report) {
	err := documentSchema.Validate(doc)
	if err == nil {
		return
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		report.document("schema: %v", err)
		return
	}
	collectSchemaErrors(ve, report)
}

func collectSchemaErrors(err *jsonschema.ValidationError, report *Report) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		report.document("schema: %s: %s", loc, strings.TrimSpace(err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, report)
	}
}
