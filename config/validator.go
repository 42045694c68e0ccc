package config

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	compiledSchema     *jsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

// SchemaValidator validates raw configuration documents against the schema
// reflected from Config.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator returns a validator; the schema is compiled once per
// process.
func NewSchemaValidator() (*SchemaValidator, error) {
	compiledSchemaOnce.Do(func() {
		compiledSchema, compiledSchemaErr = compileSchema()
	})
	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	return &SchemaValidator{schema: compiledSchema}, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	data, err := GenerateSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("seedee.json", bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile("seedee.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema, nil
}

// Validate checks a decoded document (maps, slices and scalars as produced
// by encoding/json) against the schema.
func (v *SchemaValidator) Validate(doc interface{}) error {
	if err := v.schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			var messages []string
			collectErrors(validationErr, &messages)
			return fmt.Errorf("schema validation failed:\n%s", strings.Join(messages, "\n"))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// ValidateBytes decodes data in the given format and validates it.
func (v *SchemaValidator) ValidateBytes(data []byte, format Format) error {
	doc, err := decodeDocument([]byte(expandEnvVars(string(data))), format)
	if err != nil {
		return err
	}
	return v.Validate(doc)
}

// collectErrors recursively collects all validation errors into a slice
func collectErrors(err *jsonschema.ValidationError, messages *[]string) {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		*messages = append(*messages, fmt.Sprintf("- %s: %s", location, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
