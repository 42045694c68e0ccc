package config

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for seedee.yml. Core sections are
// closed; unknown top-level keys are allowed since they hold extensions.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		// Expand struct references instead of using $ref for cleaner base schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
		Anonymous:    true,
	}

	schema := r.Reflect(&Config{})
	schema.Title = "Seedee Configuration"
	schema.Description = "Schema for seedee.yml project files."
	schema.AdditionalProperties = nil

	return json.MarshalIndent(schema, "", "  ")
}

// coreSectionNames lists the top-level keys Config decodes itself.
func coreSectionNames() []string {
	var names []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	return names
}
