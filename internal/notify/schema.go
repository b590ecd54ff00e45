package notify

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// packSchemaDef defines the JSON shape of a content pack. Ascending
// milestone order is enforced separately in ParsePack.
var packSchemaDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"milestones": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"days":    map[string]any{"type": "integer", "minimum": 1},
					"message": map[string]any{"type": "string", "minLength": 1},
				},
				"required":             []any{"days", "message"},
				"additionalProperties": false,
			},
		},
		"fallback_milestone_message": map[string]any{"type": "string", "minLength": 1},
		"quotes": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]any{"type": "string", "minLength": 1},
		},
		"craving_slots": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"hour":    map[string]any{"type": "integer", "minimum": 0, "maximum": 23},
					"minute":  map[string]any{"type": "integer", "minimum": 0, "maximum": 59},
					"message": map[string]any{"type": "string", "minLength": 1},
				},
				"required":             []any{"hour", "minute", "message"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"milestones", "fallback_milestone_message", "quotes", "craving_slots"},
	"additionalProperties": false,
}

var (
	packSchemaOnce sync.Once
	packSchema     *jsonschema.Schema
	packSchemaErr  error
)

// validatePack validates raw JSON against the pack schema.
func validatePack(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("content pack is not valid JSON: %w", err)
	}

	schema, err := compiledPackSchema()
	if err != nil {
		return fmt.Errorf("compile pack schema: %w", err)
	}

	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("content pack schema validation failed: %w", err)
	}
	return nil
}

// compiledPackSchema compiles the schema once and caches it.
func compiledPackSchema() (*jsonschema.Schema, error) {
	packSchemaOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not
		// raw bytes. Marshal then unmarshal to get a clean representation.
		defBytes, err := json.Marshal(packSchemaDef)
		if err != nil {
			packSchemaErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			packSchemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://content-pack.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			packSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		packSchema, packSchemaErr = c.Compile(schemaURL)
	})
	return packSchema, packSchemaErr
}
